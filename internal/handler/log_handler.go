package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/service/planner"
)

type LogHandler struct {
	svc    *planner.Service
	logger *zap.Logger
}

func NewLogHandler(svc *planner.Service, logger *zap.Logger) *LogHandler {
	return &LogHandler{svc: svc, logger: logger}
}

func (h *LogHandler) Create(c *gin.Context) {
	var in planner.CreateLogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry, err := h.svc.CreateLog(c.Request.Context(), CurrentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *LogHandler) List(c *gin.Context) {
	logs, err := h.svc.ListLogs(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
