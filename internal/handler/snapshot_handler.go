package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/service/planner"
)

type SnapshotHandler struct {
	svc    *planner.Service
	logger *zap.Logger
}

func NewSnapshotHandler(svc *planner.Service, logger *zap.Logger) *SnapshotHandler {
	return &SnapshotHandler{svc: svc, logger: logger}
}

// Today returns the due/overdue/upcoming buckets for the current user.
// Reading the snapshot also drives due and overdue notification detection.
func (h *SnapshotHandler) Today(c *gin.Context) {
	snapshot, err := h.svc.TodaySnapshot(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
