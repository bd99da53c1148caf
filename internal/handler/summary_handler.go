package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/model"
	"studyplanner/internal/service/notify"
	"studyplanner/internal/service/summary"
)

type SummaryHandler struct {
	summaries *summary.Service
	notifier  *notify.Notifier
	logger    *zap.Logger
}

func NewSummaryHandler(summaries *summary.Service, notifier *notify.Notifier, logger *zap.Logger) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, notifier: notifier, logger: logger}
}

// Get returns the caller's current summary without pushing it anywhere.
func (h *SummaryHandler) Get(c *gin.Context) {
	s, err := h.summaries.Build(c.Request.Context(), CurrentUser(c).UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Push rebuilds the caller's summary and queues a dashboard delivery. The
// response only acknowledges the enqueue; delivery itself is asynchronous.
func (h *SummaryHandler) Push(c *gin.Context) {
	h.notifier.PushSummary(c.Request.Context(), CurrentUser(c).UserID, model.EventSummaryRefreshed)
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}
