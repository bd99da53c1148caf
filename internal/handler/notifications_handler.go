package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/pkg/config"
)

// NotificationsHandler proxies notification reads to the parent app, which
// owns the notification inbox. The planner only pushes events outward.
type NotificationsHandler struct {
	parent     config.ParentConfig
	httpClient *http.Client
	logger     *zap.Logger
}

func NewNotificationsHandler(parent config.ParentConfig, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		parent:     parent,
		httpClient: &http.Client{Timeout: 3 * time.Second},
		logger:     logger,
	}
}

// UnreadCount fetches the caller's unread notification count from the
// parent app, forwarding the session cookie. When the parent is missing or
// unreachable the count degrades to zero instead of failing the page.
func (h *NotificationsHandler) UnreadCount(c *gin.Context) {
	if h.parent.BaseURL == "" {
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet,
		h.parent.BaseURL+"/api/notifications/unread-count", nil)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookie})
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Debug("Parent unread-count fetch failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": payload.Count})
}
