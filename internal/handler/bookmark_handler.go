package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/service/planner"
)

type BookmarkHandler struct {
	svc    *planner.Service
	logger *zap.Logger
}

func NewBookmarkHandler(svc *planner.Service, logger *zap.Logger) *BookmarkHandler {
	return &BookmarkHandler{svc: svc, logger: logger}
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	bookmarked, err := h.svc.ToggleBookmark(c.Request.Context(), CurrentUser(c), planID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

func (h *BookmarkHandler) List(c *gin.Context) {
	items, err := h.svc.ListBookmarks(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarks": items})
}
