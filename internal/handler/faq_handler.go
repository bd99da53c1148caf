package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/model"
	"studyplanner/internal/repository"
)

type FAQHandler struct {
	faqs   *repository.FAQRepository
	logger *zap.Logger
}

func NewFAQHandler(faqs *repository.FAQRepository, logger *zap.Logger) *FAQHandler {
	return &FAQHandler{faqs: faqs, logger: logger}
}

// ListPublished returns published FAQ entries. The admin audience is only
// visible to admin callers; everyone else gets the user audience.
func (h *FAQHandler) ListPublished(c *gin.Context) {
	audience := c.DefaultQuery("audience", model.FAQAudienceUser)
	if audience == model.FAQAudienceAdmin && !CurrentUser(c).IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}
	if audience != model.FAQAudienceUser && audience != model.FAQAudienceAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audience"})
		return
	}
	faqs, err := h.faqs.ListPublished(c.Request.Context(), audience)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}

func (h *FAQHandler) AdminList(c *gin.Context) {
	faqs, err := h.faqs.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"faqs": faqs})
}

type faqInput struct {
	Audience    string  `json:"audience"`
	Category    *string `json:"category"`
	Question    string  `json:"question"`
	AnswerMD    string  `json:"answer_md"`
	SortOrder   int     `json:"sort_order"`
	IsPublished bool    `json:"is_published"`
}

func (in faqInput) valid() bool {
	if in.Question == "" || in.AnswerMD == "" {
		return false
	}
	return in.Audience == model.FAQAudienceUser || in.Audience == model.FAQAudienceAdmin
}

func (h *FAQHandler) AdminCreate(c *gin.Context) {
	var in faqInput
	if err := c.ShouldBindJSON(&in); err != nil || !in.valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := h.faqs.Insert(c.Request.Context(), &model.FAQ{
		Audience:    in.Audience,
		Category:    in.Category,
		Question:    in.Question,
		AnswerMD:    in.AnswerMD,
		SortOrder:   in.SortOrder,
		IsPublished: in.IsPublished,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	faq, err := h.faqs.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, faq)
}

func (h *FAQHandler) AdminUpdate(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var in faqInput
	if err := c.ShouldBindJSON(&in); err != nil || !in.valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	faq, err := h.faqs.Update(c.Request.Context(), &model.FAQ{
		ID:          id,
		Audience:    in.Audience,
		Category:    in.Category,
		Question:    in.Question,
		AnswerMD:    in.AnswerMD,
		SortOrder:   in.SortOrder,
		IsPublished: in.IsPublished,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, faq)
}

func (h *FAQHandler) AdminDelete(c *gin.Context) {
	id, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := h.faqs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
