package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/service/planner"
)

type PlanHandler struct {
	svc    *planner.Service
	logger *zap.Logger
}

func NewPlanHandler(svc *planner.Service, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{svc: svc, logger: logger}
}

func (h *PlanHandler) Create(c *gin.Context) {
	var in planner.CreatePlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	plan, err := h.svc.CreatePlan(c.Request.Context(), CurrentUser(c), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.svc.ListPlans(c.Request.Context(), CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

func (h *PlanHandler) Get(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	plan, tasks, err := h.svc.GetPlan(c.Request.Context(), CurrentUser(c), planID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": plan, "tasks": tasks})
}

func (h *PlanHandler) Update(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var in planner.UpdatePlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	plan, err := h.svc.UpdatePlan(c.Request.Context(), CurrentUser(c), planID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Archive(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	plan, err := h.svc.ArchivePlan(c.Request.Context(), CurrentUser(c), planID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Delete(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePlan(c.Request.Context(), CurrentUser(c), planID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
