package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studyplanner/internal/service/planner"
)

type TaskHandler struct {
	svc    *planner.Service
	logger *zap.Logger
}

func NewTaskHandler(svc *planner.Service, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

func (h *TaskHandler) Create(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	var in planner.CreateTaskInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	task, err := h.svc.CreateTask(c.Request.Context(), CurrentUser(c), planID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) List(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	tasks, err := h.svc.ListTasks(c.Request.Context(), CurrentUser(c), planID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *TaskHandler) Update(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskId")
	if !ok {
		return
	}

	// The body is decoded twice: once into the input struct and once into
	// a key set, so an explicit "due_date": null can be told apart from an
	// absent field.
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var in planner.UpdateTaskInput
	if err := json.Unmarshal(body, &in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		_, in.DueDateSet = fields["due_date"]
	}

	task, err := h.svc.UpdateTask(c.Request.Context(), CurrentUser(c), planID, taskID, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	planID, ok := pathInt(c, "id")
	if !ok {
		return
	}
	taskID, ok := pathInt(c, "taskId")
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), CurrentUser(c), planID, taskID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
