package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"abroad-compass/backend/internal/dto"
	"abroad-compass/backend/internal/service"
	"abroad-compass/backend/pkg/response"
)

// TaskHandler 任务 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// List 当前用户任务
// GET /api/v1/tasks
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	tasks, err := h.taskSvc.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, tasks)
}

// Create 创建任务
// POST /api/v1/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), userID, req.Title, req.Stage)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, task)
}

// UpdateStatus 更新任务状态
// PATCH /api/v1/tasks/:id
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.BadRequest(c, codeValidation, "Invalid task id")
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskSvc.UpdateStatus(c.Request.Context(), userID, id, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, task)
}

// Generate 为当前阶段生成默认任务
// POST /api/v1/tasks/generate
func (h *TaskHandler) Generate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.taskSvc.GenerateForStage(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, result)
}
