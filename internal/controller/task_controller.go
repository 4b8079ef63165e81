package controller

import (
	"skillify_backend/internal/service"
	"skillify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskController serves the kanban board.
type TaskController struct {
	TaskService *service.TaskService
}

func NewTaskController(taskService *service.TaskService) *TaskController {
	return &TaskController{TaskService: taskService}
}

// swagger:model TaskRequest
type TaskRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=255"`
	Status  *string `json:"status"`
	Tag     *string `json:"tag" binding:"omitempty,max=50"`
	DueDate *string `json:"dueDate" binding:"omitempty,max=32"`
}

func (r TaskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:   r.Title,
		Status:  r.Status,
		Tag:     r.Tag,
		DueDate: r.DueDate,
	}
}

// List godoc
// @Summary List kanban tasks
// @Tags Kanban
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Task}
// @Router /api/kanban [get]
func (c *TaskController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	tasks, err := c.TaskService.List(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// Create godoc
// @Summary Create a kanban task
// @Tags Kanban
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaskRequest true "task"
// @Success 201 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response "invalid status"
// @Router /api/kanban [post]
func (c *TaskController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	var req TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.Title == nil || *req.Title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
	task, err := c.TaskService.Create(userID, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

func (c *TaskController) Update(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}
	var req TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	task, err := c.TaskService.Update(userID, taskID, req.input())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

func (c *TaskController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	taskID, err := util.ParseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid task id")
		return
	}
	if err := c.TaskService.Delete(userID, taskID); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Task deleted", nil)
}
