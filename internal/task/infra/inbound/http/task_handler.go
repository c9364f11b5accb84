// en internal/task/infra/inbound/http/task_handler.go
package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authDomain "github.com/davicafu/mstask/internal/auth/domain"
	"github.com/davicafu/mstask/internal/task/application"
	taskDomain "github.com/davicafu/mstask/internal/task/domain"
	"github.com/davicafu/mstask/pkg/utils"
)

const (
	msgCreated = "Task Successfully Created"
	msgDeleted = "Task Deleted Successfully"
	msgUpdated = "Task Updated Successfully"
)

// TaskHandler encapsula los endpoints HTTP relacionados con Task.
type TaskHandler struct {
	service application.Service
	log     *zap.Logger
}

// NewTaskHandler crea un nuevo TaskHandler.
func NewTaskHandler(service application.Service, log *zap.Logger) *TaskHandler {
	return &TaskHandler{service: service, log: log}
}

// createTaskRequest es el cuerpo de POST /create. id y timestamps los pone el store.
type createTaskRequest struct {
	User        string                  `json:"user"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	State       taskDomain.TaskState    `json:"state"`
	Priority    taskDomain.TaskPriority `json:"priority"`
	DueDate     string                  `json:"dueDate"`
}

// --- Handlers CRUD ---

// CreateTask endpoint POST /ms/task/create
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, taskDomain.WrapOp(taskDomain.OpCreate, err))
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), &taskDomain.Task{
		User:        req.User,
		Name:        req.Name,
		Description: req.Description,
		State:       req.State,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SendSuccess(c, msgCreated, "task", task)
}

// GetTask endpoint GET /ms/task/:taskID
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask endpoint PUT /ms/task/:taskID
// Un cuerpo vacío equivale a {}: no cambia campos pero la tarea debe existir.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var patch taskDomain.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(c, taskDomain.WrapOp(taskDomain.OpUpdate, err))
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), c.Param("taskID"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SendSuccess(c, msgUpdated, "updatedTask", task)
}

// DeleteTask endpoint DELETE /ms/task/:taskID
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, err := h.service.DeleteTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SendSuccess(c, msgDeleted, "taskDeleted", task)
}

// --- Listados (?userID=) ---

func (h *TaskHandler) ListPending(c *gin.Context) {
	h.list(c, h.service.ListPending)
}

func (h *TaskHandler) ListCompleted(c *gin.Context) {
	h.list(c, h.service.ListCompleted)
}

func (h *TaskHandler) ListHighPriority(c *gin.Context) {
	h.list(c, h.service.ListHighPriority)
}

func (h *TaskHandler) ListMediumPriority(c *gin.Context) {
	h.list(c, h.service.ListMediumPriority)
}

func (h *TaskHandler) ListLowPriority(c *gin.Context) {
	h.list(c, h.service.ListLowPriority)
}

func (h *TaskHandler) list(c *gin.Context, fn func(context.Context, string) ([]*taskDomain.Task, error)) {
	tasks, err := fn(c.Request.Context(), c.Query("userID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	utils.SendTasks(c, tasks)
}

// respondError traduce los tres tipos de error a status HTTP.
func (h *TaskHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, taskDomain.ErrTaskNotFound):
		utils.SendNotFound(c)
	case authDomain.IsAuthError(err):
		utils.AbortUnauthorized(c, utils.MsgInvalidToken)
	default:
		h.log.Error("Task operation failed", zap.String("path", c.FullPath()), zap.Error(err))
		utils.SendInternalServerError(c, err.Error())
	}
}
