package handlers

import (
	"net/http"
	"time"

	"github.com/CammoPaint/QuoteGen-sub000/internal/common"
	"github.com/CammoPaint/QuoteGen-sub000/internal/models"
	"github.com/CammoPaint/QuoteGen-sub000/internal/repositories"
	"github.com/CammoPaint/QuoteGen-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TaskHandlers serves the tasks collection
type TaskHandlers struct {
	taskRepo repositories.TaskRepository
	resolver services.ScopeResolver
}

// NewTaskHandlers creates a new task handlers instance
func NewTaskHandlers(taskRepo repositories.TaskRepository, resolver services.ScopeResolver) *TaskHandlers {
	return &TaskHandlers{taskRepo: taskRepo, resolver: resolver}
}

// ListTasks returns the tasks visible to the caller
func (h *TaskHandlers) ListTasks(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	req.normalize()

	filterUserID, err := parseFilterUserID(c)
	if err != nil {
		return common.SendValidationError(c, "filterUserId", err.Error())
	}

	scope, err := h.resolver.Resolve(principal, models.RecordKindTasks, filterUserID)
	if err != nil {
		return common.RespondError(c, err)
	}

	tasks, err := h.taskRepo.List(c.Request().Context(), scope, req.Limit, req.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks":  tasks,
		"limit":  req.Limit,
		"offset": req.Offset,
	})
}

// CreateTaskRequest represents the task creation payload
type CreateTaskRequest struct {
	Title   string     `json:"title" validate:"required"`
	DueDate *time.Time `json:"due_date,omitempty"`
}

// CreateTask creates a task owned by the caller
func (h *TaskHandlers) CreateTask(c echo.Context) error {
	principal, ok := common.PrincipalFromContext(c.Request().Context())
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Title is required")
	}

	task := &models.Task{
		ID:       uuid.New(),
		TenantID: principal.TenantID,
		OwnerID:  principal.ID,
		Title:    req.Title,
		Status:   "open",
		DueDate:  req.DueDate,
	}

	if err := h.taskRepo.Create(c.Request().Context(), task); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create task")
	}

	return c.JSON(http.StatusCreated, task)
}
