package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/api/metrics"
	"github.com/taskhub/taskhub-api/internal/core/domain"
	"github.com/taskhub/taskhub-api/internal/core/ports"
)

type TaskHandler struct {
	tasks ports.TaskService
}

func NewTaskHandler(tasks ports.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List returns every task.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  Response{data=[]taskResponse}
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.tasks.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tasks retrieved successfully", toTaskResponses(tasks))
}

// Create adds a task owned by the caller.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  Response{data=taskResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), p, ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		return err
	}

	metrics.TaskMutationsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, "Task created successfully", toTaskResponse(task))
}

// Get returns a single task.
//
// @Summary      Get task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  Response{data=taskResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c, "task")
	if err != nil {
		return err
	}
	task, err := h.tasks.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task retrieved successfully", toTaskResponse(task))
}

// Update applies a partial update to a task owned by the caller.
//
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Task ID"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=taskResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathID(c, "task")
	if err != nil {
		return err
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.tasks.Update(c.Request().Context(), p, id, req.patch())
	if err != nil {
		countDenial(err, "task")
		return err
	}

	metrics.TaskMutationsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, "Task updated successfully", toTaskResponse(task))
}

// Delete removes a task owned by the caller.
//
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "task")
	if err != nil {
		return err
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), p, id); err != nil {
		countDenial(err, "task")
		return err
	}

	metrics.TaskMutationsTotal.WithLabelValues("delete").Inc()
	return respond(c, http.StatusOK, "Task deleted successfully", nil)
}

func countDenial(err error, resource string) {
	if errors.Is(err, domain.ErrForbidden) {
		metrics.AuthorizationDenialsTotal.WithLabelValues(resource).Inc()
	}
}
