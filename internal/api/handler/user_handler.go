package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub-api/internal/core/ports"
)

// UserHandler serves account reads and the owner-only account mutations.
type UserHandler struct {
	users ports.UserService
	tasks ports.TaskService
}

func NewUserHandler(users ports.UserService, tasks ports.TaskService) *UserHandler {
	return &UserHandler{users: users, tasks: tasks}
}

// List returns every account.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  Response{data=[]userResponse}
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", toUserResponses(users))
}

// Get returns a single account.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response{data=userResponse}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User retrieved successfully", toUserResponse(user))
}

// Update replaces the caller's username and email.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "New profile"
// @Success      200   {object}  Response{data=userResponse}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), p, id, ports.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		countDenial(err, "user")
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", toUserResponse(user))
}

// Delete removes the caller's account and every task it owns.
//
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.users.Delete(c.Request().Context(), p, id); err != nil {
		countDenial(err, "user")
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// ListTasks returns the tasks owned by a user. An unknown user has no tasks.
//
// @Summary      List a user's tasks
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response{data=[]taskResponse}
// @Failure      400  {object}  ErrorResponse
// @Router       /api/users/{id}/tasks [get]
func (h *UserHandler) ListTasks(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return err
	}
	tasks, err := h.tasks.ListByUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User tasks retrieved successfully", toTaskResponses(tasks))
}
