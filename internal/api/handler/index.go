package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type indexResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

// Index greets clients and lists the public surface of the API.
func Index(version string) echo.HandlerFunc {
	body := indexResponse{
		Name:    "taskhub-api",
		Version: version,
		Endpoints: []string{
			"GET /api/health",
			"POST /api/auth/register",
			"POST /api/auth/login",
			"GET /api/users",
			"GET /api/users/:id",
			"PUT /api/users/:id",
			"DELETE /api/users/:id",
			"GET /api/users/:id/tasks",
			"GET /api/tasks",
			"POST /api/tasks",
			"GET /api/tasks/:id",
			"PUT /api/tasks/:id",
			"DELETE /api/tasks/:id",
		},
	}
	return func(c echo.Context) error {
		return respond(c, http.StatusOK, "Welcome to the taskhub API", body)
	}
}
