package handler

import "github.com/labstack/echo/v4"

// Response is the success envelope shared by every JSON endpoint.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse documents the envelope rendered by the API error handler.
type ErrorResponse struct {
	Success bool `json:"success" example:"false"`
	Error   struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}
