// Package response holds the JSON shapes shared by all handlers.
package response

import (
	"github.com/labstack/echo/v4"
)

// ErrorBody is the uniform error payload: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// MessageBody is the payload for deletes and revokes: {"message": "..."}.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes a plain resource body.
func JSON(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, data)
}

// Message writes a {"message": ...} body.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageBody{Message: message})
}

// Error writes an {"error": ...} body.
func Error(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorBody{Error: message})
}
