package echoapi

import "github.com/labstack/echo/v4"

// Every response wears the same envelope: success with data or a message,
// failure with a message and optional field details.
type (
	successResponse struct {
		Success bool        `json:"success"`
		Message string      `json:"message,omitempty"`
		Data    interface{} `json:"data,omitempty"`
	}

	errorResponse struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
		Error   string            `json:"error,omitempty"` // debug only
	}
)

func jsonData(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, successResponse{Success: true, Data: data})
}

func jsonMessage(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, successResponse{Success: true, Message: msg})
}
