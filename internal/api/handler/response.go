package handler

import "github.com/labstack/echo/v4"

// apiResponse is the success envelope shared by all endpoints.
type apiResponse struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// respond renders the envelope with the given status code.
func respond(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, apiResponse{
		Status:  status,
		Data:    data,
		Message: message,
		Success: status < 400,
	})
}
