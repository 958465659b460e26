package response

import (
	"github.com/labstack/echo/v4"
)

// ErrorBody is the envelope every failed request gets: {"ok":false,"error":...}.
// Successful responses carry route-specific bodies with an "ok":true field.
type ErrorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorBody{
		OK:    false,
		Error: message,
	})
}
