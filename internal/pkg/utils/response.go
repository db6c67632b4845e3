package utils

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/route-gateway/internal/pkg/errors"
)

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

// SendRaw отдаёт ответ провайдера как есть, без обёртки data
func SendRaw(c *fiber.Ctx, payload json.RawMessage) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusOK).Send(payload)
}

func SendError(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	// Unknown error - return 500
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}

// ErrorCodeFromStatus - код ошибки из HTTP статуса: 404 -> NOT_FOUND
func ErrorCodeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "INTERNAL_SERVER_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
