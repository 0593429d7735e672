package util

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prajwalts/interviewdost/internal/config"
	"github.com/prajwalts/interviewdost/internal/response"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
}

type successEnvelope struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code    int
	Message string
}

type errorEnvelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
}

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(successEnvelope{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
	})
}

// ErrorResponse writes the standard error envelope. The underlying error is
// exposed only outside production; callers never see raw internals there.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	envelope := errorEnvelope{
		Success: false,
		Message: params.Message,
	}
	if config.LoadAppConfig().Env != "production" && len(errs) > 0 && errs[0] != nil {
		envelope.DevMessage = errs[0].Error()
	}

	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(envelope)
}
