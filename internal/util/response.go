package util

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/config"
	"github.com/fadilmartias/resume-parser/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	ErrorCode  string
	Retryable  bool
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ErrorCode  string `json:"error_code,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("form error: %s", e.Message)
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}

// SuccessResponse writes the standard success envelope.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	response := OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	}
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(response)
}

// ErrorResponse writes the standard error envelope. Outside production the
// underlying error and a stack trace are attached for debugging.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	response := OrderedErrorResponse{
		Success:   false,
		Message:   params.Message,
		ErrorCode: params.ErrorCode,
		Retryable: params.Retryable,
	}
	if params.Details != nil {
		response.Details = params.Details
	}
	if !config.LoadAppConfig().IsProduction() {
		if len(errs) > 0 && errs[0] != nil {
			response.DevMessage = errs[0].Error()
			response.Trace = string(debug.Stack())
		}

		if params.DevMessage != "" {
			response.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			response.Trace = params.Trace
		}
	}

	errorCode := params.Code
	if params.Code == 0 {
		errorCode = fiber.StatusInternalServerError
	}
	return c.Status(errorCode).JSON(response)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindNotReady:
		return fiber.StatusConflict
	case apperror.KindSessionFull:
		return fiber.StatusTooManyRequests
	case apperror.KindFailed:
		return fiber.StatusUnprocessableEntity
	case apperror.KindBusy, apperror.KindUnavailable:
		return fiber.StatusServiceUnavailable
	case apperror.KindUpstream:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// HandleError renders err with the status its kind maps to. Internal errors
// get a generic message so storage details do not leak.
func HandleError(c *fiber.Ctx, err error) error {
	var formErr *FormError
	if errors.As(err, &formErr) {
		return ErrorResponse(c, ErrorResponseFormat{
			Code:      fiber.StatusBadRequest,
			Message:   formErr.Message,
			ErrorCode: string(apperror.KindValidation),
			Details:   formErr.Errors,
		})
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		return ErrorResponse(c, ErrorResponseFormat{
			Code:      fiber.StatusInternalServerError,
			Message:   "internal server error",
			ErrorCode: string(apperror.KindInternal),
		}, err)
	}

	message := appErr.Message
	if appErr.Kind == apperror.KindInternal {
		message = "internal server error"
	}
	return ErrorResponse(c, ErrorResponseFormat{
		Code:      StatusFor(appErr.Kind),
		Message:   message,
		ErrorCode: string(appErr.Kind),
		Retryable: appErr.Retryable(),
	}, appErr.Err)
}
