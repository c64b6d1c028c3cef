package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/resume-parser/internal/apperror"
	"github.com/fadilmartias/resume-parser/internal/response"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := map[apperror.Kind]int{
		apperror.KindValidation:  400,
		apperror.KindNotFound:    404,
		apperror.KindNotReady:    409,
		apperror.KindSessionFull: 429,
		apperror.KindFailed:      422,
		apperror.KindBusy:        503,
		apperror.KindUnavailable: 503,
		apperror.KindUpstream:    502,
		apperror.KindInternal:    500,
	}
	for kind, want := range tests {
		assert.Equal(t, want, StatusFor(kind), kind)
	}
}

func serve(t *testing.T, h fiber.Handler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		message   string
		retryable bool
	}{
		{name: "not ready", err: apperror.NotReady("job is processing"), status: 409, message: "job is processing", retryable: true},
		{name: "session full", err: apperror.SessionFull("limit reached"), status: 429, message: "limit reached"},
		{name: "wrapped not found", err: errors.Join(errors.New("ctx"), apperror.NotFound("job not found")), status: 404, message: "job not found"},
		{name: "plain error", err: errors.New("pq: relation missing"), status: 500, message: "internal server error"},
		{name: "form error", err: NewFormError("validation failed", map[string]string{"message": "required"}), status: 400, message: "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := serve(t, func(c *fiber.Ctx) error { return HandleError(c, tt.err) })

			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			if tt.retryable {
				assert.Equal(t, true, body["retryable"])
			} else {
				assert.Nil(t, body["retryable"])
			}
		})
	}
}

func TestSuccessResponse(t *testing.T) {
	status, body := serve(t, func(c *fiber.Ctx) error {
		return SuccessResponse(c, SuccessResponseFormat{
			Message:    "ok",
			Data:       fiber.Map{"id": "1"},
			Pagination: &response.Pagination{Page: 1, PageSize: 20},
		})
	})

	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "1", body["data"].(map[string]any)["id"])
	assert.NotNil(t, body["pagination"])
}
