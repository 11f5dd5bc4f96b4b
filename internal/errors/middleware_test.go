package errors_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kha-Noob/liteflow-sub002/internal/api/contract"
	"github.com/Kha-Noob/liteflow-sub002/internal/constants"
	apperrors "github.com/Kha-Noob/liteflow-sub002/internal/errors"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "service error uses its code",
			err:        service.NewServiceError(constants.ErrCodeTransactionExists, errors.New("duplicate")),
			wantStatus: http.StatusConflict,
			wantCode:   constants.ErrCodeTransactionExists,
		},
		{
			name:       "wrapped service error",
			err:        errors.Join(errors.New("outer"), service.NewServiceError(constants.ErrCodeSessionNotFound, nil)),
			wantStatus: http.StatusNotFound,
			wantCode:   constants.ErrCodeSessionNotFound,
		},
		{
			name:       "fiber error keeps its status",
			err:        fiber.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "anything else is internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   constants.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: apperrors.ErrorHandler(zap.NewNop())})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body contract.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.OK)
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}
