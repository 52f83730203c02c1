package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/startupheroes/package-events/internal/errors"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSuccessGin(t *testing.T) {
	t.Run("Success_WithData", func(t *testing.T) {
		c, w := newTestContext()

		SuccessGin(c, "Package sent successfully", int64(7))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeResponse(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Package sent successfully", body["message"])
		assert.Equal(t, float64(7), body["data"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("Success_ZeroCountIsKept", func(t *testing.T) {
		c, w := newTestContext()

		SuccessGin(c, "All packages sent successfully", 0)

		body := decodeResponse(t, w)
		assert.Contains(t, body, "data")
		assert.Equal(t, float64(0), body["data"])
	})
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "not found carries its message",
			err:             fmt.Errorf("Package not found with id: 9: %w", apperrors.ErrNotFound),
			expectedStatus:  http.StatusNotFound,
			expectedMessage: "Package not found with id: 9: not found",
		},
		{
			name:            "rejected maps to bad request",
			err:             apperrors.Wrap(apperrors.ErrRejected, "cancelled"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "cancelled: rejected",
		},
		{
			name:            "invalid input maps to bad request",
			err:             apperrors.Wrap(apperrors.ErrInvalidInput, "bad id"),
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: "bad id: invalid input",
		},
		{
			name:            "serialization failure maps to internal error",
			err:             apperrors.Wrap(apperrors.ErrSerialization, "encode"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "encode: serialization failure",
		},
		{
			name:            "unclassified error is hidden",
			err:             errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext()

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := decodeResponse(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.expectedMessage, body["message"])
			assert.NotContains(t, body, "data")
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext()

		HandleErrorGin(c, nil, nil)

		assert.Empty(t, w.Body.String())
	})
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, w := newTestContext()

	HandleValidationErrorGin(c, errors.New("package_id: must be no less than 1."), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeResponse(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "package_id: must be no less than 1.", body["message"])
}

func TestHandleBadRequestGin(t *testing.T) {
	c, w := newTestContext()

	HandleBadRequestGin(c, errors.New("malformed"), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed", decodeResponse(t, w)["message"])
}
