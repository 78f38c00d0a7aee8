package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rehoming/domain/person"
	"rehoming/domain/shared"
	"rehoming/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	c.Set(RequestIDKey, "req-1")

	HandleAppError(c, err)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandleAppError_DomainErrors(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	defer logger.SetForTest(zap.New(core))()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", person.NewCatNotFoundError("c1"), http.StatusNotFound, "CAT_NOT_FOUND"},
		{"state", person.NewActiveStatusRequiredError(), http.StatusBadRequest, "INVALID_ADVERTISEMENT_STATE"},
		{"duplicate", person.NewDuplicateContactError("email", "a@b.c"), http.StatusConflict, "DUPLICATE_CONTACT"},
		{"validation", shared.NewValidationError("person", "nickname", "too short"), http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := handle(t, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, resp.Error)
			assert.Equal(t, "req-1", resp.RequestID)
			assert.False(t, resp.Success)
		})
	}
	assert.Zero(t, logs.FilterLevelExact(zap.ErrorLevel).Len())
}

func TestHandleAppError_InternalHidesDetails(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	defer logger.SetForTest(zap.New(core))()

	rec, resp := handle(t, errors.New("connection refused to 10.0.0.3"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", resp.Message)

	entries := logs.FilterLevelExact(zap.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "stack")
}
