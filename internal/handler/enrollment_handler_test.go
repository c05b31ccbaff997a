package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academic-ledger-api/internal/service"
	appErrors "github.com/noah-isme/academic-ledger-api/pkg/errors"
)

func newEnrollmentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewEnrollmentHandler(service.NewEnrollmentService(nil, nil, nil, nil, nil, nil), nil)
	r := gin.New()
	r.PUT("/enrollments/:id/grade", handler.RecordGrade)
	r.PUT("/scores/:id", handler.UpdateScore)
	r.DELETE("/scores/:id", handler.DeleteScore)
	return r
}

func decodeError(t *testing.T, body []byte) *appErrors.Error {
	t.Helper()
	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.NotNil(t, envelope.Error)
	return envelope.Error
}

func TestEnrollmentHandlerMalformedIDsNameTheRightResource(t *testing.T) {
	router := newEnrollmentRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/enrollments/abc/grade", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid enrollment id", decodeError(t, w.Body.Bytes()).Message)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPut, "/scores/abc", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid score id", decodeError(t, w.Body.Bytes()).Message)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodDelete, "/scores/xyz", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid score id", decodeError(t, w.Body.Bytes()).Message)
}
