package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/models"
)

type stubAssignment struct {
	result *models.HandlerResult
	got    *models.WasteReport
}

func (s *stubAssignment) AssignWorker(report *models.WasteReport) *models.HandlerResult {
	s.got = report
	return s.result
}

type stubCompletion struct {
	result *models.HandlerResult
	got    *models.WasteReport
}

func (s *stubCompletion) CompleteTask(report *models.WasteReport) *models.HandlerResult {
	s.got = report
	return s.result
}

func newTestRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.defineRoutes(r)
	return r
}

func TestReportCreatedTrigger_ReturnsHandlerResult(t *testing.T) {
	assignment := &stubAssignment{result: &models.HandlerResult{
		Success: true,
		Message: "Worker assigned successfully.",
		Data:    &models.WasteReport{ID: "r1", Status: models.StatusAssigned, AssignedWorkerID: "w1"},
	}}
	s := &Server{Config: &config.Config{}, AssignmentService: assignment}
	router := newTestRouter(s)

	body := `{"id":"r1","residentId":"res1","status":"pending"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/report-created", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, assignment.got)
	assert.Equal(t, "r1", assignment.got.ID)

	var result models.HandlerResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "Worker assigned successfully.", result.Message)
	require.NotNil(t, result.Data)
	assert.Equal(t, "w1", result.Data.AssignedWorkerID)
}

func TestReportUpdatedTrigger_ReturnsHandlerResult(t *testing.T) {
	completion := &stubCompletion{result: &models.HandlerResult{
		Success: true,
		Message: "Task completed and rewards assigned.",
	}}
	s := &Server{Config: &config.Config{}, CompletionService: completion}
	router := newTestRouter(s)

	body := `{"id":"r1","status":"collected","assignedWorkerId":"w1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/report-updated", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, completion.got)
	assert.Equal(t, models.StatusCollected, completion.got.Status)

	var result models.HandlerResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Nil(t, result.Data)
}

func TestTrigger_MalformedPayloadFailsClosed(t *testing.T) {
	assignment := &stubAssignment{result: &models.HandlerResult{Success: true}}
	s := &Server{Config: &config.Config{}, AssignmentService: assignment}
	router := newTestRouter(s)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/triggers/report-created", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Transport still says 200; the failure is in the result body and
	// the handler was never invoked.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, assignment.got)

	var result models.HandlerResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid trigger payload.", result.Message)
	assert.NotEmpty(t, result.Error)
}
