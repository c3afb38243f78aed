package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestRecordersAreExposed(t *testing.T) {
	RecordHTTPRequest("GET", "/health", 200, 10*time.Millisecond)
	RecordFile("unsupported")
	ObserveExtraction("ollama", time.Second, nil)
	ObserveExtraction("ollama", time.Second, errors.New("boom"))
	RecordStorageOperation("s3", "get", 5*time.Millisecond)
	RecordTask("organize:plan", "completed")

	body := scrape(t)
	assert.Contains(t, body, `fileorg_http_requests_total{method="GET",path="/health",status="200"}`)
	assert.Contains(t, body, `fileorg_files_processed_total{status="unsupported"}`)
	assert.Contains(t, body, `fileorg_extractions_total{backend="ollama",status="error"}`)
	assert.Contains(t, body, `fileorg_extractions_total{backend="ollama",status="success"}`)
	assert.Contains(t, body, `fileorg_storage_operation_duration_seconds_count{backend="s3",operation="get"}`)
	assert.Contains(t, body, `fileorg_tasks_total{state="completed",type="organize:plan"}`)
}
