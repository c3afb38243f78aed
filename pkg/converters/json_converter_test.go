package converters

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/file-organizer/internal/models"
)

func TestNewRequestID(t *testing.T) {
	re := regexp.MustCompile(`^org_[0-9a-f]{12}$`)
	a := NewRequestID(OrganizeRequestPrefix)
	b := NewRequestID(OrganizeRequestPrefix)
	assert.Regexp(t, re, a)
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^ing_[0-9a-f]{12}$`, NewRequestID(IngestRequestPrefix))
}

func TestBuildEnvelopeEmptyResults(t *testing.T) {
	env := BuildEnvelope("org_000000000000", nil)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"request_id":"org_000000000000","results":[]}`, string(data))
}

func TestBuildIngestResponseCounts(t *testing.T) {
	results := []*models.IngestionResult{
		{Status: models.StatusOK, FileHash: "h1"},
		{Status: models.StatusOK, FileHash: "h2"},
		{Status: models.StatusError},
		{Status: models.StatusSkipped},
		{Status: models.StatusUnsupported},
	}
	resp := BuildIngestResponse("ing_abc", results)
	assert.Equal(t, 5, resp.TotalFiles)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 1, resp.Failed)
}

func TestItemFromIngestion(t *testing.T) {
	res := &models.IngestionResult{
		OriginPath: "/tmp/x.xyz",
		Status:     models.StatusUnsupported,
		Error:      models.StringPtr("File type .xyz is not supported"),
	}
	item := ItemFromIngestion(res)
	assert.Equal(t, res.OriginPath, item.OriginPath)
	assert.Equal(t, res.Status, item.Status)
	assert.Equal(t, res.Error, item.Error)
	assert.Nil(t, item.Action)
	assert.NoError(t, CheckInvariants(item))
}

func TestCheckInvariants(t *testing.T) {
	okItem := &models.ItemResult{
		FileHash: "abc",
		Status:   models.StatusOK,
		Action:   &models.PlanAction{Confidence: models.Float64Ptr(0.5)},
	}
	assert.NoError(t, CheckInvariants(okItem))

	tests := []struct {
		name string
		item *models.ItemResult
	}{
		{"ok without hash", &models.ItemResult{Status: models.StatusOK, Action: &models.PlanAction{}}},
		{"ok without action", &models.ItemResult{Status: models.StatusOK, FileHash: "abc"}},
		{"error with hash", &models.ItemResult{Status: models.StatusError, FileHash: "abc", Error: models.StringPtr("x")}},
		{"skipped without message", &models.ItemResult{Status: models.StatusSkipped}},
		{"unknown status", &models.ItemResult{Status: "pending", Error: models.StringPtr("x")}},
		{"confidence above one", &models.ItemResult{Status: models.StatusOK, FileHash: "h", Action: &models.PlanAction{Confidence: models.Float64Ptr(1.5)}}},
		{"rename with directory", &models.ItemResult{Status: models.StatusOK, FileHash: "h", Action: &models.PlanAction{Rename: models.StringPtr("a/b.pdf")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, CheckInvariants(tt.item))
		})
	}
}

func TestCountStatuses(t *testing.T) {
	counts := CountStatuses([]*models.ItemResult{
		{Status: models.StatusOK}, {Status: models.StatusOK}, {Status: models.StatusError},
	})
	assert.Equal(t, 2, counts[models.StatusOK])
	assert.Equal(t, 1, counts[models.StatusError])
	assert.Zero(t, counts[models.StatusSkipped])
}
