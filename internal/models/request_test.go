package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizeRequestDefaults(t *testing.T) {
	var req OrganizeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"files":[{"path":"/a.pdf"},{"path":"/b.png"}]}`), &req))

	assert.Equal(t, []string{"/a.pdf", "/b.png"}, req.Paths())
	assert.Empty(t, req.DestinationPaths())
	assert.Equal(t, DefaultOrganizeOptions(), req.Options)
}

func TestOrganizeOptionsPartialOverride(t *testing.T) {
	var req OrganizeRequest
	body := `{"files":[{"path":"/a.pdf"}],"destinations":[{"path":"/docs"}],"options":{"make_summaries":true,"allow_vlm_ocr":false}}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.True(t, req.Options.MakeSummaries)
	assert.False(t, req.Options.AllowVLMOCR)
	assert.True(t, req.Options.AllowRenames)
	assert.Equal(t, 8000, req.Options.MaxTokensPerFile)
	assert.Equal(t, []string{"/docs"}, req.DestinationPaths())
}

func TestOrganizeOptionsDeriveIngestion(t *testing.T) {
	opts := DefaultOrganizeOptions()
	opts.AllowVLMOCR = false

	ing := opts.IngestionOptions()
	assert.False(t, ing.AllowVLMOCR)
	assert.Nil(t, ing.MaxFileSizeMB)
	assert.False(t, ing.TraverseFolders)
}

func TestIngestRequestDefaults(t *testing.T) {
	var req IngestRequest
	require.NoError(t, json.Unmarshal([]byte(`{"files":[{"path":"/in"}],"options":{"max_file_size_mb":5}}`), &req))

	assert.True(t, req.Options.AllowVLMOCR)
	assert.True(t, req.Options.TraverseFolders)
	require.NotNil(t, req.Options.MaxFileSizeMB)
	assert.Equal(t, 5, *req.Options.MaxFileSizeMB)
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusSkipped, StatusUnsupported, StatusError} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("pending").Valid())
}

func TestItemResultJSONNulls(t *testing.T) {
	data, err := json.Marshal(&ItemResult{OriginPath: "/x", Status: StatusError, Error: StringPtr("File not found")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"file_sha256":"","origin_path":"/x","status":"error","action":null,"error":"File not found","meta":null}`, string(data))
}
