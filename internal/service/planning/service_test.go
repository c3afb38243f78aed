package planning

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

type fakeIngestor struct {
	mu      sync.Mutex
	results map[string]*models.IngestionResult
	opts    []models.IngestionOptions
}

func (f *fakeIngestor) ProcessOne(_ context.Context, path string, opts models.IngestionOptions) *models.IngestionResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opts = append(f.opts, opts)
	if r, ok := f.results[path]; ok {
		return r
	}
	return &models.IngestionResult{
		OriginPath: path,
		Status:     models.StatusError,
		Error:      models.StringPtr("File not found"),
	}
}

func okResult(path, text string) *models.IngestionResult {
	return &models.IngestionResult{
		FileHash:      "hash-" + path,
		OriginPath:    path,
		Status:        models.StatusOK,
		Metadata:      models.Metadata{"extension": ".pdf"},
		ExtractedText: text,
	}
}

func TestPlanOneOK(t *testing.T) {
	ing := &fakeIngestor{results: map[string]*models.IngestionResult{
		"/in/a.pdf": okResult("/in/a.pdf", "Invoice"),
	}}
	s := NewService(ing, logger.NewTestLogger(), 1)

	item := s.PlanOne(context.Background(), "/in/a.pdf", []string{"/out/finance", "/out/misc"}, models.DefaultOrganizeOptions())

	require.Equal(t, models.StatusOK, item.Status)
	require.NotNil(t, item.Action)
	assert.Equal(t, "/out/finance", *item.Action.Move)
	assert.Equal(t, 0.5, *item.Action.Confidence)
	assert.Equal(t, "Automatic organization (LLM not yet implemented)", *item.Action.Reason)
	assert.Nil(t, item.Action.Rename)
	assert.Nil(t, item.Action.DuplicateOf)
	assert.Nil(t, item.Action.Summary)
	assert.Equal(t, "hash-/in/a.pdf", item.FileHash)
	assert.Equal(t, ".pdf", item.Metadata["extension"])
	assert.NoError(t, converters.CheckInvariants(item))
}

func TestPlanOneDerivesIngestionOptions(t *testing.T) {
	ing := &fakeIngestor{}
	s := NewService(ing, logger.NewTestLogger(), 1)

	opts := models.DefaultOrganizeOptions()
	opts.AllowVLMOCR = false
	s.PlanOne(context.Background(), "/in/a.pdf", nil, opts)

	require.Len(t, ing.opts, 1)
	assert.False(t, ing.opts[0].AllowVLMOCR)
	assert.Nil(t, ing.opts[0].MaxFileSizeMB)
	assert.False(t, ing.opts[0].TraverseFolders)
}

func TestPlanOneWithoutDestinations(t *testing.T) {
	ing := &fakeIngestor{results: map[string]*models.IngestionResult{"/a.png": okResult("/a.png", "x")}}
	s := NewService(ing, logger.NewTestLogger(), 1)

	item := s.PlanOne(context.Background(), "/a.png", nil, models.DefaultOrganizeOptions())
	require.NotNil(t, item.Action)
	assert.Nil(t, item.Action.Move)
}

func TestPlanOnePassesThroughFailures(t *testing.T) {
	ing := &fakeIngestor{results: map[string]*models.IngestionResult{
		"/a.xyz": {OriginPath: "/a.xyz", Status: models.StatusUnsupported, Error: models.StringPtr("File type .xyz is not supported")},
		"/b.pdf": {OriginPath: "/b.pdf", Status: models.StatusSkipped, Error: models.StringPtr("LLM OCR is disabled in options")},
	}}
	s := NewService(ing, logger.NewTestLogger(), 1)

	for path, status := range map[string]models.Status{
		"/a.xyz":    models.StatusUnsupported,
		"/b.pdf":    models.StatusSkipped,
		"/gone.pdf": models.StatusError,
	} {
		item := s.PlanOne(context.Background(), path, []string{"/out"}, models.DefaultOrganizeOptions())
		assert.Equal(t, status, item.Status, path)
		assert.Nil(t, item.Action, path)
		assert.Empty(t, item.FileHash, path)
		assert.NotNil(t, item.Error, path)
		assert.NoError(t, converters.CheckInvariants(item), path)
	}
}

func TestPlanOneSummaries(t *testing.T) {
	long := strings.Repeat("é", 250)
	ing := &fakeIngestor{results: map[string]*models.IngestionResult{
		"/short.pdf": okResult("/short.pdf", "Quarterly numbers"),
		"/long.pdf":  okResult("/long.pdf", long),
		"/empty.pdf": okResult("/empty.pdf", ""),
	}}
	s := NewService(ing, logger.NewTestLogger(), 1)
	opts := models.DefaultOrganizeOptions()
	opts.MakeSummaries = true

	item := s.PlanOne(context.Background(), "/short.pdf", nil, opts)
	assert.Equal(t, "Document preview:\nQuarterly numbers", *item.Action.Summary)

	item = s.PlanOne(context.Background(), "/long.pdf", nil, opts)
	assert.Equal(t, "Document preview:\n"+strings.Repeat("é", 200)+"...", *item.Action.Summary)

	item = s.PlanOne(context.Background(), "/empty.pdf", nil, opts)
	assert.Nil(t, item.Action.Summary)

	opts.MakeSummaries = false
	item = s.PlanOne(context.Background(), "/short.pdf", nil, opts)
	assert.Nil(t, item.Action.Summary)
}

func TestPlanManyPreservesOrder(t *testing.T) {
	results := map[string]*models.IngestionResult{}
	var paths []string
	for _, p := range []string{"/1.pdf", "/2.pdf", "/3.pdf", "/4.pdf", "/5.pdf"} {
		results[p] = okResult(p, "t")
		paths = append(paths, p)
	}
	paths = append(paths, "/missing.pdf")

	for _, concurrency := range []int{1, 3} {
		s := NewService(&fakeIngestor{results: results}, logger.NewTestLogger(), concurrency)
		items := s.PlanMany(context.Background(), paths, []string{"/out"}, models.DefaultOrganizeOptions())
		require.Len(t, items, len(paths))
		for i, item := range items {
			assert.Equal(t, paths[i], item.OriginPath)
		}
		assert.Equal(t, models.StatusError, items[5].Status)
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", Preview("abc"))
	exact := strings.Repeat("x", 200)
	assert.Equal(t, exact, Preview(exact))
	assert.Equal(t, exact+"...", Preview(exact+"y"))
}
