package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "127.0.0.1:7071", cfg.Server.Addr())
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, 50, cfg.Files.MaxFileSizeMB)
	assert.Contains(t, cfg.Files.AllowedExtensions, ".pdf")
	assert.Equal(t, 1, cfg.Extraction.Concurrency)
	assert.False(t, cfg.Redis.Enabled())
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{
		"PORT":               "9000",
		"MODEL_NAME":         "llava:7b",
		"HTTP_TIMEOUT":       "30",
		"MAX_FILE_SIZE_MB":   "10",
		"ALLOWED_EXTENSIONS": `[".pdf", ".PNG"]`,
		"LOG_LEVEL":          "DEBUG",
		"LOG_FORMAT":         "text",
		"REDIS_ADDR":         "localhost:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "llava:7b", cfg.Ollama.Model)
	assert.Equal(t, 30*time.Second, cfg.Ollama.Timeout)
	assert.Equal(t, 10, cfg.Files.MaxFileSizeMB)
	assert.Equal(t, []string{".pdf", ".PNG"}, cfg.Files.AllowedExtensions)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding())
	assert.True(t, cfg.Redis.Enabled())
}

func TestApplyEnvRejectsBadInteger(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(mapLookup(map[string]string{"PORT": "eighty"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Extraction.Backend = "tesseract"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Files.MaxFileSizeMB = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Extraction.Concurrency = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.Extraction.Concurrency)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fileorg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ollama:
  model: minicpm-v
  timeout: 45s
files:
  max_file_size_mb: 5
`), 0o644))

	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_FILE_SIZE_MB", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "minicpm-v", cfg.Ollama.Model)
	assert.Equal(t, 45*time.Second, cfg.Ollama.Timeout)
	// environment wins over the file
	assert.Equal(t, 7, cfg.Files.MaxFileSizeMB)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{".pdf", ".md"}, splitList(".pdf, .md"))
	assert.Equal(t, []string{".pdf"}, splitList(`[".pdf"]`))
	assert.Empty(t, splitList(" "))
}
