package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestCalculateSHA256(t *testing.T) {
	data := []byte(strings.Repeat("invoice ", 2048))
	path := writeFile(t, "a.pdf", data)

	want := sha256.Sum256(data)
	got, err := CalculateSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(want[:]), got)

	again, err := CalculateSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, got, again, "hash must be stable across calls")
	assert.Equal(t, got, HashBytes(data))
}

func TestCalculateSHA256Missing(t *testing.T) {
	_, err := CalculateSHA256(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.True(t, os.IsNotExist(err))
}

func TestIsAllowedExtension(t *testing.T) {
	allowed := []string{".pdf", ".DOCX", "png"}

	tests := []struct {
		path string
		want bool
	}{
		{"/tmp/report.pdf", true},
		{"/tmp/REPORT.PDF", true},
		{"/tmp/letter.docx", true},
		{"/tmp/scan.png", true},
		{"/tmp/archive.zip", false},
		{"/tmp/Makefile", false},
		{"/tmp/pdf", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAllowedExtension(tt.path, allowed), tt.path)
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".pdf", NormalizeExt("PDF"))
	assert.Equal(t, ".pdf", NormalizeExt(" .Pdf "))
	assert.Equal(t, "", NormalizeExt(""))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".pdf", Extension("/docs/Report.PDF"))
	assert.Equal(t, ".gz", Extension("archive.tar.gz"))
	assert.Equal(t, ".pdf", Extension("/docs/.hidden.pdf"))
	assert.Equal(t, "", Extension("/docs/.pdf"))
	assert.Equal(t, "", Extension("README"))
	assert.False(t, IsAllowedExtension("/docs/.pdf", []string{".pdf"}))
}

func TestFileSizeMB(t *testing.T) {
	path := writeFile(t, "half.bin", make([]byte, bytesPerMB/2))
	size, err := FileSizeMB(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, size, 1e-9)
	assert.InDelta(t, 60.0, BytesToMB(60*bytesPerMB), 1e-9)
}

func TestGuessMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", GuessMimeType("a.PDF"))
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.presentationml.presentation", GuessMimeType("deck.pptx"))
	assert.Equal(t, "image/jpeg", GuessMimeType("photo.jpeg"))
	assert.Equal(t, DefaultMimeType, GuessMimeType("blob.unknownext"))
	assert.Equal(t, DefaultMimeType, GuessMimeType("noext"))
}
