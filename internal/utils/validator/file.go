// Package validator holds the pure file helpers used by ingestion:
// hashing, the extension allow-list, sizes and MIME guessing.
package validator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

const bytesPerMB = 1024 * 1024

// mimeTypes covers the formats the worker is expected to see. mime.TypeByExtension
// depends on the host's mime database, which is often missing Office types.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
}

// DefaultMimeType is reported when the extension is unknown.
const DefaultMimeType = "application/octet-stream"

// CalculateSHA256 streams the file through SHA-256 and returns the hex digest.
func CalculateSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return HashReader(f)
}

// HashReader returns the hex SHA-256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NormalizeExt lowercases ext and makes sure it starts with a dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Extension returns the normalized extension of path ("" when it has none).
// A dotfile such as ".pdf" has no extension.
func Extension(path string) string {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && !strings.Contains(base[1:], ".") {
		return ""
	}
	return NormalizeExt(filepath.Ext(base))
}

// IsAllowedExtension reports whether path's extension is in allowed,
// comparing case-insensitively.
func IsAllowedExtension(path string, allowed []string) bool {
	ext := Extension(path)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if NormalizeExt(a) == ext {
			return true
		}
	}
	return false
}

// BytesToMB converts a byte count to megabytes (MiB).
func BytesToMB(size int64) float64 {
	return float64(size) / bytesPerMB
}

// FileSizeMB returns the size of path in megabytes.
func FileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return BytesToMB(info.Size()), nil
}

// GuessMimeType maps the extension of path to a MIME type.
func GuessMimeType(path string) string {
	return MimeTypeForExt(Extension(path))
}

// MimeTypeForExt maps a file extension to a MIME type.
func MimeTypeForExt(ext string) string {
	ext = NormalizeExt(ext)
	if m, ok := mimeTypes[ext]; ok {
		return m
	}
	if m := mime.TypeByExtension(ext); m != "" {
		// drop parameters such as "; charset=utf-8"
		if i := strings.Index(m, ";"); i >= 0 {
			m = strings.TrimSpace(m[:i])
		}
		return m
	}
	return DefaultMimeType
}
