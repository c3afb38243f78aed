package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Location
		wantErr bool
	}{
		{"s3 object", "s3://inbox/2024/invoice.pdf", Location{StorageTypeS3, "inbox", "2024/invoice.pdf"}, false},
		{"minio prefix", "minio://scans/receipts/", Location{StorageTypeMinio, "scans", "receipts/"}, false},
		{"bucket only", "s3://inbox", Location{StorageTypeS3, "inbox", ""}, false},
		{"no bucket", "s3:///a.pdf", Location{}, true},
		{"other scheme", "gs://bucket/a.pdf", Location{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURI(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsURI(t *testing.T) {
	assert.True(t, IsURI("s3://b/k"))
	assert.True(t, IsURI("minio://b/k"))
	assert.False(t, IsURI("/home/user/s3://x"))
	assert.False(t, IsURI("C:\\docs\\a.pdf"))
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "minio://scans/a/b.png", Location{StorageTypeMinio, "scans", "a/b.png"}.String())
}
