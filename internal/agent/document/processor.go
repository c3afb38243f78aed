// Package document defines the metadata probes that enrich an ingestion
// result with format-specific fields.
package document

import "context"

// Prober reads a document's bytes and reports format-specific metadata such
// as page counts or image dimensions. Probes never extract text.
type Prober interface {
	// CanProbe reports whether the probe understands the MIME type.
	CanProbe(mimeType string) bool

	// Probe returns fields to merge into the result metadata.
	Probe(ctx context.Context, content []byte) (map[string]interface{}, error)
}
