package models

// Status is the per-file outcome. No other value is ever produced.
type Status string

const (
	StatusOK          Status = "ok"
	StatusSkipped     Status = "skipped"
	StatusUnsupported Status = "unsupported"
	StatusError       Status = "error"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusSkipped, StatusUnsupported, StatusError:
		return true
	}
	return false
}

// Metadata carries mime type, size, hash, extension and extractor/probe fields.
type Metadata map[string]interface{}

// Merge copies every key of other into m, overwriting existing keys.
func (m Metadata) Merge(other map[string]interface{}) Metadata {
	for k, v := range other {
		m[k] = v
	}
	return m
}

// IngestionResult is produced once per file by the ingestion service and
// never mutated after it is returned.
type IngestionResult struct {
	FileHash      string   `json:"file_sha256"`
	OriginPath    string   `json:"origin_path"`
	Status        Status   `json:"status"`
	Error         *string  `json:"error"`
	Metadata      Metadata `json:"meta"`
	ExtractedText string   `json:"extracted_text,omitempty"`
}

// PlanAction is the proposed operation for one file. The frontend executes it.
type PlanAction struct {
	Move        *string  `json:"move"`         // destination path from the allowed list
	Rename      *string  `json:"rename"`       // sanitized filename, no directory
	DuplicateOf *string  `json:"duplicate_of"` // sha256 of the original
	Summary     *string  `json:"summary"`
	Confidence  *float64 `json:"confidence"` // 0..1
	Reason      *string  `json:"reason"`
}

// ItemResult is the per-file outcome exposed at the boundary.
type ItemResult struct {
	FileHash   string      `json:"file_sha256"`
	OriginPath string      `json:"origin_path"`
	Status     Status      `json:"status"`
	Action     *PlanAction `json:"action"`
	Error      *string     `json:"error"`
	Metadata   Metadata    `json:"meta"`
}

// StringPtr is a small helper for the optional string fields above.
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr is the float64 counterpart of StringPtr.
func Float64Ptr(f float64) *float64 {
	return &f
}
