package models

import "encoding/json"

// FilePath identifies an input file or directory. Existence is checked later.
type FilePath struct {
	Path string `json:"path" binding:"required"`
}

// Destination is an allowed target directory for moves.
type Destination struct {
	Path string `json:"path" binding:"required"`
}

// IngestionOptions control validation and extraction for one request.
type IngestionOptions struct {
	AllowVLMOCR     bool `json:"allow_vlm_ocr"`
	MaxFileSizeMB   *int `json:"max_file_size_mb"`
	TraverseFolders bool `json:"traverse_folders"`
}

func DefaultIngestionOptions() IngestionOptions {
	return IngestionOptions{
		AllowVLMOCR:     true,
		TraverseFolders: true,
	}
}

func (o *IngestionOptions) UnmarshalJSON(data []byte) error {
	type plain IngestionOptions
	p := plain(DefaultIngestionOptions())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = IngestionOptions(p)
	return nil
}

// OrganizeOptions control planning for one request.
type OrganizeOptions struct {
	MakeSummaries    bool `json:"make_summaries"`
	AllowRenames     bool `json:"allow_renames"`
	AllowDuplicates  bool `json:"allow_duplicates"`
	MaxTokensPerFile int  `json:"max_tokens_per_file"`
	AllowVLMOCR      bool `json:"allow_vlm_ocr"`
}

func DefaultOrganizeOptions() OrganizeOptions {
	return OrganizeOptions{
		AllowRenames:     true,
		AllowDuplicates:  true,
		MaxTokensPerFile: 8000,
		AllowVLMOCR:      true,
	}
}

func (o *OrganizeOptions) UnmarshalJSON(data []byte) error {
	type plain OrganizeOptions
	p := plain(DefaultOrganizeOptions())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = OrganizeOptions(p)
	return nil
}

// IngestionOptions derives the ingestion settings planning runs with:
// no size override and no traversal, since planning gets an expanded list.
func (o OrganizeOptions) IngestionOptions() IngestionOptions {
	return IngestionOptions{
		AllowVLMOCR:     o.AllowVLMOCR,
		MaxFileSizeMB:   nil,
		TraverseFolders: false,
	}
}

type OrganizeRequest struct {
	Files        []FilePath      `json:"files" binding:"required,dive"`
	Destinations []Destination   `json:"destinations" binding:"omitempty,dive"`
	Options      OrganizeOptions `json:"options"`
}

func (r *OrganizeRequest) UnmarshalJSON(data []byte) error {
	type plain OrganizeRequest
	p := plain{Options: DefaultOrganizeOptions()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = OrganizeRequest(p)
	return nil
}

// Paths returns the file paths in request order.
func (r OrganizeRequest) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

// DestinationPaths returns the destination paths, or an empty slice.
func (r OrganizeRequest) DestinationPaths() []string {
	out := make([]string, 0, len(r.Destinations))
	for _, d := range r.Destinations {
		out = append(out, d.Path)
	}
	return out
}

type IngestRequest struct {
	Files   []FilePath       `json:"files" binding:"required,min=1,dive"`
	Options IngestionOptions `json:"options"`
}

func (r *IngestRequest) UnmarshalJSON(data []byte) error {
	type plain IngestRequest
	p := plain{Options: DefaultIngestionOptions()}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = IngestRequest(p)
	return nil
}

func (r IngestRequest) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

// Envelope is the standard response wrapper.
type Envelope struct {
	RequestID string        `json:"request_id"`
	Results   []*ItemResult `json:"results"`
}

// IngestResponse reports extraction results with aggregate counts.
type IngestResponse struct {
	RequestID  string             `json:"request_id"`
	Results    []*IngestionResult `json:"results"`
	TotalFiles int                `json:"total_files"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
}
