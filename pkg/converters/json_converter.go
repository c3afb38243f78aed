// Package converters assembles the response envelopes returned at the
// boundary and checks the per-item guarantees they promise.
package converters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/feichai0017/file-organizer/internal/models"
)

const (
	OrganizeRequestPrefix = "org_"
	IngestRequestPrefix   = "ing_"

	requestIDHexLen = 12
)

// NewRequestID returns prefix followed by 12 random hex characters.
func NewRequestID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:requestIDHexLen]
}

// ItemFromIngestion converts an ingestion result into a boundary item
// without an action. Planning attaches the action for ok results.
func ItemFromIngestion(res *models.IngestionResult) *models.ItemResult {
	return &models.ItemResult{
		FileHash:   res.FileHash,
		OriginPath: res.OriginPath,
		Status:     res.Status,
		Error:      res.Error,
		Metadata:   res.Metadata,
	}
}

// BuildEnvelope wraps results; a nil slice is rendered as [].
func BuildEnvelope(requestID string, results []*models.ItemResult) *models.Envelope {
	if results == nil {
		results = []*models.ItemResult{}
	}
	return &models.Envelope{
		RequestID: requestID,
		Results:   results,
	}
}

// BuildIngestResponse counts ok results as successful and error results as
// failed. Skipped and unsupported files count toward neither.
func BuildIngestResponse(requestID string, results []*models.IngestionResult) *models.IngestResponse {
	if results == nil {
		results = []*models.IngestionResult{}
	}
	resp := &models.IngestResponse{
		RequestID:  requestID,
		Results:    results,
		TotalFiles: len(results),
	}
	for _, r := range results {
		switch r.Status {
		case models.StatusOK:
			resp.Successful++
		case models.StatusError:
			resp.Failed++
		}
	}
	return resp
}

// CountStatuses tallies items by status, for logging.
func CountStatuses(items []*models.ItemResult) map[models.Status]int {
	counts := make(map[models.Status]int, 4)
	for _, it := range items {
		counts[it.Status]++
	}
	return counts
}

// CheckInvariants reports every way item breaks the envelope contract.
func CheckInvariants(item *models.ItemResult) error {
	var errs []error
	if !item.Status.Valid() {
		errs = append(errs, fmt.Errorf("unknown status %q", item.Status))
	}
	ok := item.Status == models.StatusOK
	if ok != (item.FileHash != "") {
		errs = append(errs, fmt.Errorf("status %s with hash %q", item.Status, item.FileHash))
	}
	if ok != (item.Action != nil) {
		errs = append(errs, fmt.Errorf("status %s with action present=%t", item.Status, item.Action != nil))
	}
	if !ok && item.Error == nil {
		errs = append(errs, fmt.Errorf("status %s without error message", item.Status))
	}
	if a := item.Action; a != nil {
		if a.Confidence != nil && (*a.Confidence < 0 || *a.Confidence > 1) {
			errs = append(errs, fmt.Errorf("confidence %v out of range", *a.Confidence))
		}
		if a.Rename != nil && strings.ContainsAny(*a.Rename, `/\`) {
			errs = append(errs, fmt.Errorf("rename %q contains a path separator", *a.Rename))
		}
	}
	return errors.Join(errs...)
}
