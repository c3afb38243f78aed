package ingestion

import (
	"errors"
	"fmt"
)

// Each pipeline stage that can short-circuit has a sentinel. The message
// reported to the caller is carried separately by stageError.
var (
	ErrNotFound    = errors.New("file not found")
	ErrTooLarge    = errors.New("file too large")
	ErrUnsupported = errors.New("unsupported file type")
	ErrDisabled    = errors.New("extraction disabled")
)

type stageError struct {
	kind error
	msg  string
}

func (e *stageError) Error() string { return e.msg }
func (e *stageError) Unwrap() error { return e.kind }

func stageErrorf(kind error, format string, args ...interface{}) error {
	return &stageError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
