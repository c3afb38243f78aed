package sheet

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/feichai0017/file-organizer/pkg/logger"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Processor struct {
	logger logger.Logger
}

func NewProcessor(logger logger.Logger) *Processor {
	return &Processor{logger: logger}
}

func (p *Processor) CanProbe(mimeType string) bool {
	return mimeType == xlsxMimeType
}

// Probe lists the workbook's sheets.
func (p *Processor) Probe(ctx context.Context, content []byte) (map[string]interface{}, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			p.logger.Warn("Failed to close workbook", logger.Error(err))
		}
	}()

	names := f.GetSheetList()
	return map[string]interface{}{
		"sheets":      len(names),
		"sheet_names": names,
	}, nil
}
