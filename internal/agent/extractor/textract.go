package extractor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/feichai0017/file-organizer/internal/metrics"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

const methodTextract = "textract"

// TextractAPI is the subset of the Textract client used here.
type TextractAPI interface {
	AnalyzeDocument(ctx context.Context, in *textract.AnalyzeDocumentInput, optFns ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error)
}

type TextractConfig struct {
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	MinConfidence float32
	EnableTables  bool
}

// TextractExtractor runs documents through AWS Textract instead of a local model.
type TextractExtractor struct {
	client TextractAPI
	cfg    TextractConfig
	logger logger.Logger
}

func NewTextractExtractor(ctx context.Context, cfg TextractConfig, log logger.Logger) (*TextractExtractor, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := textract.NewFromConfig(awsCfg, func(o *textract.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewTextractExtractorWithClient(client, cfg, log), nil
}

func NewTextractExtractorWithClient(client TextractAPI, cfg TextractConfig, log logger.Logger) *TextractExtractor {
	return &TextractExtractor{
		client: client,
		cfg:    cfg,
		logger: log.Named("textract"),
	}
}

func (e *TextractExtractor) Name() string {
	return "textract"
}

func (e *TextractExtractor) Extract(ctx context.Context, doc Document) (*Extraction, error) {
	input := &textract.AnalyzeDocumentInput{
		Document: &types.Document{Bytes: doc.Content},
		FeatureTypes: []types.FeatureType{
			types.FeatureTypeLayout,
		},
	}
	if e.cfg.EnableTables {
		input.FeatureTypes = append(input.FeatureTypes, types.FeatureTypeTables)
	}

	start := time.Now()
	out, err := e.client.AnalyzeDocument(ctx, input)
	elapsed := time.Since(start)
	metrics.ObserveExtraction(e.Name(), elapsed, err)
	if err != nil {
		e.logger.Error("Textract analysis failed",
			logger.String("path", doc.Path),
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	lines := e.processBlocks(out.Blocks)
	if e.cfg.EnableTables {
		for _, table := range processTables(out.Blocks) {
			lines = append(lines, "", table.Markdown())
		}
	}
	text := strings.TrimSpace(strings.Join(lines, "\n"))

	metadata := map[string]interface{}{
		"model":          "aws-textract",
		"method":         methodTextract,
		"file_type":      doc.Extension,
		"total_chars":    len([]rune(text)),
		"total_duration": elapsed.Nanoseconds(),
	}
	if out.DocumentMetadata != nil && out.DocumentMetadata.Pages != nil {
		metadata["pages"] = int(*out.DocumentMetadata.Pages)
	}
	return &Extraction{Text: text, Metadata: metadata}, nil
}

// processBlocks keeps LINE blocks at or above the configured confidence.
func (e *TextractExtractor) processBlocks(blocks []types.Block) []string {
	var texts []string
	for _, block := range blocks {
		if block.BlockType != types.BlockTypeLine || block.Text == nil {
			continue
		}
		if block.Confidence != nil && *block.Confidence >= e.cfg.MinConfidence {
			texts = append(texts, *block.Text)
		}
	}
	return texts
}

type Table struct {
	Rows  int
	Cols  int
	Cells [][]string
}

// Markdown renders the table as a pipe table, first row as header.
func (t Table) Markdown() string {
	if t.Rows == 0 || t.Cols == 0 {
		return ""
	}
	var b strings.Builder
	for i, row := range t.Cells {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
		if i == 0 {
			b.WriteString("|" + strings.Repeat(" --- |", t.Cols) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// processTables groups CELL blocks under the TABLE block that precedes them.
func processTables(blocks []types.Block) []Table {
	byID := make(map[string]types.Block, len(blocks))
	for _, b := range blocks {
		if b.Id != nil {
			byID[*b.Id] = b
		}
	}

	var tables []Table
	for _, block := range blocks {
		if block.BlockType != types.BlockTypeTable {
			continue
		}
		var cells []types.Block
		var rows, cols int32
		for _, rel := range block.Relationships {
			if rel.Type != types.RelationshipTypeChild {
				continue
			}
			for _, id := range rel.Ids {
				cell, ok := byID[id]
				if !ok || cell.BlockType != types.BlockTypeCell || cell.RowIndex == nil || cell.ColumnIndex == nil {
					continue
				}
				cells = append(cells, cell)
				rows = max(rows, *cell.RowIndex)
				cols = max(cols, *cell.ColumnIndex)
			}
		}

		table := Table{Rows: int(rows), Cols: int(cols), Cells: make([][]string, rows)}
		for i := range table.Cells {
			table.Cells[i] = make([]string, cols)
		}
		for _, cell := range cells {
			table.Cells[*cell.RowIndex-1][*cell.ColumnIndex-1] = cellText(cell, byID)
		}
		tables = append(tables, table)
	}
	return tables
}

func cellText(cell types.Block, byID map[string]types.Block) string {
	if cell.Text != nil {
		return *cell.Text
	}
	var words []string
	for _, rel := range cell.Relationships {
		if rel.Type != types.RelationshipTypeChild {
			continue
		}
		for _, id := range rel.Ids {
			if w, ok := byID[id]; ok && w.Text != nil {
				words = append(words, *w.Text)
			}
		}
	}
	return strings.Join(words, " ")
}
