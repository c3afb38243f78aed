package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/file-organizer/pkg/logger"
)

type fakeTextract struct {
	out   *textract.AnalyzeDocumentOutput
	err   error
	input *textract.AnalyzeDocumentInput
}

func (f *fakeTextract) AnalyzeDocument(_ context.Context, in *textract.AnalyzeDocumentInput, _ ...func(*textract.Options)) (*textract.AnalyzeDocumentOutput, error) {
	f.input = in
	return f.out, f.err
}

func line(text string, conf float32) types.Block {
	return types.Block{BlockType: types.BlockTypeLine, Text: aws.String(text), Confidence: aws.Float32(conf)}
}

func TestTextractExtractFiltersLowConfidence(t *testing.T) {
	fake := &fakeTextract{out: &textract.AnalyzeDocumentOutput{
		Blocks: []types.Block{
			line("Invoice 42", 99),
			line("smudge", 40),
			{BlockType: types.BlockTypeWord, Text: aws.String("Invoice"), Confidence: aws.Float32(99)},
			line("Total: 10 EUR", 85),
		},
		DocumentMetadata: &types.DocumentMetadata{Pages: aws.Int32(1)},
	}}
	e := NewTextractExtractorWithClient(fake, TextractConfig{MinConfidence: 80}, logger.NewTestLogger())

	res, err := e.Extract(context.Background(), Document{Extension: ".png", Content: []byte("img")})
	require.NoError(t, err)
	assert.Equal(t, "Invoice 42\nTotal: 10 EUR", res.Text)
	assert.Equal(t, "textract", res.Metadata["method"])
	assert.Equal(t, "aws-textract", res.Metadata["model"])
	assert.Equal(t, 1, res.Metadata["pages"])
	assert.Equal(t, []byte("img"), fake.input.Document.Bytes)
}

func TestTextractExtractError(t *testing.T) {
	fake := &fakeTextract{err: errors.New("throttled")}
	e := NewTextractExtractorWithClient(fake, TextractConfig{}, logger.NewTestLogger())

	_, err := e.Extract(context.Background(), Document{Extension: ".pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestProcessTables(t *testing.T) {
	cell := func(id string, row, col int32, text string) types.Block {
		return types.Block{
			Id:          aws.String(id),
			BlockType:   types.BlockTypeCell,
			RowIndex:    aws.Int32(row),
			ColumnIndex: aws.Int32(col),
			Text:        aws.String(text),
		}
	}
	blocks := []types.Block{
		{
			Id:        aws.String("t1"),
			BlockType: types.BlockTypeTable,
			Relationships: []types.Relationship{
				{Type: types.RelationshipTypeChild, Ids: []string{"c1", "c2", "c3", "c4"}},
			},
		},
		cell("c1", 1, 1, "Item"),
		cell("c2", 1, 2, "Price"),
		cell("c3", 2, 1, "Tea"),
		cell("c4", 2, 2, "3"),
	}

	tables := processTables(blocks)
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Rows)
	assert.Equal(t, 2, tables[0].Cols)
	assert.Equal(t, "| Item | Price |\n| --- | --- |\n| Tea | 3 |", tables[0].Markdown())
}
