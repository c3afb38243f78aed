package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
)

func newIngestCmd(factory ServiceFactory, out func(*cobra.Command, interface{}) error) *cobra.Command {
	opts := models.DefaultIngestionOptions()
	var maxSizeMB int
	var noOCR, noTraverse bool

	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Validate and extract text from files",
		Long: `Validate and extract text from files and directories.

Directories are walked recursively unless --no-traverse is given. Paths may
also be s3:// or minio:// URIs when the object store is configured.

Examples:
  fileorg ingest ~/Downloads/invoice.pdf
  fileorg ingest ~/Documents --max-size 10
  fileorg ingest s3://scans/2024/ --no-ocr`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.AllowVLMOCR = !noOCR
			opts.TraverseFolders = !noTraverse
			if cmd.Flags().Changed("max-size") {
				opts.MaxFileSizeMB = &maxSizeMB
			}

			return withServices(cmd, factory, func(ctx context.Context, s *Services) error {
				results := s.Ingestor.ProcessMany(ctx, args, opts)
				requestID := converters.NewRequestID(converters.IngestRequestPrefix)
				return out(cmd, converters.BuildIngestResponse(requestID, results))
			})
		},
	}

	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "skip extraction, report files as skipped")
	cmd.Flags().BoolVar(&noTraverse, "no-traverse", false, "do not walk directories")
	cmd.Flags().IntVar(&maxSizeMB, "max-size", 0, "override the maximum file size in MB")
	return cmd
}
