package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/feichai0017/file-organizer/internal/models"
	"github.com/feichai0017/file-organizer/pkg/converters"
)

func newOrganizeCmd(factory ServiceFactory, out func(*cobra.Command, interface{}) error) *cobra.Command {
	opts := models.DefaultOrganizeOptions()
	var destinations []string
	var noOCR bool

	cmd := &cobra.Command{
		Use:   "organize <file>...",
		Short: "Propose an organization plan for files",
		Long: `Propose move, rename and summary actions for each file.

Nothing is changed on disk; the plan is printed for another tool to apply.

Examples:
  fileorg organize scan.pdf notes.docx --dest ~/Documents/Work
  fileorg organize report.pdf --dest ~/Archive --summaries`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.AllowVLMOCR = !noOCR

			return withServices(cmd, factory, func(ctx context.Context, s *Services) error {
				if destinations == nil {
					destinations = []string{}
				}
				results := s.Planner.PlanMany(ctx, args, destinations, opts)
				requestID := converters.NewRequestID(converters.OrganizeRequestPrefix)
				return out(cmd, converters.BuildEnvelope(requestID, results))
			})
		},
	}

	cmd.Flags().StringSliceVarP(&destinations, "dest", "d", nil, "allowed destination directories, first one is used")
	cmd.Flags().BoolVar(&opts.MakeSummaries, "summaries", false, "attach a text preview as summary")
	cmd.Flags().BoolVar(&opts.AllowRenames, "renames", true, "allow rename proposals")
	cmd.Flags().BoolVar(&opts.AllowDuplicates, "duplicates", true, "allow duplicate detection")
	cmd.Flags().IntVar(&opts.MaxTokensPerFile, "max-tokens", 8000, "token budget per file")
	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "skip extraction, report files as skipped")
	return cmd
}
