// Package cli provides the fileorg command-line interface. It runs the same
// pipelines as the HTTP server in-process and prints the JSON envelope.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/feichai0017/file-organizer/config"
	"github.com/feichai0017/file-organizer/internal/app"
	"github.com/feichai0017/file-organizer/internal/models"
)

// Version is set at build time.
var Version = "0.1.0"

type Ingestor interface {
	ProcessMany(ctx context.Context, paths []string, opts models.IngestionOptions) []*models.IngestionResult
}

type Planner interface {
	PlanMany(ctx context.Context, paths, destinations []string, opts models.OrganizeOptions) []*models.ItemResult
}

// Services is what the commands run against.
type Services struct {
	Ingestor Ingestor
	Planner  Planner
	Close    func() error
}

// ServiceFactory builds the services once flags are parsed.
type ServiceFactory func(ctx context.Context) (*Services, error)

// NewRootCmd builds the command tree. A nil factory wires the real services
// from config.Load.
func NewRootCmd(factory ServiceFactory) *cobra.Command {
	if factory == nil {
		factory = defaultServices
	}

	var pretty bool
	root := &cobra.Command{
		Use:   "fileorg",
		Short: "Extract documents and plan how to organize them",
		Long: `fileorg runs the file-organizer pipelines locally.

It never moves, renames or deletes anything: 'ingest' prints the extraction
result of every file and 'organize' prints the proposed action plan.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&pretty, "pretty", true, "indent JSON output")

	out := func(cmd *cobra.Command, v interface{}) error {
		return writeJSON(cmd.OutOrStdout(), v, pretty)
	}
	root.AddCommand(newIngestCmd(factory, out))
	root.AddCommand(newOrganizeCmd(factory, out))
	return root
}

// Execute runs the root command with the real services.
func Execute(ctx context.Context) error {
	return NewRootCmd(nil).ExecuteContext(ctx)
}

func defaultServices(ctx context.Context) (*Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	// stdout carries the envelope
	if slices.Contains(cfg.Log.OutputPaths, "stdout") {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	log, err := app.NewLogger(cfg.Log, "cli")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init services: %w", err)
	}
	return &Services{
		Ingestor: a.Ingestion,
		Planner:  a.Planning,
		Close: func() error {
			_ = log.Sync()
			return a.Close()
		},
	}, nil
}

func withServices(cmd *cobra.Command, factory ServiceFactory, fn func(ctx context.Context, s *Services) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := factory(ctx)
	if err != nil {
		return err
	}
	if s.Close != nil {
		defer s.Close()
	}
	return fn(ctx, s)
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
