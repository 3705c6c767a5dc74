package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meganhong98/demand-forecasting/internal/config"
	"github.com/meganhong98/demand-forecasting/internal/files"
	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
	"github.com/meganhong98/demand-forecasting/internal/operations"
	"github.com/meganhong98/demand-forecasting/pkg/contracts"
)

type runOptions struct {
	referenceDate string
	steps         []string
	topN          int
	formats       []string
	compress      bool
	grouped       bool
	imagePaths    bool
	asJSON        bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the feature pipeline once",
		Long: `Run loads the raw tables, runs every enabled feature step in dependency
order and writes the processed tables to the output directory.

Examples:
  # Full run anchored on a fixed date
  featurize run --reference-date 2020-09-24

  # Only the customer features, written as CSV and SQLite
  featurize run --steps age_bins --formats csv,sqlite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runPipeline(ctx, cmd.OutOrStdout(), cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.referenceDate, "reference-date", "", "date the elapsed-day features are measured from, YYYY-MM-DD (default today)")
	flags.StringSliceVar(&opts.steps, "steps", nil, "run only these steps and their dependencies")
	flags.IntVar(&opts.topN, "top-n", config.DefaultTopN, "keep the N best-selling product groups in the grouped table, 0 keeps all")
	flags.StringSliceVar(&opts.formats, "formats", nil, "output formats: csv, xlsx, sqlite, arrow")
	flags.BoolVar(&opts.compress, "compress", false, "snappy-compress CSV outputs")
	flags.BoolVar(&opts.grouped, "grouped", true, "build the grouped per-date, per-product-group table")
	flags.BoolVar(&opts.imagePaths, "image-paths", false, "resolve article image paths")
	flags.BoolVar(&opts.asJSON, "json", false, "print the run report as JSON")
	return cmd
}

// apply overrides the configuration with the flags set on the command line
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("reference-date") {
		cfg.Pipeline.ReferenceDate = o.referenceDate
	}
	if flags.Changed("top-n") {
		cfg.Pipeline.TopN = o.topN
	}
	if flags.Changed("formats") {
		cfg.Output.Formats = o.formats
	}
	if flags.Changed("compress") {
		cfg.Output.Compress = o.compress
	}
	if flags.Changed("grouped") {
		cfg.Pipeline.Grouped = o.grouped
	}
	if flags.Changed("image-paths") {
		cfg.Pipeline.ImagePaths = o.imagePaths
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func runPipeline(ctx context.Context, out io.Writer, cfg *config.Config, opts *runOptions) error {
	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, paths.LogPath(cfg.Logging.FilePath))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry, contracts.Version), logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return err
	}

	ref, err := cfg.ReferenceTime(time.Now())
	if err != nil {
		return err
	}

	manager, err := operations.NewPipelineManager(operations.PipelineDeps{
		Config:    cfg,
		Files:     files.NewManager(paths, logger),
		Logger:    logger,
		Providers: providers,
		Metrics:   metrics,
	})
	if err != nil {
		return err
	}

	logger.Info("Pipeline starting",
		slog.String("version", contracts.Version),
		slog.String("data_dir", paths.DataDir),
		slog.String("reference_date", ref.Format(config.DateLayout)),
		slog.Any("formats", cfg.Output.Formats))

	resp, runErr := manager.Execute(ctx, operations.OperationRequest{
		ReferenceDate: ref,
		Steps:         opts.steps,
	})

	if err := printReport(out, resp, opts.asJSON); err != nil {
		return err
	}

	if cfg.Telemetry.MetricsTextfile != "" {
		path := paths.LogPath(cfg.Telemetry.MetricsTextfile)
		if err := providers.WriteMetricsTextfile(path); err != nil {
			logger.Warn("Failed to write metrics textfile", slog.String("error", err.Error()))
		} else {
			logger.Info("Metrics textfile written", slog.String("full_path", path))
		}
	}
	return runErr
}

func printReport(out io.Writer, resp *operations.OperationResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	fmt.Fprintf(out, "Run %s: %s in %s\n\n", resp.ID, resp.Status, resp.Duration.Round(time.Millisecond))

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tSTATUS\tROWS\tDURATION\tDETAIL")
	for _, s := range resp.Steps {
		rows := "-"
		if s.Rows >= 0 {
			rows = fmt.Sprint(s.Rows)
		}
		detail := s.Message
		if s.Error != "" {
			detail = s.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Status, rows, s.Duration.Round(time.Millisecond), detail)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(resp.Rows) > 0 {
		tables := make([]string, 0, len(resp.Rows))
		for table := range resp.Rows {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		fmt.Fprintln(out, "\nTables:")
		for _, table := range tables {
			fmt.Fprintf(out, "  %-14s %d rows\n", table, resp.Rows[table])
		}
	}
	if len(resp.Outputs) > 0 {
		fmt.Fprintln(out, "\nOutputs:")
		for _, path := range resp.Outputs {
			fmt.Fprintf(out, "  %s\n", path)
		}
	}
	return nil
}
