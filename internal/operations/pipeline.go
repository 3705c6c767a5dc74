package operations

import (
	"log/slog"

	"github.com/meganhong98/demand-forecasting/internal/config"
	"github.com/meganhong98/demand-forecasting/internal/dataprocessing"
	"github.com/meganhong98/demand-forecasting/internal/exporter"
	"github.com/meganhong98/demand-forecasting/internal/files"
	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
)

// PipelineDeps carries the collaborators the feature pipeline is built from.
// Providers and Metrics may be nil.
type PipelineDeps struct {
	Config    *config.Config
	Files     *files.Manager
	Logger    *slog.Logger
	Providers *infrastructure.OTelProviders
	Metrics   *infrastructure.PipelineMetrics
}

// NewPipelineManager resolves the input tables, builds the output writers and
// registers the feature steps enabled by the configuration.
func NewPipelineManager(deps PipelineDeps) (*Manager, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loaderCfg, err := resolveInputs(cfg.Inputs, deps.Files)
	if err != nil {
		return nil, err
	}
	loader := dataprocessing.NewLoader(loaderCfg, logger, deps.Metrics)

	outputDir := deps.Files.Paths().OutputDir
	if err := deps.Files.Validator().ValidateOutputDirectory(outputDir); err != nil {
		return nil, err
	}
	writers, err := exporter.NewWriters(cfg.Output, outputDir, logger)
	if err != nil {
		return nil, err
	}

	var images ImageLocator
	if cfg.Pipeline.ImagePaths {
		images = deps.Files.Images()
	}

	registry, err := BuildRegistry(RegistryOptions{
		Loader:  loader,
		Images:  images,
		Grouped: cfg.Pipeline.Grouped,
		TopN:    cfg.Pipeline.TopN,
		Writers: writers,
		Metrics: deps.Metrics,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	tracer := NewOperationTracer(deps.Providers, deps.Metrics)
	return NewManager(registry, NewConfig(), logger, tracer), nil
}

func resolveInputs(inputs config.InputsConfig, fm *files.Manager) (dataprocessing.LoaderConfig, error) {
	lc := dataprocessing.LoaderConfig{
		Sheet:      inputs.Sheet,
		DateLayout: inputs.DateLayout,
	}
	for _, in := range []struct {
		name string
		dst  *string
	}{
		{inputs.Transactions, &lc.TransactionsPath},
		{inputs.Customers, &lc.CustomersPath},
		{inputs.Articles, &lc.ArticlesPath},
	} {
		path, err := fm.InputTable(in.name)
		if err != nil {
			return lc, err
		}
		*in.dst = path
	}
	return lc, nil
}

// RegistryOptions selects the steps BuildRegistry registers. A nil Images
// leaves out image resolution, Grouped=false leaves out the grouped table and
// TopN=0 leaves out the top-N filter. Export is registered when Writers is
// not empty, joins every selection and runs after the other scheduled steps.
type RegistryOptions struct {
	Loader  DatasetLoader
	Images  ImageLocator
	Grouped bool
	TopN    int
	Writers []exporter.Writer
	Metrics *infrastructure.PipelineMetrics
	Logger  *slog.Logger
}

// BuildRegistry registers the feature steps in pipeline order
func BuildRegistry(opts RegistryOptions) (*Registry, error) {
	steps := []Step{
		NewLoadStep(opts.Loader, opts.Logger),
		NewNormalizeStep(opts.Logger),
		NewAgeBinsStep(),
		NewWeeklyStep(),
		NewArticleGroupsStep(),
	}
	if opts.Images != nil {
		steps = append(steps, NewImagePathsStep(opts.Images))
	}
	steps = append(steps,
		NewElapsedDaysStep(),
		NewPurchaseRateStep(),
	)
	if opts.Grouped {
		steps = append(steps, NewGroupedStep())
		if opts.TopN > 0 {
			steps = append(steps, NewTopGroupsStep(opts.TopN, opts.Logger))
		}
	}
	if len(opts.Writers) > 0 {
		after := make([]string, 0, len(steps)-1)
		for _, s := range steps[1:] {
			after = append(after, s.ID())
		}
		steps = append(steps, NewExportStep(opts.Writers, opts.Metrics, opts.Logger, after))
	}

	registry := NewRegistry()
	for _, s := range steps {
		if err := registry.Register(s); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
