package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// LoaderConfig locates the three raw tables
type LoaderConfig struct {
	TransactionsPath string
	CustomersPath    string
	ArticlesPath     string

	// Sheet selects the worksheet of XLSX inputs, empty for the first one
	Sheet      string
	DateLayout string
}

// Loader reads and validates the raw tables of one run
type Loader struct {
	cfg       LoaderConfig
	logger    *slog.Logger
	metrics   *infrastructure.PipelineMetrics
	validator *Validator
}

// NewLoader creates a loader. logger and metrics may be nil.
func NewLoader(cfg LoaderConfig, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = "2006-01-02"
	}
	return &Loader{
		cfg:       cfg,
		logger:    logger.With("component", "loader"),
		metrics:   metrics,
		validator: NewValidator(),
	}
}

// Load reads the three tables concurrently and validates them. The first
// failure cancels the other reads and is returned as is.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	var ds domain.Dataset

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		table, err := l.read(ctx, domain.TableTransactions, l.cfg.TransactionsPath)
		if err != nil {
			return err
		}
		txs, err := ParseTransactions(table, l.cfg.DateLayout)
		if err != nil {
			return err
		}
		if err := l.validator.Transactions(txs, table.Line); err != nil {
			return err
		}
		ds.Transactions = txs
		return nil
	})

	g.Go(func() error {
		table, err := l.read(ctx, domain.TableCustomers, l.cfg.CustomersPath)
		if err != nil {
			return err
		}
		customers, err := ParseCustomers(table)
		if err != nil {
			return err
		}
		if err := l.validator.Customers(customers, table.Line); err != nil {
			return err
		}
		ds.Customers = customers
		return nil
	})

	g.Go(func() error {
		table, err := l.read(ctx, domain.TableArticles, l.cfg.ArticlesPath)
		if err != nil {
			return err
		}
		articles, err := ParseArticles(table)
		if err != nil {
			return err
		}
		if err := l.validator.Articles(articles, table.Line); err != nil {
			return err
		}
		ds.Articles = articles
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (l *Loader) read(ctx context.Context, name, path string) (*RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	table, err := ReadTable(path, l.cfg.Sheet)
	if err != nil {
		l.logger.ErrorContext(ctx, "Failed to read table",
			slog.String("table", name),
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.InfoContext(ctx, "Table read",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Duration("duration", time.Since(start)))
	l.metrics.RecordRows(ctx, name, "read", len(table.Rows))

	return table, nil
}
