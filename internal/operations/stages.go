package operations

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
	"github.com/meganhong98/demand-forecasting/internal/exporter"
	"github.com/meganhong98/demand-forecasting/internal/features"
	"github.com/meganhong98/demand-forecasting/internal/infrastructure"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// DatasetLoader produces the raw tables of a run
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// ImageLocator fills Article.ImagePath for articles with an image on disk
type ImageLocator interface {
	AddImagePaths(articles []domain.Article) int
}

func stepLogger(logger *slog.Logger, stepID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", stepID))
}

// LoadStep reads the three raw tables into the operation state
type LoadStep struct {
	BaseStage
	loader DatasetLoader
	logger *slog.Logger
}

// NewLoadStep creates the load step
func NewLoadStep(loader DatasetLoader, logger *slog.Logger) *LoadStep {
	return &LoadStep{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad, nil),
		loader:    loader,
		logger:    stepLogger(logger, StepIDLoad),
	}
}

// Validate only requires a loader; the dataset does not exist yet
func (s *LoadStep) Validate(state *OperationState) error {
	if s.loader == nil {
		return fmt.Errorf("no loader configured")
	}
	return nil
}

// Execute loads the dataset
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		return NewExecutionError(s.ID(), err, false)
	}
	state.SetDataset(ds)

	counts := ds.RowCounts()
	s.logger.InfoContext(ctx, "Raw tables loaded",
		slog.Int("transactions", counts[domain.TableTransactions]),
		slog.Int("customers", counts[domain.TableCustomers]),
		slog.Int("articles", counts[domain.TableArticles]))
	state.GetStage(s.ID()).SetRows(len(ds.Transactions) + len(ds.Customers) + len(ds.Articles))
	return nil
}

// NormalizeStep fills missing customer values
type NormalizeStep struct {
	BaseStage
	logger *slog.Logger
}

// NewNormalizeStep creates the missing-value normalization step
func NewNormalizeStep(logger *slog.Logger) *NormalizeStep {
	return &NormalizeStep{
		BaseStage: NewBaseStage(StepIDNormalize, StepNameNormalize, []string{StepIDLoad}),
		logger:    stepLogger(logger, StepIDNormalize),
	}
}

// Execute replaces the customer table with its normalized copy
func (s *NormalizeStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()

	if median, ok := features.MedianAge(ds.Customers); ok {
		state.SetContext(ContextKeyMedianAge, median)
		s.logger.DebugContext(ctx, "Median age computed", slog.Float64("median_age", median))
	} else {
		s.logger.WarnContext(ctx, "No customer has a known age")
	}

	ds.Customers = features.HandleMissingValues(ds.Customers)
	state.GetStage(s.ID()).SetRows(len(ds.Customers))
	return nil
}

// AgeBinsStep adds adjusted_age and age_bin to customers
type AgeBinsStep struct {
	BaseStage
}

// NewAgeBinsStep creates the age binning step
func NewAgeBinsStep() *AgeBinsStep {
	return &AgeBinsStep{
		BaseStage: NewBaseStage(StepIDAgeBins, StepNameAgeBins, []string{StepIDNormalize}),
	}
}

// Execute bins every customer. A customer without an age fails the step.
func (s *AgeBinsStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	binned, err := features.CreateAgeBins(ds.Customers)
	if err != nil {
		return NewExecutionError(s.ID(), err, false)
	}
	ds.Customers = binned
	ds.MarkDerived(domain.FeatureAgeBins)
	state.GetStage(s.ID()).SetRows(len(binned))
	return nil
}

// WeeklyStep adds weekly_transactions to transactions
type WeeklyStep struct {
	BaseStage
}

// NewWeeklyStep creates the weekly aggregation step
func NewWeeklyStep() *WeeklyStep {
	return &WeeklyStep{
		BaseStage: NewBaseStage(StepIDWeekly, StepNameWeekly, []string{StepIDLoad}),
	}
}

// Execute counts transactions per calendar week
func (s *WeeklyStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	ds.Transactions = features.WeeklyAggregation(ds.Transactions)
	ds.MarkDerived(domain.FeatureWeekly)
	state.GetStage(s.ID()).SetRows(len(ds.Transactions))
	return nil
}

// ArticleGroupsStep adds article_count to articles
type ArticleGroupsStep struct {
	BaseStage
}

// NewArticleGroupsStep creates the article grouping step
func NewArticleGroupsStep() *ArticleGroupsStep {
	return &ArticleGroupsStep{
		BaseStage: NewBaseStage(StepIDArticleGroups, StepNameArticleGroups, []string{StepIDLoad}),
	}
}

// Execute counts articles sharing type, colour and appearance
func (s *ArticleGroupsStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	ds.Articles = features.GroupArticles(ds.Articles)
	ds.MarkDerived(domain.FeatureArticleCounts)
	state.GetStage(s.ID()).SetRows(len(ds.Articles))
	return nil
}

// ImagePathsStep resolves product images for articles
type ImagePathsStep struct {
	BaseStage
	images ImageLocator
}

// NewImagePathsStep creates the image path step
func NewImagePathsStep(images ImageLocator) *ImagePathsStep {
	return &ImagePathsStep{
		BaseStage: NewBaseStage(StepIDImagePaths, StepNameImagePaths, []string{StepIDLoad}),
		images:    images,
	}
}

// Validate requires an image locator on top of a loaded dataset
func (s *ImagePathsStep) Validate(state *OperationState) error {
	if s.images == nil {
		return fmt.Errorf("no image resolver configured")
	}
	return s.BaseStage.Validate(state)
}

// Execute sets image_path on articles whose image exists. The article table
// is copied first so earlier results are not mutated.
func (s *ImagePathsStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	articles := make([]domain.Article, len(ds.Articles))
	copy(articles, ds.Articles)

	found := s.images.AddImagePaths(articles)
	ds.Articles = articles

	state.SetContext(ContextKeyImagesFound, found)
	stepState := state.GetStage(s.ID())
	stepState.SetRows(found)
	stepState.SetMetadata(ContextKeyImagesFound, found)
	return nil
}

// ElapsedDaysStep adds the recency features to transactions
type ElapsedDaysStep struct {
	BaseStage
}

// NewElapsedDaysStep creates the elapsed-time step
func NewElapsedDaysStep() *ElapsedDaysStep {
	return &ElapsedDaysStep{
		BaseStage: NewBaseStage(StepIDElapsedDays, StepNameElapsedDays, []string{StepIDLoad}),
	}
}

// Validate requires a reference date on top of a loaded dataset
func (s *ElapsedDaysStep) Validate(state *OperationState) error {
	if state.ReferenceDate.IsZero() {
		return fmt.Errorf("no reference date set")
	}
	return s.BaseStage.Validate(state)
}

// Execute measures days since each customer's last purchase and each
// article's first sale, relative to the run's reference date.
func (s *ElapsedDaysStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	ds.Transactions = features.CalculateElapsedDays(ds.Transactions, state.ReferenceDate)
	ds.MarkDerived(domain.FeatureElapsedDays)
	stepState := state.GetStage(s.ID())
	stepState.SetRows(len(ds.Transactions))
	stepState.SetMetadata("reference_date", state.ReferenceDate.Format("2006-01-02"))
	return nil
}

// PurchaseRateStep adds purchase_rate to transactions
type PurchaseRateStep struct {
	BaseStage
}

// NewPurchaseRateStep creates the purchase-rate step
func NewPurchaseRateStep() *PurchaseRateStep {
	return &PurchaseRateStep{
		BaseStage: NewBaseStage(StepIDPurchaseRate, StepNamePurchaseRate, []string{StepIDAgeBins}),
	}
}

// Execute estimates each article's purchase rate across age bins
func (s *PurchaseRateStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	ds.Transactions = features.PurchaseRatePerArticle(ds.Transactions, ds.Customers)
	ds.MarkDerived(domain.FeaturePurchaseRate)
	state.GetStage(s.ID()).SetRows(len(ds.Transactions))
	return nil
}

// GroupedStep builds the per-date, per-product-group table
type GroupedStep struct {
	BaseStage
}

// NewGroupedStep creates the grouped dataset step
func NewGroupedStep() *GroupedStep {
	return &GroupedStep{
		BaseStage: NewBaseStage(StepIDGrouped, StepNameGrouped, []string{StepIDAgeBins, StepIDElapsedDays}),
	}
}

// Execute aggregates transactions by date and product group
func (s *GroupedStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	ds.Grouped = features.CreateGroupedData(ds.Customers, ds.Articles, ds.Transactions)
	state.GetStage(s.ID()).SetRows(len(ds.Grouped))
	return nil
}

// TopGroupsStep keeps the grouped rows of the best-selling product groups
type TopGroupsStep struct {
	BaseStage
	n      int
	logger *slog.Logger
}

// NewTopGroupsStep creates the top-N step. The request parameter "top_n"
// overrides n.
func NewTopGroupsStep(n int, logger *slog.Logger) *TopGroupsStep {
	return &TopGroupsStep{
		BaseStage: NewBaseStage(StepIDTopGroups, StepNameTopGroups, []string{StepIDGrouped}),
		n:         n,
		logger:    stepLogger(logger, StepIDTopGroups),
	}
}

func (s *TopGroupsStep) limit(state *OperationState) int {
	v, ok := state.GetConfig(ContextKeyTopN)
	if !ok {
		return s.n
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return s.n
}

// Execute filters the grouped table down to the top N groups
func (s *TopGroupsStep) Execute(ctx context.Context, state *OperationState) error {
	ds := state.Dataset()
	n := s.limit(state)

	available := len(features.GroupTotals(ds.Grouped))
	ds.Grouped = features.TopProductGroups(ds.Grouped, n)
	kept := len(features.GroupTotals(ds.Grouped))

	state.SetContext(ContextKeyGroupsAvailable, available)
	state.SetContext(ContextKeyGroupsKept, kept)
	s.logger.InfoContext(ctx, "Product groups filtered",
		slog.Int("top_n", n),
		slog.Int("groups_available", available),
		slog.Int("groups_kept", kept))

	stepState := state.GetStage(s.ID())
	stepState.SetRows(len(ds.Grouped))
	stepState.SetMetadata(ContextKeyGroupsKept, kept)
	return nil
}

// ExportStep writes every table to the configured sinks. It is a Finalizer:
// a partial run still exports whatever its selected steps derived.
type ExportStep struct {
	BaseStage
	after   []string
	writers []exporter.Writer
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
}

// NewExportStep creates the export step. It needs the loaded dataset and runs
// after each step in after that is part of the run.
func NewExportStep(writers []exporter.Writer, metrics *infrastructure.PipelineMetrics, logger *slog.Logger, after []string) *ExportStep {
	return &ExportStep{
		BaseStage: NewBaseStage(StepIDExport, StepNameExport, []string{StepIDLoad}),
		after:     after,
		writers:   writers,
		metrics:   metrics,
		logger:    stepLogger(logger, StepIDExport),
	}
}

// After returns the steps export follows when they are scheduled
func (s *ExportStep) After() []string {
	return s.after
}

// Validate requires at least one writer on top of a loaded dataset
func (s *ExportStep) Validate(state *OperationState) error {
	if len(s.writers) == 0 {
		return fmt.Errorf("no output writers configured")
	}
	return s.BaseStage.Validate(state)
}

// Execute persists the dataset. Storage failures are retried.
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	frames := exporter.DatasetFrames(state.Dataset())

	paths, err := exporter.Export(ctx, s.writers, frames, s.metrics)
	if err != nil {
		return NewExecutionError(s.ID(), err, apperrors.IsType(err, apperrors.ErrTypeStorage))
	}
	state.AddOutputs(paths...)

	rows := 0
	for _, f := range frames {
		rows += len(f.Rows)
	}
	s.logger.InfoContext(ctx, "Tables exported",
		slog.Int("files", len(paths)),
		slog.Int("rows", rows))

	stepState := state.GetStage(s.ID())
	stepState.SetRows(rows)
	stepState.SetMetadata("files", len(paths))
	return nil
}
