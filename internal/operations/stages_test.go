package operations_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/exporter"
	"github.com/meganhong98/demand-forecasting/internal/operations"
	"github.com/meganhong98/demand-forecasting/internal/operations/testutil"
	logtest "github.com/meganhong98/demand-forecasting/internal/shared/testutil"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// stubImages marks every article whose ID is in found as having an image
type stubImages struct {
	found map[string]bool
}

func (s stubImages) AddImagePaths(articles []domain.Article) int {
	n := 0
	for i := range articles {
		if s.found[articles[i].ArticleID] {
			articles[i].ImagePath = domain.StringPtr("images/" + articles[i].ArticleID + ".jpg")
			n++
		}
	}
	return n
}

func runSteps(t *testing.T, opts operations.RegistryOptions, req operations.OperationRequest) (*operations.OperationResponse, error) {
	t.Helper()
	registry, err := operations.BuildRegistry(opts)
	require.NoError(t, err)
	manager := operations.NewManager(registry, testutil.CreateTestConfig(), opts.Logger, nil)
	return manager.Execute(context.Background(), req)
}

func TestBuildRegistrySteps(t *testing.T) {
	tests := []struct {
		name string
		opts operations.RegistryOptions
		want []string
	}{
		{
			name: "core only",
			opts: operations.RegistryOptions{},
			want: []string{
				operations.StepIDLoad, operations.StepIDNormalize, operations.StepIDAgeBins,
				operations.StepIDWeekly, operations.StepIDArticleGroups,
				operations.StepIDElapsedDays, operations.StepIDPurchaseRate,
			},
		},
		{
			name: "everything",
			opts: operations.RegistryOptions{
				Images:  stubImages{},
				Grouped: true,
				TopN:    10,
				Writers: []exporter.Writer{exporter.NewCSVWriter(t.TempDir(), false, nil)},
			},
			want: []string{
				operations.StepIDLoad, operations.StepIDNormalize, operations.StepIDAgeBins,
				operations.StepIDWeekly, operations.StepIDArticleGroups, operations.StepIDImagePaths,
				operations.StepIDElapsedDays, operations.StepIDPurchaseRate,
				operations.StepIDGrouped, operations.StepIDTopGroups, operations.StepIDExport,
			},
		},
		{
			name: "top n without grouping is ignored",
			opts: operations.RegistryOptions{TopN: 10},
			want: []string{
				operations.StepIDLoad, operations.StepIDNormalize, operations.StepIDAgeBins,
				operations.StepIDWeekly, operations.StepIDArticleGroups,
				operations.StepIDElapsedDays, operations.StepIDPurchaseRate,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := operations.BuildRegistry(tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, registry.ListIDs())
			assert.NoError(t, registry.ValidateDependencies())
		})
	}

	registry, err := operations.BuildRegistry(tests[1].opts)
	require.NoError(t, err)
	export, err := registry.Get(operations.StepIDExport)
	require.NoError(t, err)
	assert.Equal(t, []string{operations.StepIDLoad}, export.GetDependencies())
	finalizer, ok := export.(operations.Finalizer)
	require.True(t, ok)
	assert.Len(t, finalizer.After(), 9, "export follows every other step")

	ordered, err := registry.GetDependencyOrder()
	require.NoError(t, err)
	assert.Equal(t, operations.StepIDExport, ordered[len(ordered)-1].ID())
}

func TestBuildRegistrySelectIncludesExport(t *testing.T) {
	registry, err := operations.BuildRegistry(operations.RegistryOptions{
		Grouped: true,
		TopN:    10,
		Writers: []exporter.Writer{exporter.NewCSVWriter(t.TempDir(), false, nil)},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{
			name: "single feature",
			ids:  []string{operations.StepIDAgeBins},
			want: []string{operations.StepIDLoad, operations.StepIDNormalize, operations.StepIDAgeBins, operations.StepIDExport},
		},
		{
			name: "export requested explicitly",
			ids:  []string{operations.StepIDWeekly, operations.StepIDExport},
			want: []string{operations.StepIDLoad, operations.StepIDWeekly, operations.StepIDExport},
		},
		{
			name: "export alone",
			ids:  []string{operations.StepIDExport},
			want: []string{operations.StepIDLoad, operations.StepIDExport},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := registry.Select(tt.ids)
			require.NoError(t, err)
			ids := make([]string, len(steps))
			for i, s := range steps {
				ids[i] = s.ID()
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFeatureSteps(t *testing.T) {
	logger, logs := logtest.NewTestLogger(t)
	loader := &testutil.MockLoader{Dataset: testutil.SampleDataset()}

	resp, err := runSteps(t, operations.RegistryOptions{
		Loader:  loader,
		Images:  stubImages{found: map[string]bool{"a2": true}},
		Grouped: true,
		TopN:    800,
		Logger:  logger,
	}, operations.OperationRequest{ReferenceDate: testutil.ReferenceDate})
	require.NoError(t, err)
	require.Equal(t, operations.OperationStatusCompleted, resp.Status)

	assert.Equal(t, 1, loader.Calls)
	assert.Equal(t, map[string]int{
		domain.TableTransactions: 4,
		domain.TableCustomers:    3,
		domain.TableArticles:     3,
		domain.TableGrouped:      3,
	}, resp.Rows)

	assert.Equal(t, 10, testutil.StepSummary(t, resp, operations.StepIDLoad).Rows)
	assert.Equal(t, 1, testutil.StepSummary(t, resp, operations.StepIDImagePaths).Rows)
	assert.Equal(t, 3, testutil.StepSummary(t, resp, operations.StepIDTopGroups).Rows)

	logtest.AssertLogAttr(t, logs, "groups_kept", int64(2))
	logtest.AssertNoErrors(t, logs)
}

func TestFeatureStepsDatasetValues(t *testing.T) {
	var ds *domain.Dataset
	capture := &testutil.MockStage{
		IDValue:           "capture",
		NameValue:         "Capture",
		DependenciesValue: []string{operations.StepIDPurchaseRate, operations.StepIDGrouped, operations.StepIDWeekly, operations.StepIDArticleGroups},
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			ds = state.Dataset()
			return nil
		},
	}

	registry, err := operations.BuildRegistry(operations.RegistryOptions{
		Loader:  &testutil.MockLoader{Dataset: testutil.SampleDataset()},
		Grouped: true,
	})
	require.NoError(t, err)
	require.NoError(t, registry.Register(capture))

	manager := operations.NewManager(registry, testutil.CreateTestConfig(), nil, nil)
	_, err = manager.Execute(context.Background(), operations.OperationRequest{ReferenceDate: testutil.ReferenceDate})
	require.NoError(t, err)
	require.NotNil(t, ds)

	// c3 has no age and takes the median of 25 and 65
	c3 := ds.Customers[2]
	require.NotNil(t, c3.Age)
	assert.Equal(t, 45.0, *c3.Age)
	assert.Equal(t, "40-49", c3.AgeBin)
	assert.Equal(t, "NON-ACTIVE", *c3.ClubMemberStatus)
	assert.Equal(t, "60+", ds.Customers[1].AgeBin)

	tx := ds.Transactions[0]
	assert.Equal(t, 2, tx.WeeklyTransactions)
	assert.Equal(t, 3, tx.ElapsedDaysSinceLastPurchase)
	assert.Equal(t, 4, tx.ElapsedDaysSinceFirstSell)
	assert.InDelta(t, 0.5, tx.PurchaseRate, 1e-9)

	assert.Equal(t, 2, ds.Articles[0].ArticleCount)
	assert.Equal(t, 1, ds.Articles[1].ArticleCount)

	require.Len(t, ds.Grouped, 3)
	first := ds.Grouped[0]
	assert.Equal(t, "Trousers Black Solid", first.ProductGroup)
	assert.Equal(t, 2, first.TransactionCount)
	assert.InDelta(t, 0.04, first.AvgPrice, 1e-9)
	assert.Equal(t, "1", first.SalesChannel)
	assert.Equal(t, "20-29", first.MostCommonAgeBin)
	require.NotNil(t, first.MedianAge)
	assert.Equal(t, 45.0, *first.MedianAge)
	assert.Equal(t, 1, first.FashionNewsSubscribers)
	assert.Equal(t, 4, first.FirstPurchaseDaysAgo)
	assert.Equal(t, 3, first.RecentPurchaseDaysAgo)
}

func TestTopGroupsStepLimit(t *testing.T) {
	resp, err := runSteps(t, operations.RegistryOptions{
		Loader:  &testutil.MockLoader{Dataset: testutil.SampleDataset()},
		Grouped: true,
		TopN:    800,
	}, operations.OperationRequest{
		ReferenceDate: testutil.ReferenceDate,
		Parameters:    map[string]interface{}{operations.ContextKeyTopN: 1},
	})
	require.NoError(t, err)

	// both groups sell two units; the tie keeps Dress, the smaller name
	assert.Equal(t, 2, resp.Rows[domain.TableGrouped])
}

func TestLoadStepFailureSkipsPipeline(t *testing.T) {
	resp, err := runSteps(t, operations.RegistryOptions{
		Loader:  &testutil.MockLoader{Err: errors.New("customers.csv: row 3: invalid age")},
		Grouped: true,
	}, operations.OperationRequest{ReferenceDate: testutil.ReferenceDate})

	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid age")
	assert.Equal(t, operations.OperationStatusFailed, resp.Status)
	testutil.AssertStepStatus(t, resp, operations.StepIDLoad, operations.StepStatusFailed)
	testutil.AssertStepStatus(t, resp, operations.StepIDGrouped, operations.StepStatusSkipped)
	assert.Nil(t, resp.Rows)
}

func TestStepsRequireDataset(t *testing.T) {
	state := testutil.CreateTestOperationState("no-data")
	for _, step := range []operations.Step{
		operations.NewNormalizeStep(nil),
		operations.NewAgeBinsStep(),
		operations.NewWeeklyStep(),
		operations.NewGroupedStep(),
	} {
		assert.ErrorContains(t, step.Validate(state), "no dataset loaded", step.ID())
	}

	assert.ErrorContains(t, operations.NewLoadStep(nil, nil).Validate(state), "no loader")
	assert.ErrorContains(t, operations.NewImagePathsStep(nil).Validate(state), "no image resolver")
	assert.ErrorContains(t, operations.NewExportStep(nil, nil, nil, nil).Validate(state), "no output writers")

	state.SetDataset(testutil.SampleDataset())
	assert.NoError(t, operations.NewElapsedDaysStep().Validate(state))

	noRef := operations.NewOperationState("no-ref", time.Time{})
	noRef.SetDataset(testutil.SampleDataset())
	assert.ErrorContains(t, operations.NewElapsedDaysStep().Validate(noRef), "no reference date")
}

func TestAgeBinsStepWithoutAges(t *testing.T) {
	ds := testutil.SampleDataset()
	for i := range ds.Customers {
		ds.Customers[i].Age = nil
	}

	resp, err := runSteps(t, operations.RegistryOptions{
		Loader: &testutil.MockLoader{Dataset: ds},
	}, operations.OperationRequest{
		ReferenceDate: testutil.ReferenceDate,
		Steps:         []string{operations.StepIDPurchaseRate},
	})

	require.Error(t, err)
	testutil.AssertStepStatus(t, resp, operations.StepIDNormalize, operations.StepStatusCompleted)
	testutil.AssertStepStatus(t, resp, operations.StepIDAgeBins, operations.StepStatusFailed)
	testutil.AssertStepStatus(t, resp, operations.StepIDPurchaseRate, operations.StepStatusSkipped)
}

func TestExportStep(t *testing.T) {
	dir := t.TempDir()
	resp, err := runSteps(t, operations.RegistryOptions{
		Loader:  &testutil.MockLoader{Dataset: testutil.SampleDataset()},
		Grouped: true,
		Writers: []exporter.Writer{exporter.NewCSVWriter(dir, false, nil)},
	}, operations.OperationRequest{ReferenceDate: testutil.ReferenceDate})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "transactions.csv"),
		filepath.Join(dir, "customers.csv"),
		filepath.Join(dir, "articles.csv"),
		filepath.Join(dir, "grouped_data.csv"),
	}, resp.Outputs)
	assert.Equal(t, 4+3+3+3, testutil.StepSummary(t, resp, operations.StepIDExport).Rows)
}

func TestExportStepSkippedAfterFailedStep(t *testing.T) {
	ds := testutil.SampleDataset()
	for i := range ds.Customers {
		ds.Customers[i].Age = nil
	}
	dir := t.TempDir()

	config := testutil.CreateTestConfig()
	config.ContinueOnError = true
	registry, err := operations.BuildRegistry(operations.RegistryOptions{
		Loader:  &testutil.MockLoader{Dataset: ds},
		Writers: []exporter.Writer{exporter.NewCSVWriter(dir, false, nil)},
	})
	require.NoError(t, err)
	manager := operations.NewManager(registry, config, nil, nil)

	resp, err := manager.Execute(context.Background(), operations.OperationRequest{
		ReferenceDate: testutil.ReferenceDate,
		Steps:         []string{operations.StepIDAgeBins, operations.StepIDWeekly},
	})
	require.Error(t, err)
	testutil.AssertStepStatus(t, resp, operations.StepIDWeekly, operations.StepStatusCompleted)
	testutil.AssertStepStatus(t, resp, operations.StepIDAgeBins, operations.StepStatusFailed)
	testutil.AssertStepStatus(t, resp, operations.StepIDExport, operations.StepStatusSkipped)
	assert.Empty(t, resp.Outputs)
}
