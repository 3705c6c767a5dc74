package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/internal/operations"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// ReferenceDate is the reference date used by pipeline fixtures
var ReferenceDate = time.Date(2020, 9, 24, 0, 0, 0, 0, time.UTC)

// CreateTestOperationState creates an operation state for testing
func CreateTestOperationState(id string) *operations.OperationState {
	return operations.NewOperationState(id, ReferenceDate)
}

// CreateTestConfig creates a configuration with short retry delays
func CreateTestConfig() *operations.Config {
	config := operations.NewConfig()
	config.Retry = operations.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
	return config
}

// CreateSuccessfulStage creates a step that always succeeds
func CreateSuccessfulStage(id, name string, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			if s := state.GetStage(id); s != nil {
				s.SetRows(1)
			}
			return nil
		},
	}
}

// CreateFailingStage creates a step that always fails
func CreateFailingStage(id, name string, err error, deps ...string) *MockStage {
	if err == nil {
		err = errors.New("step failed")
	}
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			return err
		},
	}
}

// CreateRetryableStage creates a step that fails failCount times with a
// retryable error, then succeeds
func CreateRetryableStage(id, name string, failCount int, deps ...string) *MockStage {
	var mu sync.Mutex
	attempts := 0
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			mu.Lock()
			defer mu.Unlock()
			attempts++
			if attempts <= failCount {
				return operations.NewExecutionError(id, errors.New("temporary failure"), true)
			}
			return nil
		},
	}
}

// CreateSlowStage creates a step that takes a specific duration
func CreateSlowStage(id, name string, duration time.Duration, deps ...string) *MockStage {
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ExecuteFunc: func(ctx context.Context, state *operations.OperationState) error {
			select {
			case <-time.After(duration):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}
}

// CreateValidationFailingStage creates a step that fails validation
func CreateValidationFailingStage(id, name string, validationErr error, deps ...string) *MockStage {
	if validationErr == nil {
		validationErr = errors.New("validation failed")
	}
	return &MockStage{
		IDValue:           id,
		NameValue:         name,
		DependenciesValue: deps,
		ValidateFunc: func(state *operations.OperationState) error {
			return validationErr
		},
	}
}

// SampleDataset returns a small raw dataset. Customer c3 has no known values
// and article a3 is never sold.
func SampleDataset() *domain.Dataset {
	day := func(d int) time.Time {
		return time.Date(2020, 9, d, 0, 0, 0, 0, time.UTC)
	}
	return &domain.Dataset{
		Transactions: []domain.Transaction{
			{Date: day(20), CustomerID: "c1", ArticleID: "a1", Price: 0.05, SalesChannelID: 2},
			{Date: day(20), CustomerID: "c2", ArticleID: "a1", Price: 0.03, SalesChannelID: 1},
			{Date: day(21), CustomerID: "c1", ArticleID: "a2", Price: 0.02, SalesChannelID: 2},
			{Date: day(22), CustomerID: "c3", ArticleID: "a2", Price: 0.04, SalesChannelID: 2},
		},
		Customers: []domain.Customer{
			{CustomerID: "c1", Age: domain.Float64Ptr(25.0), FN: domain.Float64Ptr(1.0), Active: domain.Float64Ptr(1.0),
				ClubMemberStatus: domain.StringPtr("ACTIVE"), FashionNewsFrequency: domain.StringPtr("Regularly")},
			{CustomerID: "c2", Age: domain.Float64Ptr(65.0), FN: domain.Float64Ptr(0.0), Active: domain.Float64Ptr(0.0),
				ClubMemberStatus: domain.StringPtr("ACTIVE"), FashionNewsFrequency: domain.StringPtr("NONE")},
			{CustomerID: "c3"},
		},
		Articles: []domain.Article{
			{ArticleID: "a1", ProductTypeName: "Trousers", ColourGroupName: "Black", GraphicalAppearanceName: "Solid"},
			{ArticleID: "a2", ProductTypeName: "Dress", ColourGroupName: "Red", GraphicalAppearanceName: "Stripe"},
			{ArticleID: "a3", ProductTypeName: "Trousers", ColourGroupName: "Black", GraphicalAppearanceName: "Solid"},
		},
	}
}

// Raw CSV renditions of SampleDataset
const (
	TransactionsCSV = `t_dat,customer_id,article_id,price,sales_channel_id
2020-09-20,c1,a1,0.05,2
2020-09-20,c2,a1,0.03,1
2020-09-21,c1,a2,0.02,2
2020-09-22,c3,a2,0.04,2
`
	CustomersCSV = `customer_id,FN,Active,club_member_status,fashion_news_frequency,age
c1,1,1,ACTIVE,Regularly,25
c2,0,0,ACTIVE,NONE,65
c3,,,,,
`
	ArticlesCSV = `article_id,product_type_name,colour_group_name,graphical_appearance_name
a1,Trousers,Black,Solid
a2,Dress,Red,Stripe
a3,Trousers,Black,Solid
`
)

// WriteRawTables writes the sample tables under dir as transactions_train.csv,
// customers.csv and articles.csv
func WriteRawTables(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for name, content := range map[string]string{
		"transactions_train.csv": TransactionsCSV,
		"customers.csv":          CustomersCSV,
		"articles.csv":           ArticlesCSV,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
}
