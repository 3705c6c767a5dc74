package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func TestFrameAppendAndValidate(t *testing.T) {
	f := NewFrame("t", []Column{
		{Name: "name", Type: TypeString},
		{Name: "n", Type: TypeInt},
		{Name: "x", Type: TypeFloat},
		{Name: "d", Type: TypeDate},
	}, 2)

	f.Append("a", int64(1), 1.5, date(2020, 1, 1))
	f.Append(nil, nil, nil, nil)
	require.NoError(t, f.Validate())
	assert.Equal(t, []string{"name", "n", "x", "d"}, f.ColumnNames())

	f.Append("b", 2, 1.5, nil)
	err := f.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column n")
}

func TestFrameAppendWrongWidthPanics(t *testing.T) {
	f := NewFrame("t", []Column{{Name: "a", Type: TypeString}}, 0)
	assert.Panics(t, func() { f.Append("a", "b") })
}

func TestDatasetFrames(t *testing.T) {
	ds := sampleDataset()

	frames := DatasetFrames(ds)
	require.Len(t, frames, 3)
	assert.Equal(t, domain.TableTransactions, frames[0].Name)
	assert.Equal(t, domain.TableCustomers, frames[1].Name)
	assert.Equal(t, domain.TableArticles, frames[2].Name)
	for _, f := range frames {
		assert.NoError(t, f.Validate(), f.Name)
	}

	customers := frames[1]
	assert.Equal(t, "20-29", customers.Rows[0][7])
	// customer without normalization keeps nulls
	assert.Nil(t, customers.Rows[1][1])
	assert.Nil(t, customers.Rows[1][6])
	assert.Nil(t, customers.Rows[1][7])

	ds.Grouped = []domain.GroupedRow{{Date: date(2020, 9, 1), ProductGroup: "Vest top Black Solid", SalesChannel: "2"}}
	frames = DatasetFrames(ds)
	require.Len(t, frames, 4)
	assert.Equal(t, domain.TableGrouped, frames[3].Name)
	assert.Nil(t, frames[3].Rows[0][8], "median_age")
	assert.NoError(t, frames[3].Validate())
}

func TestDatasetFrames_UnderivedColumnsAreNull(t *testing.T) {
	ds := sampleDataset()
	ds.Derived = map[domain.Feature]bool{domain.FeatureElapsedDays: true}

	frames := DatasetFrames(ds)
	require.Len(t, frames, 3)

	tx := frames[0].Rows[0]
	assert.Nil(t, tx[5], "week")
	assert.Nil(t, tx[6], "weekly_transactions")
	assert.Equal(t, int64(3), tx[7], "elapsed_days_since_last_purchase")
	assert.Equal(t, int64(5), tx[8], "elapsed_days_since_first_sell")
	assert.Nil(t, tx[9], "purchase_rate")
	assert.Nil(t, frames[2].Rows[0][4], "article_count")
	for _, f := range frames {
		assert.NoError(t, f.Validate(), f.Name)
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"int", int64(42), "42"},
		{"float", 0.0508, "0.0508"},
		{"whole float", 24.0, "24"},
		{"date", date(2020, 9, 1), "2020-09-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(tt.in))
		})
	}
}
