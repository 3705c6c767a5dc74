package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekStart(t *testing.T) {
	monday := day(2024, 1, 1)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "monday", in: monday, want: monday},
		{name: "wednesday afternoon", in: time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC), want: monday},
		{name: "sunday closes the week", in: day(2024, 1, 7), want: monday},
		{name: "next monday", in: day(2024, 1, 8), want: day(2024, 1, 8)},
		{name: "across a year boundary", in: day(2024, 12, 31), want: day(2024, 12, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekStart(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}
}

func TestWeeklyAggregation(t *testing.T) {
	t.Run("same week shares the count", func(t *testing.T) {
		txs := WeeklyAggregation([]domain.Transaction{
			{Date: day(2024, 1, 1), CustomerID: "c1", ArticleID: "a1"},
			{Date: day(2024, 1, 3), CustomerID: "c2", ArticleID: "a1"},
		})

		require.Len(t, txs, 2)
		assert.Equal(t, 2, txs[0].WeeklyTransactions)
		assert.Equal(t, 2, txs[1].WeeklyTransactions)
		assert.Equal(t, txs[0].Week, txs[1].Week)
	})

	t.Run("counts are per week", func(t *testing.T) {
		txs := WeeklyAggregation([]domain.Transaction{
			{Date: day(2024, 1, 7)},
			{Date: day(2024, 1, 8)},
			{Date: time.Date(2024, 1, 9, 10, 30, 0, 0, time.UTC)},
			{Date: day(2024, 1, 14)},
		})

		assert.Equal(t, 1, txs[0].WeeklyTransactions)
		for _, tx := range txs[1:] {
			assert.Equal(t, 3, tx.WeeklyTransactions)
			assert.Equal(t, day(2024, 1, 8), tx.Week)
		}
		assert.Equal(t, day(2024, 1, 9), txs[2].Date, "dates are normalized")
	})

	t.Run("counts sum to row count per week", func(t *testing.T) {
		var txs []domain.Transaction
		for d := 0; d < 30; d++ {
			for i := 0; i <= d%4; i++ {
				txs = append(txs, domain.Transaction{Date: day(2024, 2, 1).AddDate(0, 0, d)})
			}
		}
		txs = WeeklyAggregation(txs)

		rows := make(map[time.Time]int)
		for _, tx := range txs {
			rows[tx.Week]++
		}
		for _, tx := range txs {
			assert.Equal(t, rows[tx.Week], tx.WeeklyTransactions)
		}
	})
}
