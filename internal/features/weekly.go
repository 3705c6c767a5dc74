package features

import (
	"time"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// WeekStart returns midnight UTC of the Monday opening the Monday..Sunday week
// that holds t. Weeks are anchored on the Sunday that closes them.
func WeekStart(t time.Time) time.Time {
	day := DateOf(t)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	return day.AddDate(0, 0, -offset)
}

// WeeklyCounts returns the number of transactions per week, keyed by the
// Unix seconds of the week start.
func WeeklyCounts(transactions []domain.Transaction) map[int64]int {
	counts := make(map[int64]int)
	for _, tx := range transactions {
		counts[WeekStart(tx.Date).Unix()]++
	}
	return counts
}

// WeeklyAggregation normalizes each transaction date to its calendar date, sets
// Week to the week start and broadcasts the week's transaction count onto every
// transaction as WeeklyTransactions.
func WeeklyAggregation(transactions []domain.Transaction) []domain.Transaction {
	for i := range transactions {
		transactions[i].Date = DateOf(transactions[i].Date)
		transactions[i].Week = WeekStart(transactions[i].Date)
	}

	counts := WeeklyCounts(transactions)
	for i := range transactions {
		transactions[i].WeeklyTransactions = counts[transactions[i].Week.Unix()]
	}

	return transactions
}
