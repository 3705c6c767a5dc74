package features

import (
	"time"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// LastPurchaseDates returns the most recent transaction date per customer.
func LastPurchaseDates(transactions []domain.Transaction) map[string]time.Time {
	last := make(map[string]time.Time)
	for _, tx := range transactions {
		if current, ok := last[tx.CustomerID]; !ok || tx.Date.After(current) {
			last[tx.CustomerID] = tx.Date
		}
	}
	return last
}

// FirstSellDates returns the earliest transaction date per article.
func FirstSellDates(transactions []domain.Transaction) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, tx := range transactions {
		if current, ok := first[tx.ArticleID]; !ok || tx.Date.Before(current) {
			first[tx.ArticleID] = tx.Date
		}
	}
	return first
}

// CalculateElapsedDays sets, relative to referenceDate:
//   - ElapsedDaysSinceLastPurchase from the customer's latest transaction
//   - ElapsedDaysSinceFirstSell from the article's earliest transaction
//
// Both keys come from the transactions themselves, so every row has a value.
// Callers decide the reference date; pass a fixed one for reproducible runs.
func CalculateElapsedDays(transactions []domain.Transaction, referenceDate time.Time) []domain.Transaction {
	lastPurchase := LastPurchaseDates(transactions)
	firstSell := FirstSellDates(transactions)

	for i := range transactions {
		tx := &transactions[i]
		tx.ElapsedDaysSinceLastPurchase = ElapsedDays(referenceDate, lastPurchase[tx.CustomerID])
		tx.ElapsedDaysSinceFirstSell = ElapsedDays(referenceDate, firstSell[tx.ArticleID])
	}

	return transactions
}
