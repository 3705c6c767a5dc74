package features

import (
	"sort"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// DefaultTopN is the number of product groups kept by default.
const DefaultTopN = 800

// GroupTotal is the total transaction count of one product group.
type GroupTotal struct {
	ProductGroup string
	Total        int
}

// GroupTotals sums transaction_count per product group and ranks the groups by
// total, descending. Equal totals keep product group ascending order.
func GroupTotals(rows []domain.GroupedRow) []GroupTotal {
	sums := make(map[string]int)
	for _, r := range rows {
		sums[r.ProductGroup] += r.TransactionCount
	}

	totals := make([]GroupTotal, 0, len(sums))
	for group, total := range sums {
		totals = append(totals, GroupTotal{ProductGroup: group, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].ProductGroup < totals[j].ProductGroup
	})
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	return totals
}

// TopProductGroups keeps the rows of the n product groups with the most
// transactions. Rows stay in their input order. n <= 0 keeps nothing.
func TopProductGroups(rows []domain.GroupedRow, n int) []domain.GroupedRow {
	if n <= 0 {
		return []domain.GroupedRow{}
	}

	totals := GroupTotals(rows)
	if n > len(totals) {
		n = len(totals)
	}
	keep := make(map[string]struct{}, n)
	for _, t := range totals[:n] {
		keep[t.ProductGroup] = struct{}{}
	}

	filtered := make([]domain.GroupedRow, 0, len(rows))
	for _, r := range rows {
		if _, ok := keep[r.ProductGroup]; ok {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
