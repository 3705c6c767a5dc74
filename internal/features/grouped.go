package features

import (
	"sort"
	"strconv"
	"time"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

type groupKey struct {
	date         int64
	productGroup string
}

// groupAccumulator collects the joined rows of one (date, product_group).
type groupAccumulator struct {
	date         time.Time
	productGroup string
	names        domain.ProductGroupKey

	count         int
	prices        []float64
	salesChannels map[int]int
	ageBins       map[string]int
	customers     map[string]struct{}
	articles      map[string]struct{}
	ages          []float64
	subscribers   int

	minFirstSell    int
	minLastPurchase int
}

func newGroupAccumulator(date time.Time, label string, names domain.ProductGroupKey) *groupAccumulator {
	return &groupAccumulator{
		date:          date,
		productGroup:  label,
		names:         names,
		salesChannels: make(map[int]int),
		ageBins:       make(map[string]int),
		customers:     make(map[string]struct{}),
		articles:      make(map[string]struct{}),
	}
}

func (g *groupAccumulator) add(tx domain.Transaction, customer *domain.Customer) {
	if g.count == 0 || tx.ElapsedDaysSinceFirstSell < g.minFirstSell {
		g.minFirstSell = tx.ElapsedDaysSinceFirstSell
	}
	if g.count == 0 || tx.ElapsedDaysSinceLastPurchase < g.minLastPurchase {
		g.minLastPurchase = tx.ElapsedDaysSinceLastPurchase
	}
	g.count++
	g.prices = append(g.prices, tx.Price)
	g.salesChannels[tx.SalesChannelID]++
	g.customers[tx.CustomerID] = struct{}{}
	g.articles[tx.ArticleID] = struct{}{}

	// Customer fields are null for transactions without a matching customer
	if customer == nil {
		return
	}
	if customer.AgeBin != "" {
		g.ageBins[customer.AgeBin]++
	}
	if customer.Age != nil {
		g.ages = append(g.ages, *customer.Age)
	}
	if customer.FashionNewsFrequency != nil && *customer.FashionNewsFrequency == domain.FashionNewsRegularly {
		g.subscribers++
	}
}

func (g *groupAccumulator) row() domain.GroupedRow {
	row := domain.GroupedRow{
		Date:                    g.date,
		ProductGroup:            g.productGroup,
		TransactionCount:        g.count,
		AvgPrice:                Mean(g.prices),
		SalesChannel:            domain.UnknownCategory,
		MostCommonAgeBin:        domain.UnknownCategory,
		UniqueCustomers:         len(g.customers),
		UniqueArticlesSold:      len(g.articles),
		FashionNewsSubscribers:  g.subscribers,
		FirstPurchaseDaysAgo:    g.minFirstSell,
		RecentPurchaseDaysAgo:   g.minLastPurchase,
		ProductTypeName:         g.names.ProductType,
		ColourGroupName:         g.names.ColourGroup,
		GraphicalAppearanceName: g.names.GraphicalAppearance,
	}

	if channel, ok := modeInt(g.salesChannels); ok {
		row.SalesChannel = strconv.Itoa(channel)
	}
	if bin, ok := modeString(g.ageBins); ok {
		row.MostCommonAgeBin = bin
	}
	if len(g.ages) > 0 {
		row.MedianAge = domain.Float64Ptr(Median(g.ages))
	}
	return row
}

// modeInt returns the most frequent value, the smallest one on ties.
func modeInt(counts map[int]int) (int, bool) {
	best, bestCount := 0, 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best, bestCount > 0
}

// modeString returns the most frequent value, the lexicographically smallest
// one on ties.
func modeString(counts map[string]int) (string, bool) {
	best, bestCount := "", 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	return best, bestCount > 0
}

// CreateGroupedData builds the model-ready table with one row per
// (date, product_group).
//
// Transactions are inner joined to articles, so transactions of unknown
// articles are dropped. Customers are left joined: transactions of unknown
// customers still count toward transaction_count, unique_customers and the
// price and channel aggregates, but contribute nothing to the age bin,
// median age or subscriber aggregates.
//
// Transactions are expected to have been through WeeklyAggregation and
// CalculateElapsedDays, and customers through CreateAgeBins. Rows are
// returned ordered by date, then product group.
func CreateGroupedData(customers []domain.Customer, articles []domain.Article, transactions []domain.Transaction) []domain.GroupedRow {
	articleByID := make(map[string]*domain.Article, len(articles))
	for i := range articles {
		articleByID[articles[i].ArticleID] = &articles[i]
	}
	customerByID := make(map[string]*domain.Customer, len(customers))
	for i := range customers {
		customerByID[customers[i].CustomerID] = &customers[i]
	}

	groups := make(map[groupKey]*groupAccumulator)
	for _, tx := range transactions {
		article, ok := articleByID[tx.ArticleID]
		if !ok {
			continue
		}

		date := DateOf(tx.Date)
		names := article.GroupKey()
		key := groupKey{date: date.Unix(), productGroup: names.Label()}

		acc, ok := groups[key]
		if !ok {
			acc = newGroupAccumulator(date, key.productGroup, names)
			groups[key] = acc
		}
		acc.add(tx, customerByID[tx.CustomerID])
	}

	rows := make([]domain.GroupedRow, 0, len(groups))
	for _, acc := range groups {
		rows = append(rows, acc.row())
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ProductGroup < rows[j].ProductGroup
	})

	return rows
}
