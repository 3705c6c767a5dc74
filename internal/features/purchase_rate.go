package features

import (
	"sort"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// BinShare is the share of an article's purchases made by one age bin.
// A nil AgeBin is the bucket of buyers with no known age bin.
type BinShare struct {
	AgeBin   *string
	Count    int
	Fraction float64
}

type articleBin struct {
	articleID string
	ageBin    string
	known     bool
}

// customerAgeBins indexes binned customers by id. Customers with an empty
// AgeBin are left out so they fall into the null bucket like unmatched ids.
func customerAgeBins(customers []domain.Customer) map[string]string {
	bins := make(map[string]string, len(customers))
	for _, c := range customers {
		if c.AgeBin != "" {
			bins[c.CustomerID] = c.AgeBin
		}
	}
	return bins
}

// PurchaseRateDistribution returns, per article, the share of its purchases
// attributable to each age bin it was bought in. Shares of an article sum to 1.
// Known bins are ordered by label and the null bucket comes last.
func PurchaseRateDistribution(transactions []domain.Transaction, customers []domain.Customer) map[string][]BinShare {
	bins := customerAgeBins(customers)

	totals := make(map[string]int)
	counts := make(map[articleBin]int)
	for _, tx := range transactions {
		bin, known := bins[tx.CustomerID]
		counts[articleBin{articleID: tx.ArticleID, ageBin: bin, known: known}]++
		totals[tx.ArticleID]++
	}

	distribution := make(map[string][]BinShare, len(totals))
	for key, count := range counts {
		share := BinShare{
			Count:    count,
			Fraction: float64(count) / float64(totals[key.articleID]),
		}
		if key.known {
			share.AgeBin = domain.StringPtr(key.ageBin)
		}
		distribution[key.articleID] = append(distribution[key.articleID], share)
	}

	for _, shares := range distribution {
		sort.Slice(shares, func(i, j int) bool {
			a, b := shares[i].AgeBin, shares[j].AgeBin
			if a == nil || b == nil {
				return b == nil && a != nil
			}
			return *a < *b
		})
	}

	return distribution
}

// PurchaseRates reduces each article's distribution to one scalar: the
// unweighted mean of its shares over the observed bins.
func PurchaseRates(distribution map[string][]BinShare) map[string]float64 {
	rates := make(map[string]float64, len(distribution))
	for articleID, shares := range distribution {
		fractions := make([]float64, len(shares))
		for i, s := range shares {
			fractions[i] = s.Fraction
		}
		rates[articleID] = Mean(fractions)
	}
	return rates
}

// PurchaseRatePerArticle joins customer age bins onto the transactions, computes
// each article's purchase rate and broadcasts it onto every transaction of
// that article. Customers need AgeBin set by CreateAgeBins.
func PurchaseRatePerArticle(transactions []domain.Transaction, customers []domain.Customer) []domain.Transaction {
	rates := PurchaseRates(PurchaseRateDistribution(transactions, customers))
	for i := range transactions {
		transactions[i].PurchaseRate = rates[transactions[i].ArticleID]
	}
	return transactions
}
