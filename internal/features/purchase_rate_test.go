package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func binnedCustomers() []domain.Customer {
	return []domain.Customer{
		{CustomerID: "c1", AgeBin: AgeBinTwenties},
		{CustomerID: "c2", AgeBin: AgeBinTwenties},
		{CustomerID: "c3", AgeBin: AgeBinForties},
		{CustomerID: "c4", AgeBin: AgeBinSenior},
	}
}

func TestPurchaseRateDistribution(t *testing.T) {
	txs := []domain.Transaction{
		{CustomerID: "c1", ArticleID: "a1"},
		{CustomerID: "c2", ArticleID: "a1"},
		{CustomerID: "c3", ArticleID: "a1"},
		{CustomerID: "unknown", ArticleID: "a1"},
		{CustomerID: "c4", ArticleID: "a2"},
	}

	dist := PurchaseRateDistribution(txs, binnedCustomers())
	require.Len(t, dist, 2)

	shares := dist["a1"]
	require.Len(t, shares, 3)
	require.NotNil(t, shares[0].AgeBin)
	assert.Equal(t, AgeBinTwenties, *shares[0].AgeBin)
	assert.InDelta(t, 0.5, shares[0].Fraction, 1e-12)
	require.NotNil(t, shares[1].AgeBin)
	assert.Equal(t, AgeBinForties, *shares[1].AgeBin)
	assert.InDelta(t, 0.25, shares[1].Fraction, 1e-12)
	assert.Nil(t, shares[2].AgeBin, "unmatched customers form the null bucket")
	assert.Equal(t, 1, shares[2].Count)

	for articleID, shares := range dist {
		sum := 0.0
		for _, s := range shares {
			sum += s.Fraction
		}
		assert.InDelta(t, 1.0, sum, 1e-9, articleID)
	}
}

func TestPurchaseRatePerArticle(t *testing.T) {
	txs := PurchaseRatePerArticle([]domain.Transaction{
		{CustomerID: "c1", ArticleID: "a1"},
		{CustomerID: "c3", ArticleID: "a1"},
		{CustomerID: "c3", ArticleID: "a1"},
		{CustomerID: "c3", ArticleID: "a1"},
		{CustomerID: "c4", ArticleID: "a2"},
	}, binnedCustomers())

	// a1 is bought in two bins, so its rate is the mean of 0.25 and 0.75
	for _, tx := range txs[:4] {
		assert.InDelta(t, 0.5, tx.PurchaseRate, 1e-12)
	}
	assert.InDelta(t, 1.0, txs[4].PurchaseRate, 1e-12)
}

func TestPurchaseRates_EqualsOneOverBinCount(t *testing.T) {
	dist := map[string][]BinShare{
		"a": {{Fraction: 0.9}, {Fraction: 0.05}, {Fraction: 0.05}},
	}
	assert.InDelta(t, 1.0/3.0, PurchaseRates(dist)["a"], 1e-12)
}
