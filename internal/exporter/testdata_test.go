package exporter

import (
	"time"

	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Transactions: []domain.Transaction{
			{
				Date: date(2020, 9, 1), CustomerID: "c1", ArticleID: "0108775015",
				Price: 0.0508, SalesChannelID: 2,
				Week: date(2020, 8, 31), WeeklyTransactions: 2,
				ElapsedDaysSinceLastPurchase: 3, ElapsedDaysSinceFirstSell: 5,
				PurchaseRate: 0.5,
			},
			{
				Date: date(2020, 9, 3), CustomerID: "c2", ArticleID: "0108775015",
				Price: 0.025, SalesChannelID: 1,
				Week: date(2020, 8, 31), WeeklyTransactions: 2,
				ElapsedDaysSinceLastPurchase: 3, ElapsedDaysSinceFirstSell: 5,
				PurchaseRate: 0.5,
			},
		},
		Customers: []domain.Customer{
			{
				CustomerID: "c1", Age: domain.Float64Ptr(24), FN: domain.Float64Ptr(1), Active: domain.Float64Ptr(0),
				FashionNewsFrequency: domain.StringPtr("Regularly"), ClubMemberStatus: domain.StringPtr("ACTIVE"),
				AdjustedAge: 24, AgeBin: "20-29",
			},
			{CustomerID: "c2"},
		},
		Articles: []domain.Article{
			{
				ArticleID: "0108775015", ProductTypeName: "Vest top", ColourGroupName: "Black",
				GraphicalAppearanceName: "Solid", ArticleCount: 1,
			},
		},
		Derived: map[domain.Feature]bool{
			domain.FeatureAgeBins:       true,
			domain.FeatureWeekly:        true,
			domain.FeatureArticleCounts: true,
			domain.FeatureElapsedDays:   true,
			domain.FeaturePurchaseRate:  true,
		},
	}
}
