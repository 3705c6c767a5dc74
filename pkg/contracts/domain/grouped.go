package domain

import (
	"time"
)

// UnknownCategory is reported for a mode over a group with no usable values.
const UnknownCategory = "Unknown"

// GroupedRow is one (date, product_group) row of the model-ready table.
type GroupedRow struct {
	Date         time.Time `json:"date" csv:"date"`
	ProductGroup string    `json:"product_group" csv:"product_group"`

	TransactionCount       int      `json:"transaction_count" csv:"transaction_count"`
	AvgPrice               float64  `json:"avg_price" csv:"avg_price"`
	SalesChannel           string   `json:"sales_channel" csv:"sales_channel"`
	MostCommonAgeBin       string   `json:"most_common_age_bin" csv:"most_common_age_bin"`
	UniqueCustomers        int      `json:"unique_customers" csv:"unique_customers"`
	UniqueArticlesSold     int      `json:"unique_articles_sold" csv:"unique_articles_sold"`
	MedianAge              *float64 `json:"median_age" csv:"median_age"`
	FashionNewsSubscribers int      `json:"fashion_news_subscribers" csv:"fashion_news_subscribers"`
	FirstPurchaseDaysAgo   int      `json:"first_purchase_days_ago" csv:"first_purchase_days_ago"`
	RecentPurchaseDaysAgo  int      `json:"recent_purchase_days_ago" csv:"recent_purchase_days_ago"`

	ProductTypeName         string `json:"product_type_name" csv:"product_type_name"`
	ColourGroupName         string `json:"colour_group_name" csv:"colour_group_name"`
	GraphicalAppearanceName string `json:"graphical_appearance_name" csv:"graphical_appearance_name"`
}
