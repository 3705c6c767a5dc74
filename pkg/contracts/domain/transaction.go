package domain

import (
	"time"
)

// Transaction is one purchase event from the transactions table.
// The fields after SalesChannelID are derived by the feature pipeline and are
// zero until the step that owns them has run.
type Transaction struct {
	Date           time.Time `json:"t_dat" csv:"t_dat"`
	CustomerID     string    `json:"customer_id" csv:"customer_id" validate:"required"`
	ArticleID      string    `json:"article_id" csv:"article_id" validate:"required"`
	Price          float64   `json:"price" csv:"price" validate:"gte=0"`
	SalesChannelID int       `json:"sales_channel_id" csv:"sales_channel_id" validate:"gte=0"`

	// Week is the Monday 00:00 UTC start of the Monday..Sunday week holding Date
	Week               time.Time `json:"week" csv:"week"`
	WeeklyTransactions int       `json:"weekly_transactions" csv:"weekly_transactions"`

	ElapsedDaysSinceLastPurchase int `json:"elapsed_days_since_last_purchase" csv:"elapsed_days_since_last_purchase"`
	ElapsedDaysSinceFirstSell    int `json:"elapsed_days_since_first_sell" csv:"elapsed_days_since_first_sell"`

	PurchaseRate float64 `json:"purchase_rate" csv:"purchase_rate"`
}

// TransactionColumns lists the raw columns read from the transactions table.
var TransactionColumns = []string{"t_dat", "customer_id", "article_id", "price", "sales_channel_id"}
