package exporter

import (
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

var transactionColumns = []Column{
	{Name: "t_dat", Type: TypeDate},
	{Name: "customer_id", Type: TypeString},
	{Name: "article_id", Type: TypeString},
	{Name: "price", Type: TypeFloat},
	{Name: "sales_channel_id", Type: TypeInt},
	{Name: "week", Type: TypeDate},
	{Name: "weekly_transactions", Type: TypeInt},
	{Name: "elapsed_days_since_last_purchase", Type: TypeInt},
	{Name: "elapsed_days_since_first_sell", Type: TypeInt},
	{Name: "purchase_rate", Type: TypeFloat},
}

var customerColumns = []Column{
	{Name: "customer_id", Type: TypeString},
	{Name: "FN", Type: TypeFloat},
	{Name: "Active", Type: TypeFloat},
	{Name: "club_member_status", Type: TypeString},
	{Name: "fashion_news_frequency", Type: TypeString},
	{Name: "age", Type: TypeFloat},
	{Name: "adjusted_age", Type: TypeFloat},
	{Name: "age_bin", Type: TypeString},
}

var articleColumns = []Column{
	{Name: "article_id", Type: TypeString},
	{Name: "product_type_name", Type: TypeString},
	{Name: "colour_group_name", Type: TypeString},
	{Name: "graphical_appearance_name", Type: TypeString},
	{Name: "article_count", Type: TypeInt},
	{Name: "image_path", Type: TypeString},
}

var groupedColumns = []Column{
	{Name: "date", Type: TypeDate},
	{Name: "product_group", Type: TypeString},
	{Name: "transaction_count", Type: TypeInt},
	{Name: "avg_price", Type: TypeFloat},
	{Name: "sales_channel", Type: TypeString},
	{Name: "most_common_age_bin", Type: TypeString},
	{Name: "unique_customers", Type: TypeInt},
	{Name: "unique_articles_sold", Type: TypeInt},
	{Name: "median_age", Type: TypeFloat},
	{Name: "fashion_news_subscribers", Type: TypeInt},
	{Name: "first_purchase_days_ago", Type: TypeInt},
	{Name: "recent_purchase_days_ago", Type: TypeInt},
	{Name: "product_type_name", Type: TypeString},
	{Name: "colour_group_name", Type: TypeString},
	{Name: "graphical_appearance_name", Type: TypeString},
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// nonEmpty maps a derived string that was never set to null
func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// derivedInt returns v, or null when the feature owning it has not run
func derivedInt(derived bool, v int) any {
	if !derived {
		return nil
	}
	return int64(v)
}

// TransactionsFrame builds the processed transactions table. Columns of
// features ds has not derived are null.
func TransactionsFrame(ds *domain.Dataset) *Frame {
	txs := ds.Transactions
	weekly := ds.HasFeature(domain.FeatureWeekly)
	elapsed := ds.HasFeature(domain.FeatureElapsedDays)
	rated := ds.HasFeature(domain.FeaturePurchaseRate)

	f := NewFrame(domain.TableTransactions, transactionColumns, len(txs))
	f.Index = []string{"customer_id", "article_id"}
	for _, tx := range txs {
		var week, rate any
		if weekly {
			week = tx.Week
		}
		if rated {
			rate = tx.PurchaseRate
		}
		f.Append(
			tx.Date,
			tx.CustomerID,
			tx.ArticleID,
			tx.Price,
			int64(tx.SalesChannelID),
			week,
			derivedInt(weekly, tx.WeeklyTransactions),
			derivedInt(elapsed, tx.ElapsedDaysSinceLastPurchase),
			derivedInt(elapsed, tx.ElapsedDaysSinceFirstSell),
			rate,
		)
	}
	return f
}

// CustomersFrame builds the processed customers table
func CustomersFrame(customers []domain.Customer) *Frame {
	f := NewFrame(domain.TableCustomers, customerColumns, len(customers))
	f.Index = []string{"customer_id"}
	for _, c := range customers {
		var adjusted any
		if c.AgeBin != "" {
			adjusted = c.AdjustedAge
		}
		f.Append(
			c.CustomerID,
			nullableFloat(c.FN),
			nullableFloat(c.Active),
			nullableString(c.ClubMemberStatus),
			nullableString(c.FashionNewsFrequency),
			nullableFloat(c.Age),
			adjusted,
			nonEmpty(c.AgeBin),
		)
	}
	return f
}

// ArticlesFrame builds the processed articles table
func ArticlesFrame(ds *domain.Dataset) *Frame {
	articles := ds.Articles
	counted := ds.HasFeature(domain.FeatureArticleCounts)

	f := NewFrame(domain.TableArticles, articleColumns, len(articles))
	f.Index = []string{"article_id"}
	for _, a := range articles {
		f.Append(
			a.ArticleID,
			a.ProductTypeName,
			a.ColourGroupName,
			a.GraphicalAppearanceName,
			derivedInt(counted, a.ArticleCount),
			nullableString(a.ImagePath),
		)
	}
	return f
}

// GroupedFrame builds the model-ready grouped table
func GroupedFrame(rows []domain.GroupedRow) *Frame {
	f := NewFrame(domain.TableGrouped, groupedColumns, len(rows))
	f.Index = []string{"product_group"}
	for _, r := range rows {
		f.Append(
			r.Date,
			r.ProductGroup,
			int64(r.TransactionCount),
			r.AvgPrice,
			r.SalesChannel,
			r.MostCommonAgeBin,
			int64(r.UniqueCustomers),
			int64(r.UniqueArticlesSold),
			nullableFloat(r.MedianAge),
			int64(r.FashionNewsSubscribers),
			int64(r.FirstPurchaseDaysAgo),
			int64(r.RecentPurchaseDaysAgo),
			r.ProductTypeName,
			r.ColourGroupName,
			r.GraphicalAppearanceName,
		)
	}
	return f
}

// DatasetFrames returns the frames of every table in ds. The grouped table
// is included only once it has been built.
func DatasetFrames(ds *domain.Dataset) []*Frame {
	frames := []*Frame{
		TransactionsFrame(ds),
		CustomersFrame(ds.Customers),
		ArticlesFrame(ds),
	}
	if ds.Grouped != nil {
		frames = append(frames, GroupedFrame(ds.Grouped))
	}
	return frames
}
