package domain

// Feature names a group of derived columns owned by one pipeline step
type Feature string

const (
	FeatureAgeBins       Feature = "age_bins"
	FeatureWeekly        Feature = "weekly_transactions"
	FeatureArticleCounts Feature = "article_count"
	FeatureElapsedDays   Feature = "elapsed_days"
	FeaturePurchaseRate  Feature = "purchase_rate"
)

// Dataset holds every table a pipeline run reads, mutates and persists.
type Dataset struct {
	Transactions []Transaction
	Customers    []Customer
	Articles     []Article

	// Grouped is nil until the grouped-dataset step has run
	Grouped []GroupedRow

	// Derived records the features computed so far. Derived columns of a
	// feature missing here hold zero values and are exported as null.
	Derived map[Feature]bool
}

// MarkDerived records that the columns of f have been computed
func (d *Dataset) MarkDerived(f Feature) {
	if d.Derived == nil {
		d.Derived = make(map[Feature]bool)
	}
	d.Derived[f] = true
}

// HasFeature reports whether the columns of f have been computed
func (d *Dataset) HasFeature(f Feature) bool {
	return d.Derived[f]
}

// RowCounts reports the size of each table, keyed by table name.
func (d *Dataset) RowCounts() map[string]int {
	return map[string]int{
		TableTransactions: len(d.Transactions),
		TableCustomers:    len(d.Customers),
		TableArticles:     len(d.Articles),
		TableGrouped:      len(d.Grouped),
	}
}

// Table names used for file names, sheet names and SQL tables
const (
	TableTransactions = "transactions"
	TableCustomers    = "customers"
	TableArticles     = "articles"
	TableGrouped      = "grouped_data"
)
