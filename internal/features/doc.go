// Package features implements the feature-engineering transforms applied to the
// retail customer, article and transaction tables.
//
// Every transform takes whole in-memory tables, enriches them in place and
// returns them so calls can be chained. The transforms are pure: they never
// read the clock or the filesystem, so a fixed reference date and fixed inputs
// always give identical outputs.
//
// # Pipeline order
//
//	HandleMissingValues -> CreateAgeBins -> WeeklyAggregation / GroupArticles
//	-> CalculateElapsedDays -> PurchaseRatePerArticle -> CreateGroupedData
//	-> TopProductGroups
//
// # Modeling choices
//
// Two behaviours are deliberate and covered by tests:
//
//   - A mode over a group picks the smallest tied value (numeric order for
//     sales channels, lexicographic for age bins). An empty group reports
//     "Unknown".
//   - purchase_rate is the unweighted mean of an article's per-age-bin purchase
//     shares over the bins that article was actually bought in. Customers with
//     no age bin form their own bucket.
package features
