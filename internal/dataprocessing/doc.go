// Package dataprocessing reads the raw transactions, customers and articles
// tables into typed rows.
//
// ReadTable picks a reader from the file extension: .csv, .csv.sz (snappy
// framed CSV) or .xlsx. The Parse* functions map header names to columns and
// convert cells, failing on the first malformed date or number with the
// path, line and column in the error context. Validator then checks the
// validate tags of the domain types and that customer_id and article_id are
// unique.
//
// Loader ties these together and reads the three tables concurrently:
//
//	loader := dataprocessing.NewLoader(dataprocessing.LoaderConfig{
//	    TransactionsPath: "raw/transactions_train.csv",
//	    CustomersPath:    "raw/customers.csv",
//	    ArticlesPath:     "raw/articles.csv",
//	}, logger, nil)
//	ds, err := loader.Load(ctx)
package dataprocessing
