// Package files resolves the files around a pipeline run.
//
// Discovery finds raw tables in any supported format and the product group
// model directories. FileValidator checks inputs and output directories
// before a run. ImageResolver enriches articles with the path of their image,
// and LoadBestHyperparameters reads the tuned parameters of one product
// group. Manager ties these to the resolved config.Paths.
//
// Example usage:
//
//	m := files.NewManager(paths, logger)
//	txPath, err := m.InputTable("transactions_train.csv")
//	m.Images().AddImagePaths(ds.Articles)
//	params, ok := m.Hyperparameters("Vest top Black Solid")
package files
