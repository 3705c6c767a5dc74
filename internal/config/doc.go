// Package config provides configuration management for the feature pipeline.
//
// # Configuration Sources
//
// Configuration is built in three layers, later layers winning:
//
//	1. Default values from struct tags
//	2. Environment variables (FEATURES_*)
//	3. A YAML configuration file
//
// # Environment Variables
//
// Environment variables follow the pattern FEATURES_<SECTION>_<FIELD>:
//
//	FEATURES_PATHS_DATA_DIR=/srv/hm
//	FEATURES_PIPELINE_TOP_N=500
//	FEATURES_PIPELINE_REFERENCE_DATE=2020-09-22
//	FEATURES_OUTPUT_FORMATS=csv,sqlite
//	FEATURES_LOGGING_LEVEL=debug
//
// # Path Management
//
// ResolvePaths turns the configured directories into absolute paths:
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	in := paths.InputPath(cfg.Inputs.Transactions)
//	out := paths.OutputPath("transactions.csv")
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags and
// returns a CONFIG AppError on failure.
package config
