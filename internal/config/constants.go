package config

// Application constants
const (
	AppName = "featurize"

	DateLayout = "2006-01-02"

	DefaultTopN     = 800
	DefaultLogLevel = "info"

	// Directories, relative to the data directory
	DefaultDataDir   = "data"
	DefaultInputDir  = "raw"
	DefaultOutputDir = "processed"
	DefaultImagesDir = "images"
	DefaultModelsDir = "models"
	DefaultLogsDir   = "logs"

	// HyperparametersFile is looked up in each product group's model directory
	HyperparametersFile = "best_hyperparameters.csv"
)

// Output formats
const (
	FormatCSV    = "csv"
	FormatXLSX   = "xlsx"
	FormatSQLite = "sqlite"
	FormatArrow  = "arrow"
)
