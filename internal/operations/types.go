package operations

import (
	"time"
)

// Pipeline step identifiers
const (
	StepIDLoad          = "load"
	StepIDNormalize     = "normalize_customers"
	StepIDAgeBins       = "age_bins"
	StepIDWeekly        = "weekly_aggregation"
	StepIDArticleGroups = "article_groups"
	StepIDImagePaths    = "image_paths"
	StepIDElapsedDays   = "elapsed_days"
	StepIDPurchaseRate  = "purchase_rate"
	StepIDGrouped       = "grouped_data"
	StepIDTopGroups     = "top_groups"
	StepIDExport        = "export"
)

// Pipeline step names
const (
	StepNameLoad          = "Load Raw Tables"
	StepNameNormalize     = "Missing-Value Normalization"
	StepNameAgeBins       = "Age Binning"
	StepNameWeekly        = "Weekly Aggregation"
	StepNameArticleGroups = "Article Grouping"
	StepNameImagePaths    = "Image Path Resolution"
	StepNameElapsedDays   = "Elapsed-Time Calculation"
	StepNamePurchaseRate  = "Purchase-Rate Estimation"
	StepNameGrouped       = "Grouped Dataset"
	StepNameTopGroups     = "Top-N Product Groups"
	StepNameExport        = "Export"
)

// Context keys for operation state
const (
	ContextKeyImagesFound     = "images_found"
	ContextKeyMedianAge       = "median_age"
	ContextKeyGroupsKept      = "groups_kept"
	ContextKeyGroupsAvailable = "groups_available"
	ContextKeyTopN            = "top_n"
)

// OperationRequest represents a request to execute the pipeline
type OperationRequest struct {
	ID string `json:"id"`

	// ReferenceDate anchors the elapsed-day features
	ReferenceDate time.Time `json:"reference_date"`

	// Steps restricts the run to these step IDs and their dependencies;
	// empty runs every registered step
	Steps []string `json:"steps,omitempty"`

	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// OperationResponse represents the response from a pipeline run
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    []StepSummary         `json:"steps"`
	Rows     map[string]int        `json:"rows,omitempty"`
	Outputs  []string              `json:"outputs,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// StepSummary is the reported outcome of one step
type StepSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Rows     int           `json:"rows"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
}
