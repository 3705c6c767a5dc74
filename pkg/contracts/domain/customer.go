package domain

// Club member and fashion news values with special meaning in the pipeline
const (
	FashionNewsNone      = "None"
	FashionNewsRegularly = "Regularly"

	ClubMemberActive    = "ACTIVE"
	ClubMemberNonActive = "NON-ACTIVE"
)

// Customer is one row of the customers table.
// Pointer fields are nullable in the source data and remain nil until the
// missing-value normalizer fills them.
type Customer struct {
	CustomerID           string   `json:"customer_id" csv:"customer_id" validate:"required"`
	Age                  *float64 `json:"age" csv:"age" validate:"omitempty,gte=0"`
	FN                   *float64 `json:"FN" csv:"FN"`
	Active               *float64 `json:"Active" csv:"Active"`
	FashionNewsFrequency *string  `json:"fashion_news_frequency" csv:"fashion_news_frequency"`
	ClubMemberStatus     *string  `json:"club_member_status" csv:"club_member_status"`

	AdjustedAge float64 `json:"adjusted_age" csv:"adjusted_age"`
	AgeBin      string  `json:"age_bin" csv:"age_bin"`
}

// CustomerColumns lists the raw columns read from the customers table.
var CustomerColumns = []string{"customer_id", "age", "FN", "Active", "fashion_news_frequency", "club_member_status"}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
