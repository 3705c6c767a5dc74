package features

import (
	"fmt"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// Age bin labels in ascending order
const (
	AgeBinTeens    = "10-19"
	AgeBinTwenties = "20-29"
	AgeBinThirties = "30-39"
	AgeBinForties  = "40-49"
	AgeBinFifties  = "50-59"
	AgeBinSenior   = "60+"
)

// AgeBinLabels lists every age bin a customer can be assigned.
var AgeBinLabels = []string{AgeBinTeens, AgeBinTwenties, AgeBinThirties, AgeBinForties, AgeBinFifties, AgeBinSenior}

// ageBinEdges are left-inclusive bin edges; bin i is [edges[i], edges[i+1]).
var ageBinEdges = []float64{10, 19, 29, 39, 49, 59, 69}

const (
	minAdjustedAge = 10
	maxAdjustedAge = 60
)

// AdjustAge forces ages under 20 to 10 and ages of 60 and over to 60.
func AdjustAge(age float64) float64 {
	switch {
	case age < 20:
		return minAdjustedAge
	case age >= 60:
		return maxAdjustedAge
	default:
		return age
	}
}

// AgeBinFor returns the label of the bin holding an adjusted age.
// The clamped values 10 and 60 always map to the first and last bins.
func AgeBinFor(adjustedAge float64) (string, bool) {
	switch adjustedAge {
	case minAdjustedAge:
		return AgeBinTeens, true
	case maxAdjustedAge:
		return AgeBinSenior, true
	}
	for i := 0; i < len(AgeBinLabels); i++ {
		if adjustedAge >= ageBinEdges[i] && adjustedAge < ageBinEdges[i+1] {
			return AgeBinLabels[i], true
		}
	}
	return "", false
}

// CreateAgeBins sets AdjustedAge and AgeBin on every customer.
// Customers must have an age, so run HandleMissingValues first.
func CreateAgeBins(customers []domain.Customer) ([]domain.Customer, error) {
	for i := range customers {
		c := &customers[i]
		if c.Age == nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("customer %s has no age to bin", c.CustomerID), nil).
				WithContext("customer_id", c.CustomerID)
		}

		c.AdjustedAge = AdjustAge(*c.Age)
		bin, ok := AgeBinFor(c.AdjustedAge)
		if !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("adjusted age %.2f of customer %s is outside every age bin", c.AdjustedAge, c.CustomerID), nil)
		}
		c.AgeBin = bin
	}
	return customers, nil
}
