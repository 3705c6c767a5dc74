package features

import (
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// MedianAge returns the median of all non-null customer ages and false when
// no customer has an age.
func MedianAge(customers []domain.Customer) (float64, bool) {
	ages := make([]float64, 0, len(customers))
	for _, c := range customers {
		if c.Age != nil {
			ages = append(ages, *c.Age)
		}
	}
	if len(ages) == 0 {
		return 0, false
	}
	return Median(ages), true
}

// HandleMissingValues fills FN, Active, fashion_news_frequency, age and
// club_member_status in place. Existing values are left untouched.
//
// The age fill is the median over customers that had an age before this call.
// club_member_status is only derived when missing: ACTIVE for customers who
// read the fashion news regularly, NON-ACTIVE otherwise.
func HandleMissingValues(customers []domain.Customer) []domain.Customer {
	medianAge, hasMedian := MedianAge(customers)

	for i := range customers {
		c := &customers[i]

		if c.FN == nil {
			c.FN = domain.Float64Ptr(0)
		}
		if c.Active == nil {
			c.Active = domain.Float64Ptr(0)
		}
		if c.FashionNewsFrequency == nil {
			c.FashionNewsFrequency = domain.StringPtr(domain.FashionNewsNone)
		}
		if c.Age == nil && hasMedian {
			c.Age = domain.Float64Ptr(medianAge)
		}
		if c.ClubMemberStatus == nil {
			status := domain.ClubMemberNonActive
			if *c.FashionNewsFrequency == domain.FashionNewsRegularly {
				status = domain.ClubMemberActive
			}
			c.ClubMemberStatus = domain.StringPtr(status)
		}
	}

	return customers
}
