package features

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

func TestCreateAgeBins(t *testing.T) {
	tests := []struct {
		age          float64
		wantAdjusted float64
		wantBin      string
	}{
		{age: 15, wantAdjusted: 10, wantBin: AgeBinTeens},
		{age: 19.5, wantAdjusted: 10, wantBin: AgeBinTeens},
		{age: 20, wantAdjusted: 20, wantBin: AgeBinTwenties},
		{age: 28, wantAdjusted: 28, wantBin: AgeBinTwenties},
		{age: 29, wantAdjusted: 29, wantBin: AgeBinThirties},
		{age: 45, wantAdjusted: 45, wantBin: AgeBinForties},
		{age: 58.5, wantAdjusted: 58.5, wantBin: AgeBinFifties},
		{age: 59, wantAdjusted: 59, wantBin: AgeBinSenior},
		{age: 60, wantAdjusted: 60, wantBin: AgeBinSenior},
		{age: 65, wantAdjusted: 60, wantBin: AgeBinSenior},
		{age: 99, wantAdjusted: 60, wantBin: AgeBinSenior},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("age %v", tt.age), func(t *testing.T) {
			customers, err := CreateAgeBins([]domain.Customer{{CustomerID: "c", Age: domain.Float64Ptr(tt.age)}})
			require.NoError(t, err)
			require.Len(t, customers, 1)

			assert.Equal(t, tt.wantAdjusted, customers[0].AdjustedAge)
			assert.Equal(t, tt.wantBin, customers[0].AgeBin)
			assert.Contains(t, AgeBinLabels, customers[0].AgeBin)
			assert.GreaterOrEqual(t, customers[0].AdjustedAge, 10.0)
			assert.LessOrEqual(t, customers[0].AdjustedAge, 60.0)
		})
	}
}

func TestCreateAgeBins_MissingAge(t *testing.T) {
	_, err := CreateAgeBins([]domain.Customer{
		{CustomerID: "c1", Age: domain.Float64Ptr(30)},
		{CustomerID: "c2"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	assert.Contains(t, err.Error(), "c2")
}

func TestAgeBinFor_OutOfRange(t *testing.T) {
	_, ok := AgeBinFor(5)
	assert.False(t, ok)
	_, ok = AgeBinFor(75)
	assert.False(t, ok)
}
