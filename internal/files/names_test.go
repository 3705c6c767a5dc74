package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vest top Black Solid", "Vest_top_Black_Solid"},
		{"T-shirt Light Pink All over pattern", "T-shirt_Light_Pink_All_over_pattern"},
		{"Bra/Bodysuit (set)", "Bra_Bodysuit__set_"},
		{"file.name.csv", "file.name.csv"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ProcessName(tt.in))
		})
	}
}
