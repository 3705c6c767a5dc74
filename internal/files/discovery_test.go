package files

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery_ResolveTable(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "raw", "customers.csv"), "customer_id\n")
	writeFile(t, filepath.Join(base, "raw", "articles.xlsx"), "x")
	writeFile(t, filepath.Join(base, "raw", "transactions_train.csv.sz"), "x")

	d := NewDiscovery(base)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"customers.csv", "customers.csv", false},
		{"articles.csv", "articles.xlsx", false},
		{"transactions_train.csv", "transactions_train.csv.sz", false},
		{"customers", "customers.csv", false},
		{"missing.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.ResolveTable("raw", tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(base, "raw", tt.want), got)
		})
	}

	abs, err := d.ResolveTable(filepath.Join(base, "raw"), "customers.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "raw", "customers.csv"), abs)
}

func TestDiscovery_FindTables(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "b.csv"), "x")
	writeFile(t, filepath.Join(base, "a.xlsx"), "x")
	writeFile(t, filepath.Join(base, "c.csv.sz"), "x")
	writeFile(t, filepath.Join(base, "~$a.xlsx"), "x")
	writeFile(t, filepath.Join(base, "notes.txt"), "x")
	writeFile(t, filepath.Join(base, "sub", "d.csv"), "x")

	files, err := NewDiscovery(base).FindTables(".")
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.xlsx", "b.csv", "c.csv.sz"}, names)

	_, err = NewDiscovery(base).FindTables("nope")
	assert.Error(t, err)
}

func TestDiscovery_FindModelGroups(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "Vest_top_Black_Solid", HyperparametersFile), "a\n1\n")
	writeFile(t, filepath.Join(base, "Sweater_Grey_Melange", "model.pkl"), "x")
	writeFile(t, filepath.Join(base, "Bra_Black_Solid", HyperparametersFile), "a\n1\n")
	writeFile(t, filepath.Join(base, "stray.csv"), "x")

	groups, err := NewDiscovery(base).FindModelGroups(".")
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Bra_Black_Solid", groups[0].Name)
	assert.Equal(t, "Vest_top_Black_Solid", groups[1].Name)
	assert.True(t, groups[0].IsDir)
}
