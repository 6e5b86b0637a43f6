package calculation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMDTriggerAges(t *testing.T) {
	table := DefaultRMDTable()

	tests := []struct {
		birthYear int
		expected  int
	}{
		{1945, 72},
		{1950, 72},
		{1951, 73},
		{1959, 73},
		{1960, 75},
		{1980, 75},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, table.TriggerAge(tt.birthYear), "birth year %d", tt.birthYear)
	}
}

func TestRMDRequired(t *testing.T) {
	table := DefaultRMDTable()
	balance := decimal.NewFromInt(500000)

	// Age 75 divisor is 24.6.
	required := table.Required(balance, 75)
	expected := balance.Div(decimal.NewFromFloat(24.6))
	assert.True(t, required.Equal(expected), "got %s, want %s", required, expected)

	// Below the youngest tabulated age there is no requirement.
	assert.True(t, table.Required(balance, 70).IsZero())

	// Beyond the table the minimum divisor applies.
	beyond := table.Required(balance, 125)
	assert.True(t, beyond.Equal(balance.Div(decimal.NewFromInt(2))))

	// Empty balances never require a distribution.
	assert.True(t, table.Required(decimal.Zero, 80).IsZero())
}

// Required can never exceed the balance itself: every divisor is at least 2.
func TestRMDNeverExceedsBalance(t *testing.T) {
	table := DefaultRMDTable()
	balance := decimal.NewFromInt(100000)
	for age := 72; age <= 120; age++ {
		required := table.Required(balance, age)
		assert.True(t, required.LessThanOrEqual(balance), "age %d", age)
	}
}

func TestLoadRMDTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rmd.yaml")
	content := `data_year: 2024
minimum_divisor: 2
divisors:
  73: 26.5
  74: 25.5
triggers:
  - max_birth_year: 1959
    age: 73
  - max_birth_year: 0
    age: 75
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	table, err := LoadRMDTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2024, table.DataYear)
	assert.Equal(t, 73, table.TriggerAge(1955))
	assert.Equal(t, 75, table.TriggerAge(1965))
	required := table.Required(decimal.NewFromInt(265000), 73)
	assert.True(t, required.Equal(decimal.NewFromInt(10000)), "got %s", required)
}

func TestLoadRMDTableErrors(t *testing.T) {
	_, err := LoadRMDTable("does-not-exist.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_year: 2024\n"), 0644))
	_, err = LoadRMDTable(path)
	assert.Error(t, err)
}
