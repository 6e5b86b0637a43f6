package calculation

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RMDTable holds the age-indexed distribution divisors and the trigger-age
// rules for required minimum distributions. The values are regulatory
// reference data (IRS Uniform Lifetime Table III, SECURE 2.0 trigger ages),
// versioned by DataYear and loadable from YAML so updates never require a
// code change.
type RMDTable struct {
	DataYear int                     `yaml:"data_year"`
	Divisors map[int]decimal.Decimal `yaml:"divisors"`
	Triggers []RMDTriggerRule        `yaml:"triggers"`
	// MinimumDivisor applies to ages beyond the table's last entry.
	MinimumDivisor decimal.Decimal `yaml:"minimum_divisor"`
}

// RMDTriggerRule maps a birth-year range (up to and including MaxBirthYear)
// to the age at which RMDs begin. Rules are ordered by ascending
// MaxBirthYear; a zero MaxBirthYear marks the open-ended final rule.
type RMDTriggerRule struct {
	MaxBirthYear int `yaml:"max_birth_year"`
	Age          int `yaml:"age"`
}

// TriggerAge returns the age at which RMDs start for a given birth year.
func (t *RMDTable) TriggerAge(birthYear int) int {
	for _, rule := range t.Triggers {
		if rule.MaxBirthYear == 0 || birthYear <= rule.MaxBirthYear {
			return rule.Age
		}
	}
	// No open-ended rule configured; fall back to the last known age.
	if len(t.Triggers) > 0 {
		return t.Triggers[len(t.Triggers)-1].Age
	}
	return 73
}

// Required returns the minimum distribution for a tax-deferred balance at a
// given age, zero below the youngest tabulated age.
func (t *RMDTable) Required(taxDeferredBalance decimal.Decimal, age int) decimal.Decimal {
	if taxDeferredBalance.LessThanOrEqual(decimalZero) {
		return decimalZero
	}
	if divisor, ok := t.Divisors[age]; ok {
		return taxDeferredBalance.Div(divisor)
	}
	if age > t.maxTabulatedAge() {
		divisor := t.MinimumDivisor
		if divisor.LessThanOrEqual(decimalZero) {
			divisor = decimal.NewFromInt(2)
		}
		return taxDeferredBalance.Div(divisor)
	}
	return decimalZero
}

func (t *RMDTable) maxTabulatedAge() int {
	max := 0
	for age := range t.Divisors {
		if age > max {
			max = age
		}
	}
	return max
}

// LoadRMDTable reads a versioned RMD table from a YAML file.
func LoadRMDTable(filename string) (*RMDTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read RMD table %s: %w", filename, err)
	}
	var table RMDTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse RMD table: %w", err)
	}
	if len(table.Divisors) == 0 {
		return nil, fmt.Errorf("RMD table %s has no divisors", filename)
	}
	return &table, nil
}

// DefaultRMDTable returns the bundled reference data: IRS Publication 590-B
// Table III divisors and SECURE 2.0 Act trigger ages.
func DefaultRMDTable() *RMDTable {
	divisors := map[int]float64{
		72: 27.4, 73: 26.5, 74: 25.5, 75: 24.6, 76: 23.7,
		77: 22.9, 78: 22.0, 79: 21.1, 80: 20.2, 81: 19.4,
		82: 18.5, 83: 17.7, 84: 16.8, 85: 16.0, 86: 15.2,
		87: 14.4, 88: 13.7, 89: 12.9, 90: 12.2, 91: 11.5,
		92: 10.8, 93: 10.1, 94: 9.5, 95: 8.9, 96: 8.4,
		97: 7.8, 98: 7.3, 99: 6.8, 100: 6.4, 101: 6.0,
		102: 5.6, 103: 5.2, 104: 4.9, 105: 4.6, 106: 4.3,
		107: 4.1, 108: 3.9, 109: 3.7, 110: 3.5, 111: 3.4,
		112: 3.3, 113: 3.1, 114: 3.0, 115: 2.9, 116: 2.8,
		117: 2.7, 118: 2.5, 119: 2.3, 120: 2.0,
	}
	table := &RMDTable{
		DataYear:       2024,
		Divisors:       make(map[int]decimal.Decimal, len(divisors)),
		MinimumDivisor: decimal.NewFromInt(2),
		Triggers: []RMDTriggerRule{
			{MaxBirthYear: 1950, Age: 72},
			{MaxBirthYear: 1959, Age: 73},
			{MaxBirthYear: 0, Age: 75},
		},
	}
	for age, divisor := range divisors {
		table.Divisors[age] = decimal.NewFromFloat(divisor)
	}
	return table
}
