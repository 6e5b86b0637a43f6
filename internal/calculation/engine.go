package calculation

import (
	"github.com/shopspring/decimal"
)

// ProjectionBaseYear is the calendar year assigned to the first projected
// record when the input does not carry its own base year.
const ProjectionBaseYear = 2025

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalZero    = decimal.Zero
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
)

// ProjectionEngine orchestrates the balance projection and the analyzers
// built on top of it. Every entry point returns a deterministic function of
// its inputs and mutates nothing; concurrent invocations need no locking.
type ProjectionEngine struct {
	// Policy decides how a year's net cash need is drawn across balance
	// categories. Injectable so the cross-category ordering can change
	// without touching the simulator.
	Policy WithdrawalPolicy

	// RMDTable is versioned reference data; tax law changes yearly, so it is
	// swappable rather than baked in.
	RMDTable *RMDTable

	Logger Logger
}

// NewProjectionEngine creates an engine with the default taxable-first
// withdrawal policy and the bundled RMD reference table.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{
		Policy:   TaxableFirstPolicy{},
		RMDTable: DefaultRMDTable(),
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger for the engine. A nil logger installs a no-op.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// compound returns (1+rate)^years, treating non-positive years as 1.
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 {
		return decimalOne
	}
	return decimalOne.Add(rate).Pow(decimal.NewFromInt(int64(years)))
}
