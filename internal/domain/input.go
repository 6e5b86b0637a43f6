package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// BalancesByType splits a portfolio across the three tax treatment categories.
type BalancesByType struct {
	TaxDeferred decimal.Decimal `json:"taxDeferred" yaml:"tax_deferred"`
	TaxFree     decimal.Decimal `json:"taxFree" yaml:"tax_free"`
	Taxable     decimal.Decimal `json:"taxable" yaml:"taxable"`
}

// Total returns the combined balance across all categories.
func (b BalancesByType) Total() decimal.Decimal {
	return b.TaxDeferred.Add(b.TaxFree).Add(b.Taxable)
}

// Add returns the category-wise sum of two balance sets.
func (b BalancesByType) Add(other BalancesByType) BalancesByType {
	return BalancesByType{
		TaxDeferred: b.TaxDeferred.Add(other.TaxDeferred),
		TaxFree:     b.TaxFree.Add(other.TaxFree),
		Taxable:     b.Taxable.Add(other.Taxable),
	}
}

// Grow applies an annual growth rate to each category independently.
// Category-level growth keeps the door open for per-category return
// assumptions later; all categories currently share one rate.
func (b BalancesByType) Grow(rate decimal.Decimal) BalancesByType {
	factor := decimal.NewFromInt(1).Add(rate)
	return BalancesByType{
		TaxDeferred: b.TaxDeferred.Mul(factor),
		TaxFree:     b.TaxFree.Mul(factor),
		Taxable:     b.Taxable.Mul(factor),
	}
}

// IsDepleted returns true when no category holds a positive balance.
func (b BalancesByType) IsDepleted() bool {
	return b.Total().LessThanOrEqual(decimal.Zero)
}

// ContributionAllocation describes how annual contributions are split across
// categories, as whole percentages that must sum to exactly 100.
type ContributionAllocation struct {
	TaxDeferred decimal.Decimal `json:"taxDeferred" yaml:"tax_deferred"`
	TaxFree     decimal.Decimal `json:"taxFree" yaml:"tax_free"`
	Taxable     decimal.Decimal `json:"taxable" yaml:"taxable"`
}

// Sum returns the total of the three allocation percentages.
func (ca ContributionAllocation) Sum() decimal.Decimal {
	return ca.TaxDeferred.Add(ca.TaxFree).Add(ca.Taxable)
}

// Split divides a contribution amount across categories per the allocation.
func (ca ContributionAllocation) Split(amount decimal.Decimal) BalancesByType {
	hundred := decimal.NewFromInt(100)
	return BalancesByType{
		TaxDeferred: amount.Mul(ca.TaxDeferred).Div(hundred),
		TaxFree:     amount.Mul(ca.TaxFree).Div(hundred),
		Taxable:     amount.Mul(ca.Taxable).Div(hundred),
	}
}

// ProjectionInput is the immutable per-run snapshot the simulator consumes.
// Callers build it once (see internal/config) and the engine never mutates it.
type ProjectionInput struct {
	CurrentAge    int `json:"currentAge" yaml:"current_age"`
	RetirementAge int `json:"retirementAge" yaml:"retirement_age"`
	MaxAge        int `json:"maxAge" yaml:"max_age"`
	// BaseYear is the calendar year of the first projected record. Zero means
	// "use the engine's projection base year".
	BaseYear int `json:"baseYear,omitempty" yaml:"base_year,omitempty"`

	Balances               BalancesByType         `json:"balances" yaml:"balances"`
	AnnualContribution     decimal.Decimal        `json:"annualContribution" yaml:"annual_contribution"`
	ContributionAllocation ContributionAllocation `json:"contributionAllocation" yaml:"contribution_allocation"`

	ExpectedReturn         decimal.Decimal `json:"expectedReturn" yaml:"expected_return"`
	InflationRate          decimal.Decimal `json:"inflationRate" yaml:"inflation_rate"`
	ContributionGrowthRate decimal.Decimal `json:"contributionGrowthRate" yaml:"contribution_growth_rate"`

	// EssentialExpenses and DiscretionaryExpenses are annual amounts in
	// retirement-age dollars. AnnualExpenses is a convenience total used when
	// the split is not provided; it is treated as fully essential.
	AnnualExpenses        decimal.Decimal `json:"annualExpenses" yaml:"annual_expenses"`
	EssentialExpenses     decimal.Decimal `json:"essentialExpenses" yaml:"essential_expenses"`
	DiscretionaryExpenses decimal.Decimal `json:"discretionaryExpenses" yaml:"discretionary_expenses"`

	SpendingPhases *SpendingPhaseConfig `json:"spendingPhases,omitempty" yaml:"spending_phases,omitempty"`

	AnnualHealthcareCosts   decimal.Decimal `json:"annualHealthcareCosts" yaml:"annual_healthcare_costs"`
	HealthcareInflationRate decimal.Decimal `json:"healthcareInflationRate" yaml:"healthcare_inflation_rate"`

	IncomeStreams      []IncomeStream  `json:"incomeStreams" yaml:"income_streams"`
	AnnualDebtPayments decimal.Decimal `json:"annualDebtPayments" yaml:"annual_debt_payments"`

	DepletionTarget *DepletionTarget `json:"depletionTarget,omitempty" yaml:"depletion_target,omitempty"`
	Reserve         *ReserveConfig   `json:"reserve,omitempty" yaml:"reserve,omitempty"`
}

// ProjectionAssumptions is the human-readable subset of the input persisted
// alongside results for narrative generation and staleness comparison.
type ProjectionAssumptions struct {
	ExpectedReturn          decimal.Decimal `json:"expectedReturn"`
	InflationRate           decimal.Decimal `json:"inflationRate"`
	HealthcareInflationRate decimal.Decimal `json:"healthcareInflationRate"`
	ContributionGrowthRate  decimal.Decimal `json:"contributionGrowthRate"`
	RetirementAge           int             `json:"retirementAge"`
	MaxAge                  int             `json:"maxAge"`
}

// Assumptions extracts the persisted assumption subset.
func (in *ProjectionInput) Assumptions() ProjectionAssumptions {
	return ProjectionAssumptions{
		ExpectedReturn:          in.ExpectedReturn,
		InflationRate:           in.InflationRate,
		HealthcareInflationRate: in.HealthcareInflationRate,
		ContributionGrowthRate:  in.ContributionGrowthRate,
		RetirementAge:           in.RetirementAge,
		MaxAge:                  in.MaxAge,
	}
}

// BaselineEssentialExpenses returns the essential portion of annual spending
// in retirement-age dollars. When no essential/discretionary split is given,
// the flat annual expense total is treated as fully essential.
func (in *ProjectionInput) BaselineEssentialExpenses() decimal.Decimal {
	if in.EssentialExpenses.IsZero() && in.DiscretionaryExpenses.IsZero() {
		return in.AnnualExpenses
	}
	return in.EssentialExpenses
}

// BaselineDiscretionaryExpenses returns the discretionary portion of annual
// spending in retirement-age dollars.
func (in *ProjectionInput) BaselineDiscretionaryExpenses() decimal.Decimal {
	return in.DiscretionaryExpenses
}

// Validate checks the invariants the simulator assumes. It returns a typed
// *ValidationError naming the first violated invariant, so HTTP callers can
// map failures to 400-level responses.
func (in *ProjectionInput) Validate() error {
	if in.CurrentAge <= 0 {
		return NewValidationError("currentAge", "must be positive")
	}
	if in.CurrentAge >= in.RetirementAge {
		return NewValidationError("retirementAge", "must be greater than currentAge")
	}
	if in.RetirementAge > in.MaxAge {
		return NewValidationError("maxAge", "must be greater than or equal to retirementAge")
	}
	if !in.ContributionAllocation.Sum().Equal(decimal.NewFromInt(100)) {
		return NewValidationError("contributionAllocation", "percentages must sum to exactly 100, got "+in.ContributionAllocation.Sum().String())
	}
	if in.Balances.TaxDeferred.IsNegative() || in.Balances.TaxFree.IsNegative() || in.Balances.Taxable.IsNegative() {
		return NewValidationError("balances", "category balances cannot be negative")
	}
	if in.AnnualContribution.IsNegative() {
		return NewValidationError("annualContribution", "cannot be negative")
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"expectedReturn", in.ExpectedReturn},
		{"inflationRate", in.InflationRate},
		{"contributionGrowthRate", in.ContributionGrowthRate},
		{"healthcareInflationRate", in.HealthcareInflationRate},
	} {
		if f.value.IsNegative() {
			return NewValidationError(f.name, "rate cannot be negative")
		}
	}
	if in.AnnualExpenses.IsNegative() || in.EssentialExpenses.IsNegative() || in.DiscretionaryExpenses.IsNegative() {
		return NewValidationError("annualExpenses", "expense amounts cannot be negative")
	}
	if in.AnnualHealthcareCosts.IsNegative() {
		return NewValidationError("annualHealthcareCosts", "cannot be negative")
	}
	if in.AnnualDebtPayments.IsNegative() {
		return NewValidationError("annualDebtPayments", "cannot be negative")
	}
	for i, stream := range in.IncomeStreams {
		if err := stream.Validate(); err != nil {
			return NewValidationError("incomeStreams", "stream %d (%s): %v", i, stream.Name, err)
		}
	}
	if in.SpendingPhases != nil {
		if err := in.SpendingPhases.Validate(); err != nil {
			return err
		}
	}
	if in.DepletionTarget != nil {
		if err := in.DepletionTarget.Validate(in.MaxAge); err != nil {
			return err
		}
	}
	if in.Reserve != nil {
		if err := in.Reserve.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns a stable content hash of the input, suitable as a cache key
// for downstream consumers. Income streams are sorted by id before encoding
// so the hash is independent of their order in the slice.
func (in *ProjectionInput) Hash() (string, error) {
	normalized := *in
	if len(in.IncomeStreams) > 0 {
		streams := make([]IncomeStream, len(in.IncomeStreams))
		copy(streams, in.IncomeStreams)
		sort.Slice(streams, func(i, j int) bool { return streams[i].ID < streams[j].ID })
		normalized.IncomeStreams = streams
	}
	data, err := json.Marshal(&normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
