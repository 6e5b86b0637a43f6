package config

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// Override range limits. Snapshots come from our own storage and are trusted;
// overrides come from request payloads and are not.
var (
	maxExpectedReturn = decimal.NewFromFloat(0.30)
	maxInflationRate  = decimal.NewFromFloat(0.10)
)

const (
	minOverrideRetirementAge = 30
	maxOverrideRetirementAge = 80
)

// Overrides carries per-request assumption changes layered over a snapshot.
// Nil fields keep the snapshot's value.
type Overrides struct {
	ExpectedReturn         *decimal.Decimal            `json:"expectedReturn,omitempty" yaml:"expected_return,omitempty"`
	InflationRate          *decimal.Decimal            `json:"inflationRate,omitempty" yaml:"inflation_rate,omitempty"`
	RetirementAge          *int                        `json:"retirementAge,omitempty" yaml:"retirement_age,omitempty"`
	ContributionGrowthRate *decimal.Decimal            `json:"contributionGrowthRate,omitempty" yaml:"contribution_growth_rate,omitempty"`
	AnnualContribution     *decimal.Decimal            `json:"annualContribution,omitempty" yaml:"annual_contribution,omitempty"`
	SpendingPhases         *domain.SpendingPhaseConfig `json:"spendingPhases,omitempty" yaml:"spending_phases,omitempty"`
	DepletionTarget        *domain.DepletionTarget     `json:"depletionTarget,omitempty" yaml:"depletion_target,omitempty"`
	Reserve                *domain.ReserveConfig       `json:"reserve,omitempty" yaml:"reserve,omitempty"`
}

// Validate range-checks the override payload before it touches a snapshot.
func (o *Overrides) Validate() error {
	if o == nil {
		return nil
	}
	if o.ExpectedReturn != nil {
		if o.ExpectedReturn.IsNegative() || o.ExpectedReturn.GreaterThan(maxExpectedReturn) {
			return fmt.Errorf("expectedReturn override must be between 0 and %s, got %s", maxExpectedReturn, o.ExpectedReturn)
		}
	}
	if o.InflationRate != nil {
		if o.InflationRate.IsNegative() || o.InflationRate.GreaterThan(maxInflationRate) {
			return fmt.Errorf("inflationRate override must be between 0 and %s, got %s", maxInflationRate, o.InflationRate)
		}
	}
	if o.RetirementAge != nil {
		if *o.RetirementAge < minOverrideRetirementAge || *o.RetirementAge > maxOverrideRetirementAge {
			return fmt.Errorf("retirementAge override must be between %d and %d, got %d", minOverrideRetirementAge, maxOverrideRetirementAge, *o.RetirementAge)
		}
	}
	if o.ContributionGrowthRate != nil && o.ContributionGrowthRate.IsNegative() {
		return fmt.Errorf("contributionGrowthRate override cannot be negative")
	}
	if o.AnnualContribution != nil && o.AnnualContribution.IsNegative() {
		return fmt.Errorf("annualContribution override cannot be negative")
	}
	if o.SpendingPhases != nil {
		if err := o.SpendingPhases.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// BuildProjectionInput converts a snapshot plus optional overrides into a
// validated ProjectionInput. This is the only place persisted data enters
// the engine; everything downstream may assume the input invariants hold.
func BuildProjectionInput(snapshot *FinancialSnapshot, overrides *Overrides) (*domain.ProjectionInput, error) {
	if err := overrides.Validate(); err != nil {
		return nil, fmt.Errorf("override validation failed: %w", err)
	}

	balances, err := snapshot.Balances()
	if err != nil {
		return nil, err
	}

	input := &domain.ProjectionInput{
		CurrentAge:              snapshot.CurrentAge,
		RetirementAge:           snapshot.RetirementAge,
		MaxAge:                  snapshot.MaxAge,
		BaseYear:                snapshot.BaseYear,
		Balances:                balances,
		AnnualContribution:      snapshot.AnnualContribution,
		ContributionAllocation:  snapshot.ContributionAllocation,
		ExpectedReturn:          snapshot.ExpectedReturn,
		InflationRate:           snapshot.InflationRate,
		ContributionGrowthRate:  snapshot.ContributionGrowthRate,
		AnnualExpenses:          snapshot.AnnualExpenses,
		EssentialExpenses:       snapshot.EssentialExpenses,
		DiscretionaryExpenses:   snapshot.DiscretionaryExpenses,
		SpendingPhases:          snapshot.SpendingPhases,
		AnnualHealthcareCosts:   snapshot.AnnualHealthcareCosts,
		HealthcareInflationRate: snapshot.HealthcareInflationRate,
		AnnualDebtPayments:      snapshot.AnnualDebtPayments,
		DepletionTarget:         snapshot.DepletionTarget,
		Reserve:                 snapshot.Reserve,
	}

	// Snapshots with no allocation default to fully tax-deferred, the common
	// employer-plan case.
	if input.ContributionAllocation.Sum().IsZero() {
		input.ContributionAllocation = domain.ContributionAllocation{TaxDeferred: decimal.NewFromInt(100)}
	}

	input.IncomeStreams = normalizeStreams(snapshot.IncomeStreams)

	if overrides != nil {
		applyOverrides(input, overrides)
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}
	return input, nil
}

// normalizeStreams copies the snapshot's streams, assigning ids where the
// snapshot lacks them and forcing the guaranteed flag on stream types that
// are guaranteed by definition.
func normalizeStreams(streams []domain.IncomeStream) []domain.IncomeStream {
	if len(streams) == 0 {
		return nil
	}
	out := make([]domain.IncomeStream, len(streams))
	copy(out, streams)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
		if out[i].Type.GuaranteedByDefault() {
			out[i].IsGuaranteed = true
		}
	}
	return out
}

func applyOverrides(input *domain.ProjectionInput, o *Overrides) {
	if o.ExpectedReturn != nil {
		input.ExpectedReturn = *o.ExpectedReturn
	}
	if o.InflationRate != nil {
		input.InflationRate = *o.InflationRate
	}
	if o.RetirementAge != nil {
		input.RetirementAge = *o.RetirementAge
	}
	if o.ContributionGrowthRate != nil {
		input.ContributionGrowthRate = *o.ContributionGrowthRate
	}
	if o.AnnualContribution != nil {
		input.AnnualContribution = *o.AnnualContribution
	}
	if o.SpendingPhases != nil {
		input.SpendingPhases = o.SpendingPhases
	}
	if o.DepletionTarget != nil {
		input.DepletionTarget = o.DepletionTarget
	}
	if o.Reserve != nil {
		input.Reserve = o.Reserve
	}
}
