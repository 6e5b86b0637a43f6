package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// IncomeStreamType classifies a named income stream.
type IncomeStreamType string

const (
	IncomeSocialSecurity IncomeStreamType = "social_security"
	IncomePension        IncomeStreamType = "pension"
	IncomeRental         IncomeStreamType = "rental"
	IncomeAnnuity        IncomeStreamType = "annuity"
	IncomePartTime       IncomeStreamType = "part_time"
	IncomeOther          IncomeStreamType = "other"
)

// GuaranteedByDefault reports whether a stream type counts as guaranteed
// (non-market) income unless explicitly overridden.
func (t IncomeStreamType) GuaranteedByDefault() bool {
	return t == IncomeSocialSecurity || t == IncomePension
}

// IncomeStream is a named source of annual income with an age window.
type IncomeStream struct {
	ID           string           `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	Type         IncomeStreamType `json:"type" yaml:"type"`
	AnnualAmount decimal.Decimal  `json:"annualAmount" yaml:"annual_amount"`
	StartAge     int              `json:"startAge" yaml:"start_age"`
	// EndAge is inclusive; nil means the stream never ends.
	EndAge            *int `json:"endAge,omitempty" yaml:"end_age,omitempty"`
	InflationAdjusted bool `json:"inflationAdjusted" yaml:"inflation_adjusted"`
	IsGuaranteed      bool `json:"isGuaranteed" yaml:"is_guaranteed"`
	IsSpouse          bool `json:"isSpouse,omitempty" yaml:"is_spouse,omitempty"`
}

// AppliesAt reports whether the stream pays out at the given age.
func (s *IncomeStream) AppliesAt(age int) bool {
	if age < s.StartAge {
		return false
	}
	return s.EndAge == nil || age <= *s.EndAge
}

// AmountAt returns the stream's payout at the given age. Inflation-adjusted
// streams compound from their start age; non-COLA streams stay nominal, so
// real-dollar erosion over time is intentional.
func (s *IncomeStream) AmountAt(age int, inflationRate decimal.Decimal) decimal.Decimal {
	if !s.AppliesAt(age) {
		return decimal.Zero
	}
	if !s.InflationAdjusted {
		return s.AnnualAmount
	}
	factor := decimal.NewFromInt(1).Add(inflationRate).Pow(decimal.NewFromInt(int64(age - s.StartAge)))
	return s.AnnualAmount.Mul(factor)
}

// Validate checks structural invariants on a single stream.
func (s *IncomeStream) Validate() error {
	if s.AnnualAmount.IsNegative() {
		return fmt.Errorf("annual amount cannot be negative")
	}
	if s.StartAge <= 0 {
		return fmt.Errorf("start age must be positive")
	}
	if s.EndAge != nil && *s.EndAge < s.StartAge {
		return fmt.Errorf("end age %d is before start age %d", *s.EndAge, s.StartAge)
	}
	return nil
}

// SpendingPhase adjusts essential/discretionary spending from a start age
// onward, either by multiplier or by absolute override.
type SpendingPhase struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	StartAge int    `json:"startAge" yaml:"start_age"`
	// Multipliers scale the baseline; nil leaves the baseline unchanged.
	// Zero is a real value and eliminates the category for the phase.
	EssentialMultiplier     *decimal.Decimal `json:"essentialMultiplier,omitempty" yaml:"essential_multiplier,omitempty"`
	DiscretionaryMultiplier *decimal.Decimal `json:"discretionaryMultiplier,omitempty" yaml:"discretionary_multiplier,omitempty"`
	// Absolute overrides replace the baseline (retirement-age dollars) before
	// inflation is applied.
	EssentialOverride     *decimal.Decimal `json:"essentialOverride,omitempty" yaml:"essential_override,omitempty"`
	DiscretionaryOverride *decimal.Decimal `json:"discretionaryOverride,omitempty" yaml:"discretionary_override,omitempty"`
}

// SpendingPhaseConfig enables multi-phase spending ("Go-Go/Slow-Go/No-Go").
// Phases are kept in ascending start-age order with unique start ages.
type SpendingPhaseConfig struct {
	Enabled bool            `json:"enabled" yaml:"enabled"`
	Phases  []SpendingPhase `json:"phases" yaml:"phases"`
}

// MaxSpendingPhases bounds how many phases a plan may define.
const MaxSpendingPhases = 4

// Validate checks the phase schedule invariants.
func (c *SpendingPhaseConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.Phases) < 1 || len(c.Phases) > MaxSpendingPhases {
		return NewValidationError("spendingPhases", "must define between 1 and %d phases, got %d", MaxSpendingPhases, len(c.Phases))
	}
	for i, phase := range c.Phases {
		if phase.StartAge <= 0 {
			return NewValidationError("spendingPhases", "phase %q start age must be positive", phase.Name)
		}
		if i > 0 && phase.StartAge <= c.Phases[i-1].StartAge {
			return NewValidationError("spendingPhases", "phase start ages must be strictly ascending and unique")
		}
		if (phase.EssentialMultiplier != nil && phase.EssentialMultiplier.IsNegative()) ||
			(phase.DiscretionaryMultiplier != nil && phase.DiscretionaryMultiplier.IsNegative()) {
			return NewValidationError("spendingPhases", "phase %q multipliers cannot be negative", phase.Name)
		}
	}
	return nil
}

// PhaseAt returns the phase in effect at the given age, or nil when no phase
// applies (config disabled or age before the first phase).
func (c *SpendingPhaseConfig) PhaseAt(age int) *SpendingPhase {
	if c == nil || !c.Enabled {
		return nil
	}
	var current *SpendingPhase
	for i := range c.Phases {
		if c.Phases[i].StartAge <= age {
			current = &c.Phases[i]
		}
	}
	return current
}

// ReserveMode selects how the protected reserve amount is derived.
type ReserveMode string

const (
	// ReserveModeDerived protects the portfolio share left unspent by the
	// depletion target (100 − targetPercentageSpent).
	ReserveModeDerived ReserveMode = "derived"
	// ReserveModePercentage protects a custom percentage of the portfolio.
	ReserveModePercentage ReserveMode = "percentage"
	// ReserveModeAbsolute protects a fixed dollar floor.
	ReserveModeAbsolute ReserveMode = "absolute"
)

// DepletionTarget expresses an intent to spend a percentage of the current
// portfolio by a target age.
type DepletionTarget struct {
	TargetPercentageSpent decimal.Decimal `json:"targetPercentageSpent" yaml:"target_percentage_spent"`
	TargetAge             int             `json:"targetAge" yaml:"target_age"`
}

// Validate checks the target against the projection horizon.
func (dt *DepletionTarget) Validate(maxAge int) error {
	if dt.TargetPercentageSpent.IsNegative() || dt.TargetPercentageSpent.GreaterThan(decimal.NewFromInt(100)) {
		return NewValidationError("depletionTarget", "targetPercentageSpent must be between 0 and 100")
	}
	if dt.TargetAge <= 0 || dt.TargetAge > maxAge {
		return NewValidationError("depletionTarget", "targetAge must be within the projection horizon")
	}
	return nil
}

// ReserveConfig describes the reserve protection policy.
type ReserveConfig struct {
	Mode       ReserveMode     `json:"mode" yaml:"mode"`
	Percentage decimal.Decimal `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty" yaml:"amount,omitempty"`
	// Purposes tags what the reserve protects against, e.g. "long-term-care".
	Purposes []string `json:"purposes,omitempty" yaml:"purposes,omitempty"`
}

// Validate checks the reserve policy fields for the selected mode.
func (rc *ReserveConfig) Validate() error {
	switch rc.Mode {
	case ReserveModeDerived:
	case ReserveModePercentage:
		if rc.Percentage.IsNegative() || rc.Percentage.GreaterThan(decimal.NewFromInt(100)) {
			return NewValidationError("reserve", "percentage must be between 0 and 100")
		}
	case ReserveModeAbsolute:
		if rc.Amount.IsNegative() {
			return NewValidationError("reserve", "amount cannot be negative")
		}
	default:
		return NewValidationError("reserve", "mode must be 'derived', 'percentage' or 'absolute'")
	}
	return nil
}
