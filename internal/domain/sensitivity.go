package domain

import "github.com/shopspring/decimal"

// LeverImpact is the measured effect of perturbing a single assumption while
// holding everything else at baseline.
type LeverImpact struct {
	Lever     string          `json:"lever"`
	Label     string          `json:"label"`
	Delta     decimal.Decimal `json:"delta"`
	Direction string          `json:"direction"` // "increase" or "decrease"
	Unit      string          `json:"unit"`      // "rate", "years" or "dollars"

	PerturbedBalance decimal.Decimal `json:"perturbedBalance"`
	ImpactOnBalance  decimal.Decimal `json:"impactOnBalance"`
	PercentImpact    decimal.Decimal `json:"percentImpact"`
}

// SensitivityResult holds the baseline outcome plus every lever's impact,
// ranked by absolute balance impact.
type SensitivityResult struct {
	BaselineBalance   decimal.Decimal `json:"baselineBalance"`
	BaselineDepletion *int            `json:"baselineDepletion"`
	Impacts           []LeverImpact   `json:"impacts"`
	TopLevers         []LeverImpact   `json:"topLevers"`
}

// LowFrictionWin flags a lever whose perturbation is small but whose effect
// on the outcome is material.
type LowFrictionWin struct {
	Lever         string          `json:"lever"`
	Label         string          `json:"label"`
	Delta         decimal.Decimal `json:"delta"`
	Unit          string          `json:"unit"`
	PercentImpact decimal.Decimal `json:"percentImpact"`
	Effort        string          `json:"effort"` // "minimal", "low" or "moderate"
}

// SensitiveAssumption maps a lever's impact to a 0-100 score for display.
type SensitiveAssumption struct {
	Lever         string          `json:"lever"`
	Label         string          `json:"label"`
	Score         int             `json:"score"`
	PercentImpact decimal.Decimal `json:"percentImpact"`
}
