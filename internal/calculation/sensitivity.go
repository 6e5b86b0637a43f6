package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// lever is one perturbable assumption. Levers are evaluated one at a time
// against an unchanged baseline; there are no combined perturbations.
type lever struct {
	name      string
	label     string
	delta     decimal.Decimal
	direction string
	unit      string
	effort    string
	apply     func(*domain.ProjectionInput)
}

// levers returns the fixed perturbation set, in a stable declaration order
// that doubles as the tie-break when two levers have equal impact.
func levers() []lever {
	return []lever{
		{
			name:      "expectedReturn",
			label:     "Expected annual return",
			delta:     decimal.NewFromFloat(0.01),
			direction: "increase",
			unit:      "rate",
			effort:    "moderate",
			apply: func(in *domain.ProjectionInput) {
				in.ExpectedReturn = in.ExpectedReturn.Add(decimal.NewFromFloat(0.01))
			},
		},
		{
			name:      "inflationRate",
			label:     "Inflation rate",
			delta:     decimal.NewFromFloat(-0.01),
			direction: "decrease",
			unit:      "rate",
			effort:    "moderate",
			apply: func(in *domain.ProjectionInput) {
				in.InflationRate = in.InflationRate.Sub(decimal.NewFromFloat(0.01))
			},
		},
		{
			name:      "retirementAge",
			label:     "Retirement age",
			delta:     decimal.NewFromInt(1),
			direction: "increase",
			unit:      "years",
			effort:    "low",
			apply: func(in *domain.ProjectionInput) {
				in.RetirementAge++
			},
		},
		{
			name:      "contributionGrowthRate",
			label:     "Contribution growth rate",
			delta:     decimal.NewFromFloat(0.01),
			direction: "increase",
			unit:      "rate",
			effort:    "minimal",
			apply: func(in *domain.ProjectionInput) {
				in.ContributionGrowthRate = in.ContributionGrowthRate.Add(decimal.NewFromFloat(0.01))
			},
		},
		{
			name:      "healthcareInflationRate",
			label:     "Healthcare inflation rate",
			delta:     decimal.NewFromFloat(-0.01),
			direction: "decrease",
			unit:      "rate",
			effort:    "moderate",
			apply: func(in *domain.ProjectionInput) {
				in.HealthcareInflationRate = in.HealthcareInflationRate.Sub(decimal.NewFromFloat(0.01))
			},
		},
		{
			name:      "annualHealthcareCosts",
			label:     "Annual healthcare costs",
			delta:     decimal.NewFromInt(-2400),
			direction: "decrease",
			unit:      "dollars",
			effort:    "low",
			apply: func(in *domain.ProjectionInput) {
				in.AnnualHealthcareCosts = in.AnnualHealthcareCosts.Sub(decimal.NewFromInt(2400))
			},
		},
	}
}

// AnalyzeSensitivity perturbs each assumption independently and measures the
// effect on the ending balance. Levers whose perturbation produces an
// invalid input (a rate pushed negative, for example) are skipped rather
// than clamped, so every reported impact reflects the full stated delta.
func (pe *ProjectionEngine) AnalyzeSensitivity(input *domain.ProjectionInput) (*domain.SensitivityResult, error) {
	baseline, err := pe.RunProjection(input)
	if err != nil {
		return nil, err
	}

	result := &domain.SensitivityResult{
		BaselineBalance:   baseline.Summary.EndingBalance,
		BaselineDepletion: baseline.Summary.YearsUntilDepletion,
	}

	for _, lv := range levers() {
		perturbed := *input
		lv.apply(&perturbed)
		if err := perturbed.Validate(); err != nil {
			pe.Logger.Debugf("sensitivity: skipping lever %s: %v", lv.name, err)
			continue
		}
		run, err := pe.RunProjection(&perturbed)
		if err != nil {
			return nil, err
		}

		impact := run.Summary.EndingBalance.Sub(result.BaselineBalance)
		percent := decimalZero
		if !result.BaselineBalance.IsZero() {
			percent = impact.Div(result.BaselineBalance).Mul(decimalHundred)
		}
		result.Impacts = append(result.Impacts, domain.LeverImpact{
			Lever:            lv.name,
			Label:            lv.label,
			Delta:            lv.delta,
			Direction:        lv.direction,
			Unit:             lv.unit,
			PerturbedBalance: run.Summary.EndingBalance,
			ImpactOnBalance:  impact,
			PercentImpact:    percent,
		})
	}

	sort.SliceStable(result.Impacts, func(i, j int) bool {
		return result.Impacts[i].ImpactOnBalance.Abs().GreaterThan(result.Impacts[j].ImpactOnBalance.Abs())
	})

	top := len(result.Impacts)
	if top > 3 {
		top = 3
	}
	result.TopLevers = result.Impacts[:top]
	return result, nil
}

// materialityThreshold is the minimum absolute percent impact for a lever to
// count as a low-friction win.
var materialityThreshold = decimal.NewFromInt(5)

// lowFrictionDelta reports whether a lever's perturbation is small enough to
// act on without a lifestyle change.
func lowFrictionDelta(unit string, delta decimal.Decimal) bool {
	switch unit {
	case "rate":
		return delta.Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
	case "years":
		return delta.Abs().LessThanOrEqual(decimalOne)
	case "dollars":
		return delta.Abs().LessThanOrEqual(decimal.NewFromInt(3000))
	}
	return false
}

// LowFrictionWins filters a sensitivity result down to levers whose small
// perturbation still moves the outcome materially.
func (pe *ProjectionEngine) LowFrictionWins(result *domain.SensitivityResult) []domain.LowFrictionWin {
	efforts := make(map[string]string, 6)
	for _, lv := range levers() {
		efforts[lv.name] = lv.effort
	}

	var wins []domain.LowFrictionWin
	for _, impact := range result.Impacts {
		if impact.PercentImpact.Abs().LessThan(materialityThreshold) {
			continue
		}
		if !lowFrictionDelta(impact.Unit, impact.Delta) {
			continue
		}
		wins = append(wins, domain.LowFrictionWin{
			Lever:         impact.Lever,
			Label:         impact.Label,
			Delta:         impact.Delta,
			Unit:          impact.Unit,
			PercentImpact: impact.PercentImpact,
			Effort:        efforts[impact.Lever],
		})
	}
	return wins
}

// RankAssumptions converts lever impacts into bounded 0-100 display scores.
// The multiplier stretches typical single-digit percent impacts across the
// scale; anything at or beyond 25 percent saturates.
func (pe *ProjectionEngine) RankAssumptions(result *domain.SensitivityResult) []domain.SensitiveAssumption {
	ranked := make([]domain.SensitiveAssumption, 0, len(result.Impacts))
	for _, impact := range result.Impacts {
		score := impact.PercentImpact.Abs().Mul(decimal.NewFromInt(4)).Round(0).IntPart()
		if score > 100 {
			score = 100
		}
		ranked = append(ranked, domain.SensitiveAssumption{
			Lever:         impact.Lever,
			Label:         impact.Label,
			Score:         int(score),
			PercentImpact: impact.PercentImpact,
		})
	}
	return ranked
}
