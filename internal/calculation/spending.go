package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// SpendingModel resolves phase-aware, inflation-adjusted spending for each
// retirement year. Baselines are in retirement-age dollars; phase overrides
// and multipliers apply before inflation does.
type SpendingModel struct {
	input *domain.ProjectionInput
}

// NewSpendingModel builds a spending model over a validated input.
func NewSpendingModel(input *domain.ProjectionInput) *SpendingModel {
	return &SpendingModel{input: input}
}

// EssentialAt returns the essential spending for the given age, in that
// year's dollars.
func (sm *SpendingModel) EssentialAt(age int) decimal.Decimal {
	essential, _ := sm.baselineAt(age)
	return essential.Mul(sm.inflationFactor(age))
}

// DiscretionaryAt returns the discretionary spending for the given age, in
// that year's dollars.
func (sm *SpendingModel) DiscretionaryAt(age int) decimal.Decimal {
	_, discretionary := sm.baselineAt(age)
	return discretionary.Mul(sm.inflationFactor(age))
}

// ExpenseAt returns total living expenses (essential plus discretionary) for
// the given age, in that year's dollars. Healthcare and debt service are
// tracked separately by the simulator.
func (sm *SpendingModel) ExpenseAt(age int) decimal.Decimal {
	essential, discretionary := sm.baselineAt(age)
	return essential.Add(discretionary).Mul(sm.inflationFactor(age))
}

// FlatExpenseAt returns what the same year would cost with phases ignored.
func (sm *SpendingModel) FlatExpenseAt(age int) decimal.Decimal {
	baseline := sm.input.BaselineEssentialExpenses().Add(sm.input.BaselineDiscretionaryExpenses())
	return baseline.Mul(sm.inflationFactor(age))
}

// HealthcareAt returns the healthcare cost for the given age. Healthcare
// carries its own inflation rate, compounding from the retirement-age
// baseline like the other expense categories.
func (sm *SpendingModel) HealthcareAt(age int) decimal.Decimal {
	if sm.input.AnnualHealthcareCosts.IsZero() {
		return decimal.Zero
	}
	return sm.input.AnnualHealthcareCosts.Mul(compound(sm.input.HealthcareInflationRate, age-sm.input.RetirementAge))
}

// baselineAt resolves the pre-inflation essential and discretionary amounts
// for an age, applying the phase schedule when one is active.
func (sm *SpendingModel) baselineAt(age int) (essential, discretionary decimal.Decimal) {
	essential = sm.input.BaselineEssentialExpenses()
	discretionary = sm.input.BaselineDiscretionaryExpenses()

	phase := sm.input.SpendingPhases.PhaseAt(age)
	if phase == nil {
		return essential, discretionary
	}
	if phase.EssentialOverride != nil {
		essential = *phase.EssentialOverride
	} else if phase.EssentialMultiplier != nil {
		essential = essential.Mul(*phase.EssentialMultiplier)
	}
	if phase.DiscretionaryOverride != nil {
		discretionary = *phase.DiscretionaryOverride
	} else if phase.DiscretionaryMultiplier != nil {
		discretionary = discretionary.Mul(*phase.DiscretionaryMultiplier)
	}
	return essential, discretionary
}

func (sm *SpendingModel) inflationFactor(age int) decimal.Decimal {
	return compound(sm.input.InflationRate, age-sm.input.RetirementAge)
}

// CompareSpending contrasts phase-adjusted spending against the flat
// baseline over the retirement horizon. The comparison uses pre-healthcare
// living expenses only, so the difference isolates the effect of the phase
// schedule.
func (pe *ProjectionEngine) CompareSpending(input *domain.ProjectionInput) (*domain.SpendingComparison, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	model := NewSpendingModel(input)
	comparison := &domain.SpendingComparison{
		TotalFlat:          decimal.Zero,
		TotalPhaseAdjusted: decimal.Zero,
	}
	for age := input.RetirementAge; age <= input.MaxAge; age++ {
		flat := model.FlatExpenseAt(age)
		adjusted := model.ExpenseAt(age)
		comparison.Years = append(comparison.Years, domain.SpendingComparisonYear{
			Age:           age,
			Flat:          flat,
			PhaseAdjusted: adjusted,
		})
		comparison.TotalFlat = comparison.TotalFlat.Add(flat)
		comparison.TotalPhaseAdjusted = comparison.TotalPhaseAdjusted.Add(adjusted)
	}
	comparison.Difference = comparison.TotalPhaseAdjusted.Sub(comparison.TotalFlat)
	return comparison, nil
}
