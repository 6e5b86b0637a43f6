package calculation

import (
	"github.com/planwise/retirement-engine/internal/domain"
)

// AnalyzeIncomeFloor compares guaranteed income against essential expenses
// at retirement. It requires at least one guaranteed stream and positive
// essential expenses at the retirement age; callers with neither have no
// floor to analyze.
func (pe *ProjectionEngine) AnalyzeIncomeFloor(input *domain.ProjectionInput) (*domain.IncomeFloorAnalysis, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if !hasGuaranteedStream(input.IncomeStreams) {
		return nil, domain.NewValidationError("incomeStreams", "income floor analysis requires at least one guaranteed stream")
	}

	model := NewSpendingModel(input)
	guaranteedAtRetirement := ResolveGuaranteedIncome(input.IncomeStreams, input.RetirementAge, input.InflationRate)

	// Phase overrides and multipliers can zero out the essential baseline at
	// the retirement age, so the check uses the phase-aware amount the ratio
	// divides by.
	essentialAtRetirement := model.EssentialAt(input.RetirementAge)
	if !essentialAtRetirement.IsPositive() {
		return nil, domain.NewValidationError("essentialExpenses", "income floor analysis requires positive essential expenses at retirement")
	}

	ratio := guaranteedAtRetirement.Div(essentialAtRetirement)

	var status domain.CoverageStatus
	switch {
	case ratio.GreaterThanOrEqual(decimalOne):
		status = domain.CoverageFull
	case ratio.IsPositive():
		status = domain.CoveragePartial
	case firstGuaranteedStartAfter(input.IncomeStreams, input.RetirementAge) > 0:
		// Nothing guaranteed yet, but a stream is scheduled to start later
		// (a Social Security claim age past retirement, typically). The floor
		// is partial, not absent.
		status = domain.CoveragePartial
	default:
		status = domain.CoverageInsufficient
	}

	analysis := &domain.IncomeFloorAnalysis{
		GuaranteedIncomeAtRetirement:  guaranteedAtRetirement,
		EssentialExpensesAtRetirement: essentialAtRetirement,
		CoverageRatioAtRetirement:     ratio.Round(4),
		Status:                        status,
	}

	for age := input.RetirementAge; age <= input.MaxAge; age++ {
		guaranteed := ResolveGuaranteedIncome(input.IncomeStreams, age, input.InflationRate)
		if guaranteed.GreaterThanOrEqual(model.EssentialAt(age)) {
			established := age
			analysis.FloorEstablishedAge = &established
			break
		}
	}
	return analysis, nil
}

func hasGuaranteedStream(streams []domain.IncomeStream) bool {
	for i := range streams {
		if streams[i].IsGuaranteed || streams[i].Type.GuaranteedByDefault() {
			return true
		}
	}
	return false
}
