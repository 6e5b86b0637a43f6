package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// trajectoryTolerance is the band, as a fraction of sustainable spending,
// within which planned spending counts as on track.
var trajectoryTolerance = decimal.NewFromFloat(0.05)

// runwayHorizonYears caps the reserve-runway scan; a reserve that survives
// the full horizon is reported as unlimited.
const runwayHorizonYears = 100

// AnalyzeDepletion computes the flat annual spending level consistent with
// spending the target share of the portfolio by the target age, leaving the
// protected reserve intact. The level is found by bisecting candidate spend
// rates through the simulator itself, so growth and inflation behave exactly
// as they do in a real projection.
func (pe *ProjectionEngine) AnalyzeDepletion(input *domain.ProjectionInput) (*domain.DepletionAnalysis, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.DepletionTarget == nil {
		return nil, domain.NewValidationError("depletionTarget", "required for depletion analysis")
	}

	portfolio := input.Balances.Total()
	reserve := pe.reserveAmount(input, portfolio)

	sustainable, err := pe.solveSustainableSpending(input, reserve)
	if err != nil {
		return nil, err
	}

	planned := input.BaselineEssentialExpenses().Add(input.BaselineDiscretionaryExpenses())
	tolerance := sustainable.Mul(trajectoryTolerance)
	status := domain.TrajectoryOnTrack
	switch {
	case planned.LessThan(sustainable.Sub(tolerance)):
		status = domain.TrajectoryUnderspend
	case planned.GreaterThan(sustainable.Add(tolerance)):
		status = domain.TrajectoryOverspending
	}

	analysis := &domain.DepletionAnalysis{
		PortfolioValue:             portfolio,
		ReserveAmount:              reserve,
		SustainableAnnualSpending:  sustainable,
		SustainableMonthlySpending: sustainable.Div(decimalTwelve),
		PlannedAnnualSpending:      planned,
		TrajectoryStatus:           status,
	}
	if input.SpendingPhases != nil && input.SpendingPhases.Enabled {
		analysis.PhaseBreakdown = phaseBreakdown(input)
	}
	return analysis, nil
}

// reserveAmount resolves the protected reserve per the configured mode. With
// no reserve config the derived mode applies: whatever the depletion target
// leaves unspent is protected.
func (pe *ProjectionEngine) reserveAmount(input *domain.ProjectionInput, portfolio decimal.Decimal) decimal.Decimal {
	mode := domain.ReserveModeDerived
	if input.Reserve != nil {
		mode = input.Reserve.Mode
	}
	switch mode {
	case domain.ReserveModePercentage:
		return portfolio.Mul(input.Reserve.Percentage).Div(decimalHundred)
	case domain.ReserveModeAbsolute:
		return input.Reserve.Amount
	default:
		unspent := decimalHundred.Sub(input.DepletionTarget.TargetPercentageSpent)
		return portfolio.Mul(unspent).Div(decimalHundred)
	}
}

// solveSustainableSpending bisects a flat annual spend until the projected
// balance at the target age lands on the reserve. Probe runs strip the
// phase schedule and the separately tracked healthcare and debt outflows so
// the solved number is a single all-in spending level.
func (pe *ProjectionEngine) solveSustainableSpending(input *domain.ProjectionInput, reserve decimal.Decimal) (decimal.Decimal, error) {
	// Future contributions and income mean the sustainable level can exceed
	// the portfolio as it stands today, so the upper bound doubles until a
	// probe run actually exhausts the target-age balance down to the reserve.
	hi := input.Balances.Total()
	if !hi.IsPositive() {
		hi = decimal.NewFromInt(1000)
	}
	for i := 0; i < 60; i++ {
		at, err := pe.balanceAtTargetAge(input, hi)
		if err != nil {
			return decimalZero, err
		}
		if at.LessThanOrEqual(reserve) {
			break
		}
		hi = hi.Mul(decimal.NewFromInt(2))
	}

	lo := decimalZero
	var spend decimal.Decimal
	for i := 0; i < 60; i++ {
		spend = lo.Add(hi).Div(decimal.NewFromInt(2))
		at, err := pe.balanceAtTargetAge(input, spend)
		if err != nil {
			return decimalZero, err
		}
		if at.GreaterThan(reserve) {
			lo = spend
		} else {
			hi = spend
		}
	}
	return spend.Round(2), nil
}

func (pe *ProjectionEngine) balanceAtTargetAge(input *domain.ProjectionInput, spend decimal.Decimal) (decimal.Decimal, error) {
	probe := *input
	probe.AnnualExpenses = spend
	probe.EssentialExpenses = decimalZero
	probe.DiscretionaryExpenses = decimalZero
	probe.SpendingPhases = nil
	probe.AnnualHealthcareCosts = decimalZero
	probe.AnnualDebtPayments = decimalZero

	result, err := pe.RunProjection(&probe)
	if err != nil {
		return decimalZero, err
	}
	record := result.RecordAt(input.DepletionTarget.TargetAge)
	if record == nil {
		return decimalZero, fmt.Errorf("target age %d outside projected range", input.DepletionTarget.TargetAge)
	}
	return record.Balance, nil
}

// phaseBreakdown summarizes the phase schedule for display: each phase's age
// window and its monthly spending at the phase start, in that year's dollars.
func phaseBreakdown(input *domain.ProjectionInput) []domain.PhaseSpending {
	model := NewSpendingModel(input)
	phases := input.SpendingPhases.Phases
	breakdown := make([]domain.PhaseSpending, 0, len(phases))
	for i, phase := range phases {
		endAge := input.MaxAge
		if i+1 < len(phases) {
			endAge = phases[i+1].StartAge - 1
		}
		breakdown = append(breakdown, domain.PhaseSpending{
			Phase:           phase.Name,
			StartAge:        phase.StartAge,
			EndAge:          endAge,
			YearsInPhase:    endAge - phase.StartAge + 1,
			MonthlySpending: model.ExpenseAt(phase.StartAge).Div(decimalTwelve).Round(2),
		})
	}
	return breakdown
}

// ReserveRunway computes how many years a protected reserve covers essential
// expenses net of guaranteed income, both inflated year over year. A reserve
// that survives the full scan horizon, including the case where guaranteed
// income alone covers essentials, is reported with the Unlimited sentinel.
func (pe *ProjectionEngine) ReserveRunway(input *domain.ProjectionInput) (*domain.ReserveRunway, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.DepletionTarget == nil {
		return nil, domain.NewValidationError("depletionTarget", "required for reserve runway")
	}

	reserve := pe.reserveAmount(input, input.Balances.Total())
	model := NewSpendingModel(input)

	remaining := reserve
	for y := 0; y < runwayHorizonYears; y++ {
		age := input.RetirementAge + y
		net := model.EssentialAt(age).Sub(ResolveGuaranteedIncome(input.IncomeStreams, age, input.InflationRate))
		if net.IsPositive() {
			remaining = remaining.Sub(net)
			if remaining.IsNegative() {
				return &domain.ReserveRunway{ReserveAmount: reserve, Years: y}, nil
			}
		}
	}
	return &domain.ReserveRunway{ReserveAmount: reserve, Unlimited: true}, nil
}
