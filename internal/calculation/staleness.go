package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// CheckProjectionStaleness structurally diffs stored projection inputs
// against freshly built ones. Any differing field marks the stored result
// stale and is listed by name, so callers can tell users why a cached
// projection no longer applies. Pure comparison, no I/O.
func (pe *ProjectionEngine) CheckProjectionStaleness(stored, current *domain.ProjectionInput) *domain.StalenessResult {
	result := &domain.StalenessResult{ChangedFields: []string{}}

	intFields := []struct {
		name string
		a, b int
	}{
		{"currentAge", stored.CurrentAge, current.CurrentAge},
		{"retirementAge", stored.RetirementAge, current.RetirementAge},
		{"maxAge", stored.MaxAge, current.MaxAge},
		{"baseYear", stored.BaseYear, current.BaseYear},
	}
	for _, f := range intFields {
		if f.a != f.b {
			result.ChangedFields = append(result.ChangedFields, f.name)
		}
	}

	decimalFields := []struct {
		name string
		a, b decimal.Decimal
	}{
		{"annualContribution", stored.AnnualContribution, current.AnnualContribution},
		{"expectedReturn", stored.ExpectedReturn, current.ExpectedReturn},
		{"inflationRate", stored.InflationRate, current.InflationRate},
		{"contributionGrowthRate", stored.ContributionGrowthRate, current.ContributionGrowthRate},
		{"annualExpenses", stored.AnnualExpenses, current.AnnualExpenses},
		{"essentialExpenses", stored.EssentialExpenses, current.EssentialExpenses},
		{"discretionaryExpenses", stored.DiscretionaryExpenses, current.DiscretionaryExpenses},
		{"annualHealthcareCosts", stored.AnnualHealthcareCosts, current.AnnualHealthcareCosts},
		{"healthcareInflationRate", stored.HealthcareInflationRate, current.HealthcareInflationRate},
		{"annualDebtPayments", stored.AnnualDebtPayments, current.AnnualDebtPayments},
	}
	for _, f := range decimalFields {
		if !f.a.Equal(f.b) {
			result.ChangedFields = append(result.ChangedFields, f.name)
		}
	}

	if !balancesEqual(stored.Balances, current.Balances) {
		result.ChangedFields = append(result.ChangedFields, "balances")
	}
	if !allocationsEqual(stored.ContributionAllocation, current.ContributionAllocation) {
		result.ChangedFields = append(result.ChangedFields, "contributionAllocation")
	}
	if !streamsEqual(stored.IncomeStreams, current.IncomeStreams) {
		result.ChangedFields = append(result.ChangedFields, "incomeStreams")
	}
	if !phaseConfigsEqual(stored.SpendingPhases, current.SpendingPhases) {
		result.ChangedFields = append(result.ChangedFields, "spendingPhases")
	}
	if !depletionTargetsEqual(stored.DepletionTarget, current.DepletionTarget) {
		result.ChangedFields = append(result.ChangedFields, "depletionTarget")
	}
	if !reservesEqual(stored.Reserve, current.Reserve) {
		result.ChangedFields = append(result.ChangedFields, "reserve")
	}

	result.IsStale = len(result.ChangedFields) > 0
	return result
}

func balancesEqual(a, b domain.BalancesByType) bool {
	return a.TaxDeferred.Equal(b.TaxDeferred) && a.TaxFree.Equal(b.TaxFree) && a.Taxable.Equal(b.Taxable)
}

func allocationsEqual(a, b domain.ContributionAllocation) bool {
	return a.TaxDeferred.Equal(b.TaxDeferred) && a.TaxFree.Equal(b.TaxFree) && a.Taxable.Equal(b.Taxable)
}

// streamsEqual compares income streams order-independently by id.
func streamsEqual(a, b []domain.IncomeStream) bool {
	if len(a) != len(b) {
		return false
	}
	sa := sortedStreams(a)
	sb := sortedStreams(b)
	for i := range sa {
		if !streamEqual(&sa[i], &sb[i]) {
			return false
		}
	}
	return true
}

func sortedStreams(streams []domain.IncomeStream) []domain.IncomeStream {
	out := make([]domain.IncomeStream, len(streams))
	copy(out, streams)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func streamEqual(a, b *domain.IncomeStream) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Type != b.Type {
		return false
	}
	if !a.AnnualAmount.Equal(b.AnnualAmount) || a.StartAge != b.StartAge {
		return false
	}
	if !intPtrEqual(a.EndAge, b.EndAge) {
		return false
	}
	return a.InflationAdjusted == b.InflationAdjusted &&
		a.IsGuaranteed == b.IsGuaranteed &&
		a.IsSpouse == b.IsSpouse
}

func phaseConfigsEqual(a, b *domain.SpendingPhaseConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Enabled != b.Enabled || len(a.Phases) != len(b.Phases) {
		return false
	}
	for i := range a.Phases {
		pa, pb := &a.Phases[i], &b.Phases[i]
		if pa.ID != pb.ID || pa.Name != pb.Name || pa.StartAge != pb.StartAge {
			return false
		}
		if !decimalPtrEqual(pa.EssentialMultiplier, pb.EssentialMultiplier) ||
			!decimalPtrEqual(pa.DiscretionaryMultiplier, pb.DiscretionaryMultiplier) {
			return false
		}
		if !decimalPtrEqual(pa.EssentialOverride, pb.EssentialOverride) ||
			!decimalPtrEqual(pa.DiscretionaryOverride, pb.DiscretionaryOverride) {
			return false
		}
	}
	return true
}

func depletionTargetsEqual(a, b *domain.DepletionTarget) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.TargetPercentageSpent.Equal(b.TargetPercentageSpent) && a.TargetAge == b.TargetAge
}

func reservesEqual(a, b *domain.ReserveConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Mode != b.Mode || !a.Percentage.Equal(b.Percentage) || !a.Amount.Equal(b.Amount) {
		return false
	}
	if len(a.Purposes) != len(b.Purposes) {
		return false
	}
	for i := range a.Purposes {
		if a.Purposes[i] != b.Purposes[i] {
			return false
		}
	}
	return true
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func decimalPtrEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
