package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// ResolveIncome sums every income stream active at the given age,
// inflation-adjusting the streams that carry a COLA.
func ResolveIncome(streams []domain.IncomeStream, age int, inflationRate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i := range streams {
		total = total.Add(streams[i].AmountAt(age, inflationRate))
	}
	return total
}

// ResolveGuaranteedIncome sums only the guaranteed (non-market) streams
// active at the given age. A stream counts as guaranteed when it is flagged
// so, or when its type is guaranteed by default.
func ResolveGuaranteedIncome(streams []domain.IncomeStream, age int, inflationRate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for i := range streams {
		if streams[i].IsGuaranteed || streams[i].Type.GuaranteedByDefault() {
			total = total.Add(streams[i].AmountAt(age, inflationRate))
		}
	}
	return total
}

// firstGuaranteedStartAfter returns the earliest start age of a guaranteed
// stream beginning strictly after the given age, or 0 when there is none.
func firstGuaranteedStartAfter(streams []domain.IncomeStream, age int) int {
	earliest := 0
	for i := range streams {
		s := &streams[i]
		if !s.IsGuaranteed && !s.Type.GuaranteedByDefault() {
			continue
		}
		if s.StartAge > age && (earliest == 0 || s.StartAge < earliest) {
			earliest = s.StartAge
		}
	}
	return earliest
}
