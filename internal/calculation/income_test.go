package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/planwise/retirement-engine/internal/domain"
)

func testStreams() []domain.IncomeStream {
	rentalEnd := 75
	return []domain.IncomeStream{
		{
			ID:                "ss",
			Name:              "Social Security",
			Type:              domain.IncomeSocialSecurity,
			AnnualAmount:      decimal.NewFromInt(24000),
			StartAge:          67,
			InflationAdjusted: true,
			IsGuaranteed:      true,
		},
		{
			ID:           "rental",
			Name:         "Rental duplex",
			Type:         domain.IncomeRental,
			AnnualAmount: decimal.NewFromInt(12000),
			StartAge:     65,
			EndAge:       &rentalEnd,
		},
	}
}

func TestResolveIncomeWindows(t *testing.T) {
	streams := testStreams()
	inflation := decimal.Zero

	assert.True(t, ResolveIncome(streams, 64, inflation).IsZero())
	assert.True(t, ResolveIncome(streams, 65, inflation).Equal(decimal.NewFromInt(12000)))
	assert.True(t, ResolveIncome(streams, 67, inflation).Equal(decimal.NewFromInt(36000)))
	// End age is inclusive.
	assert.True(t, ResolveIncome(streams, 75, inflation).Equal(decimal.NewFromInt(36000)))
	assert.True(t, ResolveIncome(streams, 76, inflation).Equal(decimal.NewFromInt(24000)))
}

func TestResolveIncomeInflationAdjustment(t *testing.T) {
	streams := testStreams()
	inflation := decimal.NewFromFloat(0.02)

	// Five years past the SS start age: 24000 * 1.02^5. The rental stream
	// carries no COLA and stays nominal.
	got := ResolveIncome(streams, 72, inflation)
	ss := decimal.NewFromInt(24000).Mul(decimal.NewFromInt(1).Add(inflation).Pow(decimal.NewFromInt(5)))
	expected := ss.Add(decimal.NewFromInt(12000))
	assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
}

func TestResolveGuaranteedIncome(t *testing.T) {
	streams := testStreams()
	inflation := decimal.Zero

	// Only the Social Security stream is guaranteed; the rental is not.
	assert.True(t, ResolveGuaranteedIncome(streams, 67, inflation).Equal(decimal.NewFromInt(24000)))
	assert.True(t, ResolveGuaranteedIncome(streams, 65, inflation).IsZero())

	// A pension counts as guaranteed even without the explicit flag.
	streams = append(streams, domain.IncomeStream{
		ID:           "pension",
		Type:         domain.IncomePension,
		AnnualAmount: decimal.NewFromInt(10000),
		StartAge:     65,
	})
	assert.True(t, ResolveGuaranteedIncome(streams, 65, inflation).Equal(decimal.NewFromInt(10000)))
}

func TestFirstGuaranteedStartAfter(t *testing.T) {
	streams := testStreams()
	assert.Equal(t, 67, firstGuaranteedStartAfter(streams, 65))
	assert.Equal(t, 0, firstGuaranteedStartAfter(streams, 67))
}
