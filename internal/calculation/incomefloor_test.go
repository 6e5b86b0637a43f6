package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/retirement-engine/internal/domain"
)

// A holder retiring at 65 with Social Security starting at 67 has no
// guaranteed income yet, but the floor is coming: status is partial, and the
// floor establishes at the claim age once the benefit covers essentials.
func TestIncomeFloorEstablishedLater(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	input.EssentialExpenses = decimal.NewFromInt(20000)
	input.DiscretionaryExpenses = decimal.Zero
	input.InflationRate = decimal.NewFromFloat(0.025)
	input.IncomeStreams = []domain.IncomeStream{
		{
			ID:                "ss",
			Type:              domain.IncomeSocialSecurity,
			AnnualAmount:      decimal.NewFromInt(24000),
			StartAge:          67,
			InflationAdjusted: true,
			IsGuaranteed:      true,
		},
	}

	analysis, err := engine.AnalyzeIncomeFloor(input)
	require.NoError(t, err)

	assert.True(t, analysis.GuaranteedIncomeAtRetirement.IsZero())
	assert.Equal(t, domain.CoveragePartial, analysis.Status)
	require.NotNil(t, analysis.FloorEstablishedAge)
	assert.Equal(t, 67, *analysis.FloorEstablishedAge)
}

func TestIncomeFloorFullyCovered(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	input.EssentialExpenses = decimal.NewFromInt(25000)
	input.DiscretionaryExpenses = decimal.Zero
	input.IncomeStreams[0].StartAge = 65

	analysis, err := engine.AnalyzeIncomeFloor(input)
	require.NoError(t, err)

	// 30000 guaranteed against 25000 essential.
	assert.Equal(t, domain.CoverageFull, analysis.Status)
	assert.True(t, analysis.CoverageRatioAtRetirement.GreaterThanOrEqual(decimal.NewFromInt(1)))
	require.NotNil(t, analysis.FloorEstablishedAge)
	assert.Equal(t, 65, *analysis.FloorEstablishedAge)
}

func TestIncomeFloorPartialCoverage(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	input.IncomeStreams[0].StartAge = 65

	analysis, err := engine.AnalyzeIncomeFloor(input)
	require.NoError(t, err)

	// 30000 guaranteed against 50000 essential.
	assert.Equal(t, domain.CoveragePartial, analysis.Status)
	expected := decimal.NewFromInt(30000).Div(decimal.NewFromInt(50000))
	assert.True(t, analysis.CoverageRatioAtRetirement.Equal(expected.Round(4)),
		"got %s", analysis.CoverageRatioAtRetirement)
}

// A phase schedule can zero out essentials at the retirement age (a plan
// that marks everything discretionary once the mortgage is gone, say). That
// leaves no floor to measure and must come back as an error, not a panic.
func TestIncomeFloorZeroEssentialPhase(t *testing.T) {
	engine := NewProjectionEngine()

	tests := []struct {
		name  string
		phase domain.SpendingPhase
	}{
		{
			name:  "zero essential override",
			phase: domain.SpendingPhase{ID: "p1", Name: "Paid Off", StartAge: 65, EssentialOverride: mult(0)},
		},
		{
			name:  "zero essential multiplier",
			phase: domain.SpendingPhase{ID: "p1", Name: "Paid Off", StartAge: 65, EssentialMultiplier: mult(0)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := retirementInput()
			input.SpendingPhases = &domain.SpendingPhaseConfig{
				Enabled: true,
				Phases:  []domain.SpendingPhase{tt.phase},
			}
			analysis, err := engine.AnalyzeIncomeFloor(input)
			require.Error(t, err)
			assert.Nil(t, analysis)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "essentialExpenses", vErr.Field)
		})
	}
}

func TestIncomeFloorPreconditions(t *testing.T) {
	engine := NewProjectionEngine()

	noGuaranteed := retirementInput()
	noGuaranteed.IncomeStreams = []domain.IncomeStream{
		{ID: "rent", Type: domain.IncomeRental, AnnualAmount: decimal.NewFromInt(12000), StartAge: 65},
	}
	_, err := engine.AnalyzeIncomeFloor(noGuaranteed)
	assert.Error(t, err)

	noEssential := retirementInput()
	noEssential.EssentialExpenses = decimal.Zero
	noEssential.DiscretionaryExpenses = decimal.NewFromInt(20000)
	_, err = engine.AnalyzeIncomeFloor(noEssential)
	assert.Error(t, err)
}
