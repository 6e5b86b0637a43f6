package calculation

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/retirement-engine/internal/domain"
)

func accumulationOnlyInput() *domain.ProjectionInput {
	return &domain.ProjectionInput{
		CurrentAge:    30,
		RetirementAge: 65,
		MaxAge:        90,
		Balances:      domain.BalancesByType{},
		ContributionAllocation: domain.ContributionAllocation{
			Taxable: decimal.NewFromInt(100),
		},
		AnnualContribution: decimal.NewFromInt(20000),
		ExpectedReturn:     decimal.NewFromFloat(0.07),
		InflationRate:      decimal.NewFromFloat(0.025),
	}
}

func retirementInput() *domain.ProjectionInput {
	return &domain.ProjectionInput{
		CurrentAge:    60,
		RetirementAge: 65,
		MaxAge:        95,
		Balances: domain.BalancesByType{
			TaxDeferred: decimal.NewFromInt(800000),
			TaxFree:     decimal.NewFromInt(200000),
			Taxable:     decimal.NewFromInt(300000),
		},
		ContributionAllocation: domain.ContributionAllocation{
			TaxDeferred: decimal.NewFromInt(100),
		},
		AnnualContribution:      decimal.NewFromInt(25000),
		ExpectedReturn:          decimal.NewFromFloat(0.05),
		InflationRate:           decimal.NewFromFloat(0.025),
		EssentialExpenses:       decimal.NewFromInt(50000),
		DiscretionaryExpenses:   decimal.NewFromInt(20000),
		AnnualHealthcareCosts:   decimal.NewFromInt(8000),
		HealthcareInflationRate: decimal.NewFromFloat(0.05),
		IncomeStreams: []domain.IncomeStream{
			{
				ID:                "ss-1",
				Name:              "Social Security",
				Type:              domain.IncomeSocialSecurity,
				AnnualAmount:      decimal.NewFromInt(30000),
				StartAge:          67,
				InflationAdjusted: true,
				IsGuaranteed:      true,
			},
		},
	}
}

// TestProjectionAnnuityFutureValue checks the 35-year accumulation scenario:
// $20,000/year at 7% should land near $2.96M at retirement.
func TestProjectionAnnuityFutureValue(t *testing.T) {
	engine := NewProjectionEngine()
	result, err := engine.RunProjection(accumulationOnlyInput())
	require.NoError(t, err)

	expected := decimal.NewFromInt(2958268)
	diff := result.Summary.ProjectedRetirementBalance.Sub(expected).Abs()
	assert.True(t, diff.LessThan(decimal.NewFromInt(1000)),
		"projected retirement balance %s should be within $1,000 of %s",
		result.Summary.ProjectedRetirementBalance.StringFixed(0), expected)

	for _, rec := range result.Records {
		if !rec.IsRetired {
			assert.True(t, rec.Withdrawal.IsZero(), "pre-retirement withdrawal at age %d", rec.Age)
		}
	}
	assert.Equal(t, decimal.NewFromInt(20000*35).String(), result.Summary.TotalContributions.String())
}

// TestProjectionRecordCompleteness verifies the record sequence has no gaps
// and spans exactly currentAge..maxAge.
func TestProjectionRecordCompleteness(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	result, err := engine.RunProjection(input)
	require.NoError(t, err)

	require.Len(t, result.Records, input.MaxAge-input.CurrentAge+1)
	for i, rec := range result.Records {
		assert.Equal(t, input.CurrentAge+i, rec.Age)
		assert.Equal(t, ProjectionBaseYear+i, rec.Year)
	}
}

// TestProjectionDepletionFloor drives a portfolio to zero and verifies it
// stays there: no negative balances, no spontaneous recovery, and the record
// count is unchanged.
func TestProjectionDepletionFloor(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	input.Balances = domain.BalancesByType{Taxable: decimal.NewFromInt(100000)}
	input.AnnualContribution = decimal.Zero
	input.EssentialExpenses = decimal.NewFromInt(90000)
	input.DiscretionaryExpenses = decimal.NewFromInt(30000)
	input.IncomeStreams = nil

	result, err := engine.RunProjection(input)
	require.NoError(t, err)

	require.NotNil(t, result.Summary.YearsUntilDepletion)
	require.Len(t, result.Records, input.MaxAge-input.CurrentAge+1)

	depleted := false
	for _, rec := range result.Records {
		assert.False(t, rec.Balance.IsNegative(), "balance negative at age %d", rec.Age)
		if depleted {
			assert.True(t, rec.Balance.IsZero(), "balance recovered at age %d", rec.Age)
		}
		if rec.IsRetired && rec.Balance.IsZero() {
			depleted = true
		}
	}
	assert.True(t, depleted)
}

// TestProjectionDeterminism runs the same input twice and compares the
// serialized results byte for byte.
func TestProjectionDeterminism(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()

	first, err := engine.RunProjection(input)
	require.NoError(t, err)
	second, err := engine.RunProjection(input)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestProjectionRMDFloor verifies that from the trigger age on, the RMD
// detail is present and the amount taken covers the requirement.
func TestProjectionRMDFloor(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	// Base year 2025, current age 60: born 1965, so RMDs start at 75.
	result, err := engine.RunProjection(input)
	require.NoError(t, err)

	sawRMD := false
	for _, rec := range result.Records {
		if rec.Age < 75 {
			assert.Nil(t, rec.RMD, "unexpected RMD at age %d", rec.Age)
			continue
		}
		if rec.RMD != nil {
			sawRMD = true
			assert.True(t, rec.RMD.Taken.GreaterThanOrEqual(rec.RMD.Required),
				"RMD taken %s below required %s at age %d", rec.RMD.Taken, rec.RMD.Required, rec.Age)
		}
	}
	assert.True(t, sawRMD, "expected at least one RMD record")
}

// TestProjectionRMDTakenReflectsFullDraw verifies that when spending pulls
// more out of the tax-deferred category than the required minimum, the RMD
// detail records the actual draw rather than echoing the requirement.
func TestProjectionRMDTakenReflectsFullDraw(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	input.Balances = domain.BalancesByType{TaxDeferred: decimal.NewFromInt(800000)}
	input.EssentialExpenses = decimal.NewFromInt(100000)
	input.DiscretionaryExpenses = decimal.Zero
	input.AnnualHealthcareCosts = decimal.Zero
	input.IncomeStreams = nil

	result, err := engine.RunProjection(input)
	require.NoError(t, err)

	rec := result.RecordAt(75)
	require.NotNil(t, rec)
	require.NotNil(t, rec.RMD)
	assert.True(t, rec.RMD.Taken.GreaterThan(rec.RMD.Required),
		"taken %s should exceed required %s when the need is larger", rec.RMD.Taken, rec.RMD.Required)
	assert.True(t, rec.RMD.Taken.Equal(rec.Withdrawal),
		"with only tax-deferred money the whole withdrawal is the RMD draw")
}

type capturingLogger struct {
	NopLogger
	lines []string
}

func (l *capturingLogger) Debugf(format string, args ...any) {
	l.lines = append(l.lines, format)
}

// TestProjectionLoggerSeam checks that an injected logger receives the
// engine's trace output and that the default stays silent without one.
func TestProjectionLoggerSeam(t *testing.T) {
	engine := NewProjectionEngine()
	logger := &capturingLogger{}
	engine.SetLogger(logger)

	_, err := engine.RunProjection(retirementInput())
	require.NoError(t, err)
	assert.NotEmpty(t, logger.lines)

	engine.SetLogger(nil)
	_, err = engine.RunProjection(retirementInput())
	require.NoError(t, err)
}

// TestProjectionSurplusReinvested verifies that when income exceeds
// spending, the excess lands in the taxable category.
func TestProjectionSurplusReinvested(t *testing.T) {
	engine := NewProjectionEngine()
	input := retirementInput()
	input.EssentialExpenses = decimal.NewFromInt(10000)
	input.DiscretionaryExpenses = decimal.Zero
	input.AnnualHealthcareCosts = decimal.Zero
	input.IncomeStreams[0].StartAge = 65

	result, err := engine.RunProjection(input)
	require.NoError(t, err)

	rec := result.RecordAt(65)
	require.NotNil(t, rec)
	assert.True(t, rec.Surplus.IsPositive(), "expected surplus, got %s", rec.Surplus)
	assert.True(t, rec.Withdrawal.IsZero())
}

// TestProjectionValidationErrors checks that invalid inputs are rejected
// with the violated field named rather than silently normalized.
func TestProjectionValidationErrors(t *testing.T) {
	engine := NewProjectionEngine()

	tests := []struct {
		name   string
		mutate func(*domain.ProjectionInput)
		field  string
	}{
		{
			name:   "allocation not summing to 100",
			mutate: func(in *domain.ProjectionInput) { in.ContributionAllocation.Taxable = decimal.NewFromInt(50) },
			field:  "contributionAllocation",
		},
		{
			name:   "retirement before current age",
			mutate: func(in *domain.ProjectionInput) { in.RetirementAge = in.CurrentAge },
			field:  "retirementAge",
		},
		{
			name:   "negative return",
			mutate: func(in *domain.ProjectionInput) { in.ExpectedReturn = decimal.NewFromFloat(-0.01) },
			field:  "expectedReturn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := retirementInput()
			tt.mutate(input)
			_, err := engine.RunProjection(input)
			require.Error(t, err)
			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
