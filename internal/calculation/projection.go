package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// RunProjection simulates the portfolio year by year from the current age
// through the maximum age. Working years accumulate contributions with
// growth; retirement years resolve income, spending and withdrawals under
// the engine's withdrawal policy and RMD table. The input is never mutated
// and identical inputs always produce identical results.
func (pe *ProjectionEngine) RunProjection(input *domain.ProjectionInput) (*domain.ProjectionResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	baseYear := input.BaseYear
	if baseYear == 0 {
		baseYear = ProjectionBaseYear
	}
	birthYear := baseYear - input.CurrentAge
	rmdStartAge := pe.RMDTable.TriggerAge(birthYear)

	pe.Logger.Debugf("projection: ages %d-%d, retirement at %d, RMDs from %d",
		input.CurrentAge, input.MaxAge, input.RetirementAge, rmdStartAge)

	spending := NewSpendingModel(input)
	balances := input.Balances
	contribution := input.AnnualContribution

	years := input.MaxAge - input.CurrentAge + 1
	records := make([]domain.ProjectionRecord, 0, years)

	totalContributions := decimal.Zero
	totalWithdrawals := decimal.Zero
	var yearsUntilDepletion *int

	for age := input.CurrentAge; age <= input.MaxAge; age++ {
		record := domain.ProjectionRecord{
			Age:              age,
			Year:             baseYear + (age - input.CurrentAge),
			BeginningBalance: balances.Total(),
			IsRetired:        age >= input.RetirementAge,
		}

		if !record.IsRetired {
			// Working year: contribute per the allocation, then grow. The
			// contribution is credited before growth so it earns the year's
			// return.
			balances = balances.Add(input.ContributionAllocation.Split(contribution)).Grow(input.ExpectedReturn)
			record.Contribution = contribution
			totalContributions = totalContributions.Add(contribution)
			contribution = contribution.Mul(decimalOne.Add(input.ContributionGrowthRate))
		} else {
			record.Expenses = spending.ExpenseAt(age)
			record.HealthcareExpenses = spending.HealthcareAt(age)
			record.DebtPayments = input.AnnualDebtPayments
			record.Income = ResolveIncome(input.IncomeStreams, age, input.InflationRate)

			need := record.TotalSpending().Sub(record.Income)
			if need.IsNegative() {
				// Income exceeds spending; the surplus lands in the taxable
				// category before growth.
				record.Surplus = need.Neg()
				balances.Taxable = balances.Taxable.Add(record.Surplus)
				need = decimalZero
			}

			rmdRequired := decimalZero
			if age >= rmdStartAge {
				rmdRequired = pe.RMDTable.Required(balances.TaxDeferred, age)
			}

			plan := pe.Policy.Plan(need, balances, rmdRequired)
			if rmdRequired.IsPositive() {
				// Taken reports the whole tax-deferred draw for the year; when
				// spending pulls past the required minimum the requirement is
				// satisfied by the larger withdrawal, not a separate one.
				record.RMD = &domain.RMDDetail{
					Required: rmdRequired,
					Taken:    plan.TaxDeferred,
				}
			}
			balances = plan.Apply(balances).Grow(input.ExpectedReturn)
			record.Withdrawal = plan.TotalWithdrawn()
			totalWithdrawals = totalWithdrawals.Add(record.Withdrawal)
		}

		record.Balance = balances.Total()
		record.BalancesByType = balances
		records = append(records, record)

		if record.IsRetired && yearsUntilDepletion == nil && balances.IsDepleted() {
			depleted := age - input.RetirementAge
			yearsUntilDepletion = &depleted
			pe.Logger.Infof("projection: portfolio depleted at age %d", age)
		}
	}

	result := &domain.ProjectionResult{
		Input:       *input,
		Assumptions: input.Assumptions(),
		Records:     records,
		Summary: domain.ProjectionSummary{
			StartingBalance:     input.Balances.Total(),
			EndingBalance:       records[len(records)-1].Balance,
			TotalContributions:  totalContributions,
			TotalWithdrawals:    totalWithdrawals,
			YearsUntilDepletion: yearsUntilDepletion,
		},
	}
	if retirement := result.RecordAt(input.RetirementAge); retirement != nil {
		result.Summary.ProjectedRetirementBalance = retirement.BeginningBalance
	}
	return result, nil
}
