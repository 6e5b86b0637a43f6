package domain

import "github.com/shopspring/decimal"

// RMDDetail records the required minimum distribution activity for one year.
type RMDDetail struct {
	Required decimal.Decimal `json:"required"`
	Taken    decimal.Decimal `json:"taken"`
}

// ProjectionRecord is one simulated year. Records are created by the
// simulator, never mutated afterwards, and ordered by ascending age.
type ProjectionRecord struct {
	Age  int `json:"age"`
	Year int `json:"year"`

	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	Balance          decimal.Decimal `json:"balance"`
	BalancesByType   BalancesByType  `json:"balancesByType"`

	// Inflows
	Contribution decimal.Decimal `json:"contribution"`
	Income       decimal.Decimal `json:"income"`
	Surplus      decimal.Decimal `json:"surplus"`

	// Outflows
	Expenses           decimal.Decimal `json:"expenses"`
	HealthcareExpenses decimal.Decimal `json:"healthcareExpenses"`
	DebtPayments       decimal.Decimal `json:"debtPayments"`
	Withdrawal         decimal.Decimal `json:"withdrawal"`

	RMD *RMDDetail `json:"rmd,omitempty"`

	IsRetired bool `json:"isRetired"`
}

// TotalSpending returns the year's gross spending including healthcare and
// debt service.
func (r *ProjectionRecord) TotalSpending() decimal.Decimal {
	return r.Expenses.Add(r.HealthcareExpenses).Add(r.DebtPayments)
}

// ProjectionSummary aggregates the record sequence.
type ProjectionSummary struct {
	StartingBalance            decimal.Decimal `json:"startingBalance"`
	ProjectedRetirementBalance decimal.Decimal `json:"projectedRetirementBalance"`
	EndingBalance              decimal.Decimal `json:"endingBalance"`
	TotalContributions         decimal.Decimal `json:"totalContributions"`
	TotalWithdrawals           decimal.Decimal `json:"totalWithdrawals"`
	// YearsUntilDepletion counts from retirement to the first zero-balance
	// year; nil when the portfolio is never depleted by maxAge.
	YearsUntilDepletion *int `json:"yearsUntilDepletion"`
}

// ProjectionResult is what callers persist per plan: the inputs, the
// human-readable assumptions, the full record sequence and the summary.
type ProjectionResult struct {
	Input       ProjectionInput       `json:"input"`
	Assumptions ProjectionAssumptions `json:"assumptions"`
	Records     []ProjectionRecord    `json:"records"`
	Summary     ProjectionSummary     `json:"summary"`
}

// RecordAt returns the record for the given age, or nil when the age is
// outside the projected range.
func (pr *ProjectionResult) RecordAt(age int) *ProjectionRecord {
	idx := age - pr.Input.CurrentAge
	if idx < 0 || idx >= len(pr.Records) {
		return nil
	}
	return &pr.Records[idx]
}
