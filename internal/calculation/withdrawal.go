package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/planwise/retirement-engine/internal/domain"
)

// WithdrawalPolicy decides how a year's cash need is drawn across balance
// categories. The simulator computes the need and the regulatory minimum
// distribution; the policy owns the ordering.
type WithdrawalPolicy interface {
	// Plan allocates withdrawals for one year. need is the net cash shortfall
	// after income (never negative); rmdRequired is the minimum that must
	// leave the tax-deferred category regardless of need.
	Plan(need decimal.Decimal, balances domain.BalancesByType, rmdRequired decimal.Decimal) WithdrawalPlan

	// Name identifies the policy in logs and output.
	Name() string
}

// WithdrawalPlan is the per-category withdrawal decision for one year.
type WithdrawalPlan struct {
	TaxDeferred decimal.Decimal
	TaxFree     decimal.Decimal
	Taxable     decimal.Decimal

	// RedepositToTaxable is the portion of a forced minimum distribution that
	// exceeded the year's need; it lands in the taxable category rather than
	// vanishing from the portfolio.
	RedepositToTaxable decimal.Decimal

	// Unmet is the shortfall left after every category ran dry.
	Unmet decimal.Decimal
}

// TotalWithdrawn returns the gross amount leaving the accounts.
func (p WithdrawalPlan) TotalWithdrawn() decimal.Decimal {
	return p.TaxDeferred.Add(p.TaxFree).Add(p.Taxable)
}

// Apply returns the balances after executing the plan. Categories never go
// negative; Plan implementations are expected to respect available balances.
func (p WithdrawalPlan) Apply(balances domain.BalancesByType) domain.BalancesByType {
	out := domain.BalancesByType{
		TaxDeferred: balances.TaxDeferred.Sub(p.TaxDeferred),
		TaxFree:     balances.TaxFree.Sub(p.TaxFree),
		Taxable:     balances.Taxable.Sub(p.Taxable).Add(p.RedepositToTaxable),
	}
	if out.TaxDeferred.IsNegative() {
		out.TaxDeferred = decimal.Zero
	}
	if out.TaxFree.IsNegative() {
		out.TaxFree = decimal.Zero
	}
	if out.Taxable.IsNegative() {
		out.Taxable = decimal.Zero
	}
	return out
}

// TaxableFirstPolicy drains taxable first, then tax-deferred, then tax-free.
// Taxable money has no withdrawal penalty or deferred tax clock, and leaving
// tax-free accounts for last maximizes their compounding window.
type TaxableFirstPolicy struct{}

// Name implements WithdrawalPolicy.
func (TaxableFirstPolicy) Name() string { return "taxable_first" }

// Plan implements WithdrawalPolicy.
func (TaxableFirstPolicy) Plan(need decimal.Decimal, balances domain.BalancesByType, rmdRequired decimal.Decimal) WithdrawalPlan {
	var plan WithdrawalPlan

	// The forced distribution comes out of tax-deferred first, capped by what
	// is actually there.
	rmd := decimal.Min(rmdRequired, balances.TaxDeferred)
	if rmd.IsNegative() {
		rmd = decimal.Zero
	}
	plan.TaxDeferred = rmd

	remaining := need.Sub(rmd)
	if remaining.IsNegative() {
		// The distribution exceeded the need; the excess is redeposited into
		// the taxable category.
		plan.RedepositToTaxable = remaining.Neg()
		return plan
	}

	take := decimal.Min(remaining, balances.Taxable)
	plan.Taxable = take
	remaining = remaining.Sub(take)

	if remaining.IsPositive() {
		take = decimal.Min(remaining, balances.TaxDeferred.Sub(plan.TaxDeferred))
		plan.TaxDeferred = plan.TaxDeferred.Add(take)
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		take = decimal.Min(remaining, balances.TaxFree)
		plan.TaxFree = take
		remaining = remaining.Sub(take)
	}

	if remaining.IsPositive() {
		plan.Unmet = remaining
	}
	return plan
}
