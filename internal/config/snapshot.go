package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/planwise/retirement-engine/internal/domain"
)

// AccountCategory names the tax treatment of a snapshot account.
const (
	CategoryTaxDeferred = "tax_deferred"
	CategoryTaxFree     = "tax_free"
	CategoryTaxable     = "taxable"
)

// Account is one named account in a financial snapshot. The engine only
// cares about the category and balance; the name survives for display.
type Account struct {
	Name     string          `yaml:"name"`
	Category string          `yaml:"category"`
	Balance  decimal.Decimal `yaml:"balance"`
}

// FinancialSnapshot is the persisted picture of a household's finances, as
// stored by the upstream API. It is deliberately looser than the engine's
// ProjectionInput; the builder tightens it.
type FinancialSnapshot struct {
	CurrentAge    int `yaml:"current_age"`
	RetirementAge int `yaml:"retirement_age"`
	MaxAge        int `yaml:"max_age"`
	BaseYear      int `yaml:"base_year,omitempty"`

	Accounts []Account `yaml:"accounts"`

	AnnualContribution     decimal.Decimal               `yaml:"annual_contribution"`
	ContributionAllocation domain.ContributionAllocation `yaml:"contribution_allocation"`

	ExpectedReturn         decimal.Decimal `yaml:"expected_return"`
	InflationRate          decimal.Decimal `yaml:"inflation_rate"`
	ContributionGrowthRate decimal.Decimal `yaml:"contribution_growth_rate"`

	AnnualExpenses        decimal.Decimal `yaml:"annual_expenses"`
	EssentialExpenses     decimal.Decimal `yaml:"essential_expenses"`
	DiscretionaryExpenses decimal.Decimal `yaml:"discretionary_expenses"`

	SpendingPhases *domain.SpendingPhaseConfig `yaml:"spending_phases,omitempty"`

	AnnualHealthcareCosts   decimal.Decimal `yaml:"annual_healthcare_costs"`
	HealthcareInflationRate decimal.Decimal `yaml:"healthcare_inflation_rate"`

	IncomeStreams      []domain.IncomeStream `yaml:"income_streams"`
	AnnualDebtPayments decimal.Decimal       `yaml:"annual_debt_payments"`

	DepletionTarget *domain.DepletionTarget `yaml:"depletion_target,omitempty"`
	Reserve         *domain.ReserveConfig   `yaml:"reserve,omitempty"`
}

// Balances aggregates the snapshot's accounts by tax category.
func (fs *FinancialSnapshot) Balances() (domain.BalancesByType, error) {
	var balances domain.BalancesByType
	for _, account := range fs.Accounts {
		switch account.Category {
		case CategoryTaxDeferred:
			balances.TaxDeferred = balances.TaxDeferred.Add(account.Balance)
		case CategoryTaxFree:
			balances.TaxFree = balances.TaxFree.Add(account.Balance)
		case CategoryTaxable:
			balances.Taxable = balances.Taxable.Add(account.Balance)
		default:
			return domain.BalancesByType{}, fmt.Errorf("account %q has unknown category %q", account.Name, account.Category)
		}
	}
	return balances, nil
}

// SnapshotParser handles loading of financial snapshot files.
type SnapshotParser struct{}

// NewSnapshotParser creates a new snapshot parser.
func NewSnapshotParser() *SnapshotParser {
	return &SnapshotParser{}
}

// LoadFromFile loads a financial snapshot from a YAML file.
func (sp *SnapshotParser) LoadFromFile(filename string) (*FinancialSnapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var snapshot FinancialSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sp.ValidateSnapshot(&snapshot); err != nil {
		return nil, fmt.Errorf("snapshot validation failed: %w", err)
	}

	return &snapshot, nil
}

// ValidateSnapshot checks the snapshot for structural problems the builder
// cannot repair. Range checks on rates belong to the override layer; this
// catches snapshots that are unusable outright.
func (sp *SnapshotParser) ValidateSnapshot(snapshot *FinancialSnapshot) error {
	if snapshot.CurrentAge <= 0 {
		return fmt.Errorf("current age must be positive, got %d", snapshot.CurrentAge)
	}
	if snapshot.RetirementAge <= snapshot.CurrentAge {
		return fmt.Errorf("retirement age %d must be after current age %d", snapshot.RetirementAge, snapshot.CurrentAge)
	}
	if snapshot.MaxAge < snapshot.RetirementAge {
		return fmt.Errorf("max age %d must be at or after retirement age %d", snapshot.MaxAge, snapshot.RetirementAge)
	}
	if _, err := snapshot.Balances(); err != nil {
		return err
	}
	for i, account := range snapshot.Accounts {
		if account.Balance.IsNegative() {
			return fmt.Errorf("account %d (%s) has negative balance", i, account.Name)
		}
	}
	return nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// ExampleSnapshot returns a complete snapshot for documentation and smoke
// testing: a 45-year-old with mixed accounts, Social Security at 67, a
// three-phase spending plan and a long-term-care reserve.
func ExampleSnapshot() *FinancialSnapshot {
	return &FinancialSnapshot{
		CurrentAge:    45,
		RetirementAge: 65,
		MaxAge:        95,
		Accounts: []Account{
			{Name: "401(k)", Category: CategoryTaxDeferred, Balance: decimal.NewFromInt(450000)},
			{Name: "Roth IRA", Category: CategoryTaxFree, Balance: decimal.NewFromInt(120000)},
			{Name: "Brokerage", Category: CategoryTaxable, Balance: decimal.NewFromInt(180000)},
		},
		AnnualContribution: decimal.NewFromInt(30000),
		ContributionAllocation: domain.ContributionAllocation{
			TaxDeferred: decimal.NewFromInt(70),
			TaxFree:     decimal.NewFromInt(20),
			Taxable:     decimal.NewFromInt(10),
		},
		ExpectedReturn:         decimal.NewFromFloat(0.065),
		InflationRate:          decimal.NewFromFloat(0.025),
		ContributionGrowthRate: decimal.NewFromFloat(0.02),
		EssentialExpenses:      decimal.NewFromInt(55000),
		DiscretionaryExpenses:  decimal.NewFromInt(25000),
		SpendingPhases: &domain.SpendingPhaseConfig{
			Enabled: true,
			Phases: []domain.SpendingPhase{
				{
					ID:                      uuid.NewString(),
					Name:                    "Go-Go",
					StartAge:                65,
					DiscretionaryMultiplier: decimalPtr(decimal.NewFromFloat(1.2)),
				},
				{
					ID:                      uuid.NewString(),
					Name:                    "Slow-Go",
					StartAge:                75,
					DiscretionaryMultiplier: decimalPtr(decimal.NewFromFloat(0.8)),
				},
				{
					ID:                      uuid.NewString(),
					Name:                    "No-Go",
					StartAge:                85,
					EssentialMultiplier:     decimalPtr(decimal.NewFromFloat(0.9)),
					DiscretionaryMultiplier: decimalPtr(decimal.NewFromFloat(0.5)),
				},
			},
		},
		AnnualHealthcareCosts:   decimal.NewFromInt(8000),
		HealthcareInflationRate: decimal.NewFromFloat(0.05),
		IncomeStreams: []domain.IncomeStream{
			{
				ID:                uuid.NewString(),
				Name:              "Social Security",
				Type:              domain.IncomeSocialSecurity,
				AnnualAmount:      decimal.NewFromInt(32000),
				StartAge:          67,
				InflationAdjusted: true,
				IsGuaranteed:      true,
			},
		},
		AnnualDebtPayments: decimal.NewFromInt(12000),
		DepletionTarget: &domain.DepletionTarget{
			TargetPercentageSpent: decimal.NewFromInt(80),
			TargetAge:             90,
		},
		Reserve: &domain.ReserveConfig{
			Mode:     domain.ReserveModeDerived,
			Purposes: []string{"long-term-care"},
		},
	}
}
