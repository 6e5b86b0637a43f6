package domain

import "github.com/shopspring/decimal"

// TrajectoryStatus classifies planned spending against the sustainable level.
type TrajectoryStatus string

const (
	TrajectoryOnTrack      TrajectoryStatus = "on_track"
	TrajectoryUnderspend   TrajectoryStatus = "underspending"
	TrajectoryOverspending TrajectoryStatus = "overspending"
)

// PhaseSpending is the per-phase display breakdown of a depletion analysis.
type PhaseSpending struct {
	Phase           string          `json:"phase"`
	StartAge        int             `json:"startAge"`
	EndAge          int             `json:"endAge"`
	YearsInPhase    int             `json:"yearsInPhase"`
	MonthlySpending decimal.Decimal `json:"monthlySpending"`
}

// DepletionAnalysis reports the spending level consistent with spending the
// target share of the portfolio by the target age, with a protected reserve.
type DepletionAnalysis struct {
	PortfolioValue decimal.Decimal `json:"portfolioValue"`
	ReserveAmount  decimal.Decimal `json:"reserveAmount"`

	SustainableAnnualSpending  decimal.Decimal `json:"sustainableAnnualSpending"`
	SustainableMonthlySpending decimal.Decimal `json:"sustainableMonthlySpending"`
	PlannedAnnualSpending      decimal.Decimal `json:"plannedAnnualSpending"`

	TrajectoryStatus TrajectoryStatus `json:"trajectoryStatus"`
	PhaseBreakdown   []PhaseSpending  `json:"phaseBreakdown,omitempty"`
}

// ReserveRunway reports how long a protected reserve covers essential
// expenses net of guaranteed income. Unlimited is the sentinel for a floor
// that guaranteed income alone sustains; Years is meaningless when it is set.
type ReserveRunway struct {
	ReserveAmount decimal.Decimal `json:"reserveAmount"`
	Years         int             `json:"years"`
	Unlimited     bool            `json:"unlimited"`
}

// CoverageStatus classifies the guaranteed-income floor at retirement.
type CoverageStatus string

const (
	CoverageFull         CoverageStatus = "fully-covered"
	CoveragePartial      CoverageStatus = "partial"
	CoverageInsufficient CoverageStatus = "insufficient"
)

// IncomeFloorAnalysis compares guaranteed income against essential expenses
// at retirement.
type IncomeFloorAnalysis struct {
	GuaranteedIncomeAtRetirement  decimal.Decimal `json:"guaranteedIncomeAtRetirement"`
	EssentialExpensesAtRetirement decimal.Decimal `json:"essentialExpensesAtRetirement"`
	CoverageRatioAtRetirement     decimal.Decimal `json:"coverageRatioAtRetirement"`
	Status                        CoverageStatus  `json:"status"`
	// FloorEstablishedAge is the earliest age at which coverage first reaches
	// 1.0, nil when it never does within the projection horizon.
	FloorEstablishedAge *int `json:"floorEstablishedAge"`
}

// SpendingComparisonYear pairs flat and phase-adjusted spending for one age.
type SpendingComparisonYear struct {
	Age           int             `json:"age"`
	Flat          decimal.Decimal `json:"flat"`
	PhaseAdjusted decimal.Decimal `json:"phaseAdjusted"`
}

// SpendingComparison contrasts phase-aware spending against flat spending
// over a comparison window.
type SpendingComparison struct {
	Years              []SpendingComparisonYear `json:"years"`
	TotalFlat          decimal.Decimal          `json:"totalFlat"`
	TotalPhaseAdjusted decimal.Decimal          `json:"totalPhaseAdjusted"`
	Difference         decimal.Decimal          `json:"difference"`
}

// StalenessResult reports whether stored inputs diverge from freshly built
// ones, naming each changed field.
type StalenessResult struct {
	IsStale       bool     `json:"isStale"`
	ChangedFields []string `json:"changedFields"`
}
