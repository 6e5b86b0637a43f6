package output

import (
	"github.com/planwise/retirement-engine/internal/domain"
)

// Report bundles a projection run with whichever analyses the caller
// requested. Formatters render whatever is present and skip nil sections.
type Report struct {
	Projection *domain.ProjectionResult `json:"projection"`

	Sensitivity     *domain.SensitivityResult    `json:"sensitivity,omitempty"`
	LowFrictionWins []domain.LowFrictionWin      `json:"lowFrictionWins,omitempty"`
	RankedLevers    []domain.SensitiveAssumption `json:"rankedLevers,omitempty"`

	Depletion   *domain.DepletionAnalysis   `json:"depletion,omitempty"`
	Runway      *domain.ReserveRunway       `json:"runway,omitempty"`
	IncomeFloor *domain.IncomeFloorAnalysis `json:"incomeFloor,omitempty"`

	SpendingComparison *domain.SpendingComparison `json:"spendingComparison,omitempty"`
}
