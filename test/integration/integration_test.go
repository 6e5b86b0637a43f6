package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/planwise/retirement-engine/internal/calculation"
	"github.com/planwise/retirement-engine/internal/config"
	"github.com/planwise/retirement-engine/internal/output"
)

func writeExampleSnapshot(t *testing.T) string {
	t.Helper()
	data, err := yaml.Marshal(config.ExampleSnapshot())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// TestEndToEndProjection exercises the full pipeline: load a snapshot from
// disk, build the projection input, run the simulator and every analyzer,
// and render the report through each formatter.
func TestEndToEndProjection(t *testing.T) {
	parser := config.NewSnapshotParser()
	snapshot, err := parser.LoadFromFile(writeExampleSnapshot(t))
	require.NoError(t, err)

	input, err := config.BuildProjectionInput(snapshot, nil)
	require.NoError(t, err)

	engine := calculation.NewProjectionEngine()
	result, err := engine.RunProjection(input)
	require.NoError(t, err)
	assert.Len(t, result.Records, input.MaxAge-input.CurrentAge+1)
	assert.True(t, result.Summary.ProjectedRetirementBalance.GreaterThan(result.Summary.StartingBalance))

	sensitivity, err := engine.AnalyzeSensitivity(input)
	require.NoError(t, err)
	assert.NotEmpty(t, sensitivity.TopLevers)

	depletion, err := engine.AnalyzeDepletion(input)
	require.NoError(t, err)
	assert.True(t, depletion.SustainableAnnualSpending.IsPositive())

	runway, err := engine.ReserveRunway(input)
	require.NoError(t, err)
	assert.True(t, runway.ReserveAmount.IsPositive())

	floor, err := engine.AnalyzeIncomeFloor(input)
	require.NoError(t, err)
	assert.NotEqual(t, "", string(floor.Status))

	comparison, err := engine.CompareSpending(input)
	require.NoError(t, err)
	assert.NotEmpty(t, comparison.Years)

	report := &output.Report{
		Projection:         result,
		Sensitivity:        sensitivity,
		LowFrictionWins:    engine.LowFrictionWins(sensitivity),
		RankedLevers:       engine.RankAssumptions(sensitivity),
		Depletion:          depletion,
		Runway:             runway,
		IncomeFloor:        floor,
		SpendingComparison: comparison,
	}
	for _, name := range []string{"console", "console-verbose", "csv", "json"} {
		formatter := output.GetFormatterByName(name)
		require.NotNil(t, formatter, name)
		data, err := formatter.Format(report)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

// TestOverridesChangeOutcome verifies that an override-built input produces
// a different, internally consistent projection.
func TestOverridesChangeOutcome(t *testing.T) {
	snapshot := config.ExampleSnapshot()

	baseInput, err := config.BuildProjectionInput(snapshot, nil)
	require.NoError(t, err)

	higherReturn := decimal.NewFromFloat(0.08)
	overriddenInput, err := config.BuildProjectionInput(snapshot, &config.Overrides{ExpectedReturn: &higherReturn})
	require.NoError(t, err)

	engine := calculation.NewProjectionEngine()
	base, err := engine.RunProjection(baseInput)
	require.NoError(t, err)
	overridden, err := engine.RunProjection(overriddenInput)
	require.NoError(t, err)

	assert.True(t, overridden.Summary.EndingBalance.GreaterThan(base.Summary.EndingBalance))

	baseHash, err := baseInput.Hash()
	require.NoError(t, err)
	overriddenHash, err := overriddenInput.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, baseHash, overriddenHash)

	// The stored baseline is stale against the overridden rebuild.
	staleness := engine.CheckProjectionStaleness(baseInput, overriddenInput)
	assert.True(t, staleness.IsStale)
	assert.Contains(t, staleness.ChangedFields, "expectedReturn")
}
