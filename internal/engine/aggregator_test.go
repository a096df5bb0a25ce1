package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancheck/internal/catalog"
	"plancheck/internal/model"
	"plancheck/internal/rules"
)

func newTestAggregator(t *testing.T) *Aggregator {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return NewAggregator(cat, rules.NewRegistry())
}

func doneResult(segmentID string, checked []string, violations ...model.RuleResult) model.SegmentResult {
	return model.SegmentResult{
		SegmentID:           segmentID,
		State:               model.StateDone,
		CheckedRequirements: checked,
		Violations:          violations,
	}
}

func TestAggregateNothingChecked(t *testing.T) {
	a := newTestAggregator(t)

	report := a.Aggregate(nil)

	assert.Equal(t, 11, report.Statistics.Total)
	assert.Equal(t, 0, report.Statistics.Checked)
	assert.Equal(t, 11, report.Statistics.NotChecked)
	assert.Zero(t, report.Statistics.CoveragePercentage)
	assert.Len(t, report.MissingSegmentsNeeded, 11)

	// Every gap names the segment type that would close it.
	for _, m := range report.MissingSegmentsNeeded {
		assert.NotEmpty(t, m.NeededSegmentType, m.RequirementID)
	}
}

func TestAggregateCheckedOnlyWhenEvaluated(t *testing.T) {
	a := newTestAggregator(t)

	report := a.Aggregate([]model.SegmentResult{
		doneResult("seg-1", []string{"3.1"}),
	})

	assert.Equal(t, model.StatusPassed, report.Evaluations["3.1"].Status)
	assert.Equal(t, []string{"seg-1"}, report.Evaluations["3.1"].SegmentsChecked)
	assert.Equal(t, 1, report.Statistics.Passed)
	assert.Equal(t, 1, report.Statistics.Checked)
	assert.Equal(t, 10, report.Statistics.NotChecked)

	// Everything the segment did not evaluate stays not_checked.
	assert.Equal(t, model.StatusNotChecked, report.Evaluations["3.2"].Status)
}

func TestAggregateStickyFailure(t *testing.T) {
	a := newTestAggregator(t)

	report := a.Aggregate([]model.SegmentResult{
		doneResult("seg-narrow", nil, model.RuleResult{
			RuleID:   rules.RuleDoorWidthClear,
			Severity: model.SeverityError,
			Expected: ">= 80 cm",
			Actual:   "75.0 cm",
		}),
		doneResult("seg-wide", []string{"3.1"}),
	})

	eval := report.Evaluations["3.1"]
	assert.Equal(t, model.StatusFailed, eval.Status)
	assert.Equal(t, []string{"seg-narrow", "seg-wide"}, eval.SegmentsChecked)
	require.Len(t, eval.Violations, 1)
	assert.Equal(t, "3.1", eval.Violations[0].RequirementID)
	assert.Equal(t, 1, report.Statistics.Failed)
	assert.Equal(t, 0, report.Statistics.Passed)
}

func TestAggregateUnattributedViolations(t *testing.T) {
	a := newTestAggregator(t)

	report := a.Aggregate([]model.SegmentResult{
		doneResult("seg-1", nil, model.RuleResult{
			RuleID:   "legacy.rule.gone",
			Severity: model.SeverityError,
		}),
	})

	// The violation is preserved for operators but fails nothing.
	require.Len(t, report.UnattributedViolations, 1)
	assert.Equal(t, "legacy.rule.gone", report.UnattributedViolations[0].RuleID)
	assert.Equal(t, 0, report.Statistics.Failed)
	assert.Equal(t, 11, report.Statistics.NotChecked)
}

func TestAggregateExcludesErrorSegments(t *testing.T) {
	a := newTestAggregator(t)

	report := a.Aggregate([]model.SegmentResult{
		{
			SegmentID:           "seg-broken",
			State:               model.StateError,
			CheckedRequirements: []string{"3.1"},
			Violations:          []model.RuleResult{{RuleID: rules.RuleDoorWidthClear}},
		},
	})

	assert.Equal(t, model.StatusNotChecked, report.Evaluations["3.1"].Status)
	assert.Equal(t, 0, report.Statistics.Checked)
	assert.Empty(t, report.UnattributedViolations)
}

func TestAggregateIsIdempotent(t *testing.T) {
	a := newTestAggregator(t)

	results := []model.SegmentResult{
		doneResult("seg-1", []string{"1.1", "1.2"}),
		doneResult("seg-2", nil, model.RuleResult{RuleID: rules.RuleSlabThickness}),
		doneResult("seg-3", []string{"2.1"}),
	}

	first := a.Aggregate(results)
	second := a.Aggregate(results)
	assert.Equal(t, first, second)
}

func TestAggregateStatisticsIdentities(t *testing.T) {
	a := newTestAggregator(t)

	report := a.Aggregate([]model.SegmentResult{
		doneResult("seg-1", []string{"1.1", "1.2", "2.1"}),
		doneResult("seg-2", []string{"3.1"}, model.RuleResult{RuleID: rules.RuleDoorWidthEscape}),
		doneResult("seg-3", nil, model.RuleResult{RuleID: rules.RuleLintelPresence}),
	})

	stats := report.Statistics
	assert.Equal(t, stats.Checked, stats.Passed+stats.Failed)
	assert.Equal(t, stats.Total, stats.Checked+stats.NotChecked)
	assert.InDelta(t, 100*float64(stats.Checked)/11, stats.CoveragePercentage, 1e-9)
}
