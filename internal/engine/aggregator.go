package engine

import (
	"log"
	"sort"

	"plancheck/internal/catalog"
	"plancheck/internal/model"
	"plancheck/internal/rules"
)

// Aggregator folds per-segment results into the run-level coverage
// report. It is a pure function of its inputs: aggregating the same
// results twice yields an identical report, and recomputing after a
// mapping-table update only re-attributes existing violations.
type Aggregator struct {
	catalog  *catalog.Catalog
	registry *rules.Registry
}

// NewAggregator creates a new aggregator
func NewAggregator(cat *catalog.Catalog, registry *rules.Registry) *Aggregator {
	return &Aggregator{catalog: cat, registry: registry}
}

// Aggregate builds the coverage report. Segments in error state are
// excluded. A violation whose rule ID cannot be mapped is logged and
// moved to the unattributed side channel; it never fails the run and
// never influences any requirement status.
func (a *Aggregator) Aggregate(results []model.SegmentResult) *model.CoverageReport {
	evaluations := make(map[string]model.RequirementEvaluation, a.catalog.Size())
	for _, req := range a.catalog.All() {
		evaluations[req.ID] = model.RequirementEvaluation{
			RequirementID: req.ID,
			Category:      req.Category,
			Description:   req.Description,
			Severity:      req.Severity,
			Status:        model.StatusNotChecked,
		}
	}

	var unattributed []model.RuleResult
	checkedBy := make(map[string]map[string]bool) // requirement -> segment IDs

	recordChecked := func(reqID, segmentID string) {
		if _, ok := evaluations[reqID]; !ok {
			return
		}
		if checkedBy[reqID] == nil {
			checkedBy[reqID] = make(map[string]bool)
		}
		checkedBy[reqID][segmentID] = true
	}

	for _, res := range results {
		if res.State == model.StateError {
			continue
		}
		for _, reqID := range res.CheckedRequirements {
			recordChecked(reqID, res.SegmentID)
		}
		for _, v := range res.Violations {
			reqID, ok := a.registry.RequirementFor(v.RuleID)
			if !ok {
				log.Printf("Warning: dropping violation with unmappable rule id %q (segment %s)", v.RuleID, res.SegmentID)
				unattributed = append(unattributed, v)
				continue
			}
			eval, ok := evaluations[reqID]
			if !ok {
				log.Printf("Warning: rule %q maps to requirement %q missing from catalog", v.RuleID, reqID)
				unattributed = append(unattributed, v)
				continue
			}
			v.RequirementID = reqID
			eval.Violations = append(eval.Violations, v)
			evaluations[reqID] = eval
			recordChecked(reqID, res.SegmentID)
		}
	}

	stats := model.CoverageStatistics{Total: a.catalog.Size()}
	byCategory := make(map[string][]string)
	var missing []model.MissingSegment

	// Iterate in catalog order so every derived list is deterministic.
	for _, req := range a.catalog.All() {
		eval := evaluations[req.ID]
		eval.SegmentsChecked = sortedKeys(checkedBy[req.ID])

		switch {
		case len(eval.Violations) > 0:
			// Sticky: one real violation fails the requirement no matter
			// how many other segments pass it.
			eval.Status = model.StatusFailed
			stats.Failed++
		case len(eval.SegmentsChecked) > 0:
			eval.Status = model.StatusPassed
			stats.Passed++
		default:
			eval.Status = model.StatusNotChecked
			stats.NotChecked++
			missing = append(missing, model.MissingSegment{
				RequirementID:     req.ID,
				Category:          req.Category,
				NeededSegmentType: req.RecommendedSegment,
			})
		}

		evaluations[req.ID] = eval
		byCategory[req.Category] = append(byCategory[req.Category], req.ID)
	}

	stats.Checked = stats.Passed + stats.Failed
	if stats.Total > 0 {
		stats.CoveragePercentage = 100 * float64(stats.Checked) / float64(stats.Total)
		stats.PassPercentage = 100 * float64(stats.Passed) / float64(stats.Total)
	}

	return &model.CoverageReport{
		Statistics:             stats,
		Evaluations:            evaluations,
		ByCategory:             byCategory,
		MissingSegmentsNeeded:  missing,
		UnattributedViolations: unattributed,
	}
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
