package model

// RequirementStatus is the per-run outcome for one catalog requirement
type RequirementStatus string

const (
	StatusPassed     RequirementStatus = "passed"
	StatusFailed     RequirementStatus = "failed"
	StatusNotChecked RequirementStatus = "not_checked"
)

// RequirementEvaluation aggregates everything a run learned about one requirement.
// Status is failed iff at least one violation maps here; passed iff at least one
// segment checked it and no violation maps here; not_checked otherwise.
type RequirementEvaluation struct {
	RequirementID   string            `json:"requirementId" bson:"requirementId"`
	Category        string            `json:"category" bson:"category"`
	Description     string            `json:"description" bson:"description"`
	Severity        Severity          `json:"severity" bson:"severity"`
	Status          RequirementStatus `json:"status" bson:"status"`
	SegmentsChecked []string          `json:"segmentsChecked,omitempty" bson:"segmentsChecked,omitempty"`
	Violations      []RuleResult      `json:"violations,omitempty" bson:"violations,omitempty"`
}

// CoverageStatistics are simple ratios over the catalog size
type CoverageStatistics struct {
	Total              int     `json:"total" bson:"total"`
	Checked            int     `json:"checked" bson:"checked"`
	Passed             int     `json:"passed" bson:"passed"`
	Failed             int     `json:"failed" bson:"failed"`
	NotChecked         int     `json:"notChecked" bson:"notChecked"`
	CoveragePercentage float64 `json:"coveragePercentage" bson:"coveragePercentage"`
	PassPercentage     float64 `json:"passPercentage" bson:"passPercentage"`
}

// MissingSegment recommends what to supply next for an unchecked requirement
type MissingSegment struct {
	RequirementID     string          `json:"requirementId" bson:"requirementId"`
	Category          string          `json:"category" bson:"category"`
	NeededSegmentType SegmentCategory `json:"neededSegmentType" bson:"neededSegmentType"`
}

// CoverageReport is the run-level aggregate, written once per run.
// UnattributedViolations holds violations whose internal rule ID could not
// be mapped to a catalog requirement; they do not affect any status.
type CoverageReport struct {
	Statistics             CoverageStatistics               `json:"statistics" bson:"statistics"`
	Evaluations            map[string]RequirementEvaluation `json:"evaluations" bson:"evaluations"`
	ByCategory             map[string][]string              `json:"byCategory" bson:"byCategory"` // category label -> requirement IDs
	MissingSegmentsNeeded  []MissingSegment                 `json:"missingSegmentsNeeded" bson:"missingSegmentsNeeded"`
	UnattributedViolations []RuleResult                     `json:"unattributedViolations,omitempty" bson:"unattributedViolations,omitempty"`
}
