package model

// Classification is the classifier's verdict for one segment
type Classification struct {
	PrimaryCategory      SegmentCategory   `json:"primaryCategory"`
	SecondaryCategories  []SegmentCategory `json:"secondaryCategories,omitempty"`
	Confidence           float64           `json:"confidence"` // 0-1
	RelevantRequirements []string          `json:"relevantRequirements"`
	ViewType             ViewType          `json:"viewType"`
	Explanation          string            `json:"explanation"`
	Evidence             []EvidenceItem    `json:"evidence,omitempty"`
	MissingInformation   []string          `json:"missingInformation,omitempty"`
}

// RuleResult is one violation found by a validator against one segment.
// RuleID is the internal fine-grained identifier; RequirementID is the
// canonical one, derived via the registry at aggregation time.
type RuleResult struct {
	RuleID        string   `json:"ruleId" bson:"ruleId"`
	RequirementID string   `json:"requirementId,omitempty" bson:"requirementId,omitempty"`
	Description   string   `json:"description" bson:"description"`
	Severity      Severity `json:"severity" bson:"severity"`
	Expected      string   `json:"expected" bson:"expected"`
	Actual        string   `json:"actual" bson:"actual"`
}

// SegmentResult is everything the engine learned from one segment
type SegmentResult struct {
	SegmentID           string          `json:"segmentId" bson:"segmentId"`
	Index               int             `json:"index" bson:"index"`
	State               SegmentState    `json:"state" bson:"state"`
	Category            SegmentCategory `json:"category" bson:"category"`
	ViewType            ViewType        `json:"viewType" bson:"viewType"`
	Violations          []RuleResult    `json:"violations,omitempty" bson:"violations,omitempty"`
	CheckedRequirements []string        `json:"checkedRequirements,omitempty" bson:"checkedRequirements,omitempty"`
	Summary             string          `json:"summary,omitempty" bson:"summary,omitempty"`
	FailureReason       string          `json:"failureReason,omitempty" bson:"failureReason,omitempty"`
	Fingerprint         string          `json:"fingerprint,omitempty" bson:"fingerprint,omitempty"`
	FromCache           bool            `json:"fromCache,omitempty" bson:"fromCache,omitempty"`
}
