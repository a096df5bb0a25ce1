package rules

import (
	"fmt"
	"sort"

	"plancheck/internal/catalog"
	"plancheck/internal/model"
)

// Input is what a single validator invocation may consult: the
// segment's own evidence plus any run-derived items merged in by the
// orchestrator. Validators never mutate it.
type Input struct {
	SegmentID string
	Category  model.SegmentCategory
	ViewType  model.ViewType
	Evidence  []model.EvidenceItem
}

// Outcome reports which internal rules a validator actually evaluated
// and the violations it found. An empty outcome is an abstention.
type Outcome struct {
	EvaluatedRules []string
	Violations     []model.RuleResult
}

// Validator is one check function applicable to a segment category
type Validator struct {
	Name  string
	Rules []string // internal rule IDs this validator can evaluate
	Fn    func(in Input) Outcome
}

// ruleSpec fixes the policy for one internal rule: which canonical
// requirement it maps to and how severe a breach is.
type ruleSpec struct {
	requirementID string
	severity      model.Severity
	description   string
}

// Internal rule identifiers. Several rules map onto the same canonical
// requirement; the registry owns that many-to-one mapping.
const (
	RuleWallThicknessStandard = "wall.thickness.standard"
	RuleWallThicknessParapet  = "wall.thickness.parapet"
	RuleWallThicknessReveal   = "wall.thickness.reveal"
	RuleWallThicknessBearing  = "wall.thickness.bearing"
	RuleWallThicknessWindow   = "wall.thickness.window"
	RuleRoomHeightMinimum     = "room.height.minimum"
	RuleRoomHeightException   = "room.height.exception"
	RuleDoorWidthClear        = "door.width.clear"
	RuleDoorWidthEscape       = "door.width.escape"
	RuleWindowAreaLight       = "window.area.light"
	RuleWindowAreaVent        = "window.area.vent"
	RuleLintelPresence        = "structure.lintel.presence"
	RuleSlabThickness         = "structure.slab.thickness"
)

var ruleTable = map[string]ruleSpec{
	RuleWallThicknessStandard: {"1.2", model.SeverityError, "exterior wall below minimum thickness"},
	RuleWallThicknessParapet:  {"1.2", model.SeverityError, "parapet below minimum wall thickness"},
	RuleWallThicknessReveal:   {"1.2", model.SeverityError, "window reveal below minimum wall thickness"},
	RuleWallThicknessBearing:  {"1.1", model.SeverityCritical, "load-bearing wall below minimum thickness"},
	RuleWallThicknessWindow:   {"1.3", model.SeverityError, "wall with window opening below minimum thickness"},
	RuleRoomHeightMinimum:     {"2.1", model.SeverityCritical, "clear room height below minimum"},
	RuleRoomHeightException:   {"2.2", model.SeverityError, "reduced-height exception conditions not met"},
	RuleDoorWidthClear:        {"3.1", model.SeverityError, "door clear width below minimum"},
	RuleDoorWidthEscape:       {"3.2", model.SeverityCritical, "escape-route door width below minimum"},
	RuleWindowAreaLight:       {"4.1", model.SeverityError, "window light area below required share of floor area"},
	RuleWindowAreaVent:        {"4.2", model.SeverityWarning, "ventilation opening below required share of floor area"},
	RuleLintelPresence:        {"6.1", model.SeverityCritical, "opening in load-bearing wall without a lintel"},
	RuleSlabThickness:         {"6.2", model.SeverityError, "floor slab below minimum thickness"},
}

// sectionOnly lists requirements that need a vertical section to be
// evaluated; a top-view segment never yields them as candidates.
var sectionOnly = map[string]bool{
	"2.1": true,
	"2.2": true,
}

// Registry holds the static dispatch tables: segment category to
// applicable validators, and internal rule ID to canonical requirement.
// It is read-only after construction and shared process-wide.
type Registry struct {
	validators map[model.SegmentCategory][]Validator
	rules      map[string]ruleSpec
}

// NewRegistry builds the static registry. Extending the catalog means
// adding a rule to ruleTable and wiring a validator here; nothing else
// changes.
func NewRegistry() *Registry {
	return &Registry{
		validators: map[model.SegmentCategory][]Validator{
			model.CategoryWallSection:      {WallThicknessValidator()},
			model.CategorySectionView:      {RoomHeightValidator(), SlabThicknessValidator()},
			model.CategoryRoomLayout:       {DoorWidthValidator()},
			model.CategoryDoorDetail:       {DoorWidthValidator()},
			model.CategoryWindowDetail:     {WindowAreaValidator()},
			model.CategoryStructuralDetail: {LintelValidator(), SlabThicknessValidator()},
		},
		rules: ruleTable,
	}
}

// ValidatorsFor returns the validators applicable to a category.
// Unknown categories get none: such segments flow through the pipeline
// but contribute nothing to coverage.
func (r *Registry) ValidatorsFor(cat model.SegmentCategory) []Validator {
	return r.validators[cat]
}

// RequirementFor maps an internal rule ID to its canonical requirement
func (r *Registry) RequirementFor(ruleID string) (string, bool) {
	spec, ok := r.rules[ruleID]
	if !ok {
		return "", false
	}
	return spec.requirementID, true
}

// CandidatesFor lists the canonical requirement IDs a segment of the
// given category and view could possibly check, sorted for stable
// output. Section-only requirements are pruned for non-section views.
func (r *Registry) CandidatesFor(cat model.SegmentCategory, view model.ViewType) []string {
	seen := map[string]bool{}
	for _, v := range r.validators[cat] {
		for _, ruleID := range v.Rules {
			spec, ok := r.rules[ruleID]
			if !ok {
				continue
			}
			if sectionOnly[spec.requirementID] && view != model.ViewSection {
				continue
			}
			seen[spec.requirementID] = true
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ValidateAgainst checks that every rule maps to a requirement the
// catalog actually publishes. A mismatch is a configuration error and
// fatal at startup, since the registry is consumed everywhere.
func (r *Registry) ValidateAgainst(cat *catalog.Catalog) error {
	for ruleID, spec := range r.rules {
		if _, ok := cat.Get(spec.requirementID); !ok {
			return fmt.Errorf("rule %s maps to unknown requirement %s", ruleID, spec.requirementID)
		}
	}
	return nil
}

// violation builds a RuleResult for a rule with its fixed severity and
// description. RequirementID is left unset; attribution happens at
// aggregation time so mapping-table updates retroactively apply.
func violation(ruleID, expected, actual string) model.RuleResult {
	spec := ruleTable[ruleID]
	return model.RuleResult{
		RuleID:      ruleID,
		Description: spec.description,
		Severity:    spec.severity,
		Expected:    expected,
		Actual:      actual,
	}
}
