package classify

import (
	"fmt"
	"strings"

	"plancheck/internal/model"
	"plancheck/internal/rules"
)

// minConfidence is the floor below which a segment is classified
// unknown and contributes nothing to coverage.
const minConfidence = 0.3

// categoryOrder is the tie-break priority for the closed-enum
// category decision.
var categoryOrder = []model.SegmentCategory{
	model.CategoryWallSection,
	model.CategorySectionView,
	model.CategoryRoomLayout,
	model.CategoryDoorDetail,
	model.CategoryWindowDetail,
	model.CategoryStructuralDetail,
}

var categoryKeywords = map[model.SegmentCategory][]string{
	model.CategoryWallSection:      {"wall", "thickness", "masonry", "parapet"},
	model.CategorySectionView:      {"section", "cross-section", "elevation", "clear height", "room height"},
	model.CategoryRoomLayout:       {"floor plan", "layout", "plan view", "room arrangement", "grundriss"},
	model.CategoryDoorDetail:       {"door"},
	model.CategoryWindowDetail:     {"window", "glazing"},
	model.CategoryStructuralDetail: {"lintel", "slab", "beam", "column", "foundation", "reinforcement"},
}

// Classifier turns a raw analysis payload into a canonical category
// plus the candidate requirement list for that category and view.
type Classifier struct {
	registry *rules.Registry
}

// NewClassifier creates a new classifier
func NewClassifier(registry *rules.Registry) *Classifier {
	return &Classifier{registry: registry}
}

// Classify maps one segment's raw analysis to a classification. It
// never fails: an unusable payload yields category unknown with an
// empty candidate list, and the segment still flows through the
// pipeline without ever counting as checked.
func (c *Classifier) Classify(analysis *model.SegmentAnalysis) *model.Classification {
	text := corpus(analysis)

	scores := make(map[model.SegmentCategory]int, len(categoryOrder))
	for cat, keywords := range categoryKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				scores[cat]++
			}
		}
	}

	primary := model.CategoryUnknown
	best := 0
	for _, cat := range categoryOrder {
		if scores[cat] > best {
			primary = cat
			best = scores[cat]
		}
	}

	var secondary []model.SegmentCategory
	for _, cat := range categoryOrder {
		if cat != primary && scores[cat] > 0 {
			secondary = append(secondary, cat)
		}
	}

	view := detectView(analysis, text)
	confidence := scoreConfidence(best, analysis)
	if confidence < minConfidence {
		primary = model.CategoryUnknown
	}

	evidence := extractEvidence(analysis)
	missing := missingInformation(analysis, view)

	cls := &model.Classification{
		PrimaryCategory:     primary,
		SecondaryCategories: secondary,
		Confidence:          confidence,
		ViewType:            view,
		Evidence:            evidence,
		MissingInformation:  missing,
	}

	if primary == model.CategoryUnknown {
		cls.RelevantRequirements = []string{}
		cls.Explanation = "segment content could not be matched to a known plan category"
		return cls
	}

	cls.RelevantRequirements = c.registry.CandidatesFor(primary, view)
	cls.Explanation = fmt.Sprintf("classified as %s (%s) from %d keyword match(es); %d candidate requirement(s)",
		primary, view, best, len(cls.RelevantRequirements))
	return cls
}

// corpus flattens the payload's free-form fields for keyword matching
func corpus(analysis *model.SegmentAnalysis) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(analysis.Description))
	for _, t := range analysis.DetectedText {
		sb.WriteByte(' ')
		sb.WriteString(strings.ToLower(t))
	}
	for _, m := range analysis.Measurements {
		sb.WriteByte(' ')
		sb.WriteString(strings.ToLower(m.Label))
	}
	for _, e := range analysis.Elements {
		sb.WriteByte(' ')
		sb.WriteString(strings.ToLower(strings.ReplaceAll(e, "_", " ")))
	}
	return sb.String()
}

func detectView(analysis *model.SegmentAnalysis, text string) model.ViewType {
	switch strings.ToLower(analysis.ViewHint) {
	case "top", "top-view", "plan":
		return model.ViewTop
	case "section", "side-section", "elevation":
		return model.ViewSection
	}
	if strings.Contains(text, "section") || strings.Contains(text, "elevation") {
		return model.ViewSection
	}
	if strings.Contains(text, "floor plan") || strings.Contains(text, "plan view") || strings.Contains(text, "top view") {
		return model.ViewTop
	}
	return model.ViewUnknown
}

// scoreConfidence combines keyword hits with payload shape: a payload
// carrying real measurements is worth more than prose alone.
func scoreConfidence(hits int, analysis *model.SegmentAnalysis) float64 {
	if hits == 0 {
		return 0.1
	}
	conf := 0.3 + 0.15*float64(hits)
	if len(analysis.Measurements) > 0 {
		conf += 0.1
	}
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}

// extractEvidence converts the raw payload into typed evidence items.
// Labels are normalized to lower case so the evidence contract can
// match them.
func extractEvidence(analysis *model.SegmentAnalysis) []model.EvidenceItem {
	var items []model.EvidenceItem
	for _, m := range analysis.Measurements {
		items = append(items, model.EvidenceItem{
			Type:  model.EvidenceDimension,
			Label: strings.ToLower(m.Label),
			Value: m.Value,
			Unit:  m.Unit,
		})
	}
	for _, t := range analysis.DetectedText {
		items = append(items, model.EvidenceItem{
			Type: model.EvidenceText,
			Text: t,
		})
	}
	for _, e := range analysis.Elements {
		items = append(items, model.EvidenceItem{
			Type:  model.EvidenceStructural,
			Label: strings.ToLower(e),
		})
	}
	return items
}

func missingInformation(analysis *model.SegmentAnalysis, view model.ViewType) []string {
	var missing []string
	if len(analysis.Measurements) == 0 {
		missing = append(missing, "no parseable measurements detected")
	}
	if view == model.ViewUnknown {
		missing = append(missing, "view type could not be determined")
	}
	return missing
}
