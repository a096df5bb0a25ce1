package engine

import (
	"strings"

	"plancheck/internal/model"
)

// InferDerivedEvidence runs after per-segment extraction and combines
// evidence across segments into derived items. Derived items belong to
// the run (attributed to the requirement they support), never to a
// source segment; the sources are left untouched.
//
// Currently inferred: the external wall count, read off room-layout
// segments, which the wall thickness policy needs to pick its minimum.
func InferDerivedEvidence(classifications []*model.Classification) []model.EvidenceItem {
	externalWalls := 0
	counted := false
	for _, cls := range classifications {
		if cls == nil || cls.PrimaryCategory != model.CategoryRoomLayout {
			continue
		}
		for _, item := range cls.Evidence {
			if item.Type == model.EvidenceStructural && strings.Contains(item.Label, "external") {
				externalWalls++
				counted = true
			}
		}
	}

	if !counted {
		return nil
	}
	return []model.EvidenceItem{{
		Type:  model.EvidenceDerived,
		Label: "external_wall_count",
		Value: float64(externalWalls),
		Text:  "inferred from room-layout segment(s)",
	}}
}
