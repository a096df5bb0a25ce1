package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"plancheck/internal/model"
)

// Fingerprint derives a stable identity for a segment's evaluated
// content: category, view and evidence. Two segments with the same
// fingerprint are guaranteed to produce the same evaluation outcome,
// which is what makes the run-scoped memo safe.
func Fingerprint(category model.SegmentCategory, view model.ViewType, evidence []model.EvidenceItem) string {
	payload := struct {
		Category model.SegmentCategory `json:"category"`
		View     model.ViewType        `json:"view"`
		Evidence []model.EvidenceItem  `json:"evidence"`
	}{category, view, evidence}

	data, err := json.Marshal(payload)
	if err != nil {
		// Marshaling these types cannot fail; keep a non-colliding fallback anyway.
		data = []byte(string(category) + string(view))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
