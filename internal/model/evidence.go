package model

// EvidenceType tags what kind of fact an evidence item carries
type EvidenceType string

const (
	EvidenceDimension  EvidenceType = "dimension"
	EvidenceText       EvidenceType = "text"
	EvidenceStructural EvidenceType = "structural_element"
	EvidenceDerived    EvidenceType = "derived" // produced by cross-segment inference, not read off one drawing
	EvidenceMissing    EvidenceType = "missing"
)

// EvidenceItem is one structured fact extracted for a segment.
// An item belongs to exactly one segment, except derived items which
// are attributed to the requirement they support.
type EvidenceItem struct {
	Type     EvidenceType `json:"evidenceType" bson:"evidenceType"`
	Label    string       `json:"label,omitempty" bson:"label,omitempty"` // e.g. "wall thickness", "external_wall_count"
	Value    float64      `json:"value,omitempty" bson:"value,omitempty"`
	Unit     string       `json:"unit,omitempty" bson:"unit,omitempty"`
	Text     string       `json:"text,omitempty" bson:"text,omitempty"`
	Location string       `json:"location,omitempty" bson:"location,omitempty"`
}
