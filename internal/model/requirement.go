package model

// Severity classifies how serious a requirement breach is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

// Requirement is one numbered rule from the published catalog.
// The catalog is loaded once at startup and never mutated.
type Requirement struct {
	ID          string   `json:"id" bson:"id" yaml:"id"`                   // canonical dotted identifier, e.g. "2.2"
	Category    string   `json:"category" bson:"category" yaml:"category"` // human label, e.g. "Room heights"
	Description string   `json:"description" bson:"description" yaml:"description"`
	Severity    Severity `json:"severity" bson:"severity" yaml:"severity"`

	// RecommendedSegment is the segment type a user should supply
	// when this requirement ends up not checked.
	RecommendedSegment SegmentCategory `json:"recommendedSegment" bson:"recommendedSegment" yaml:"recommendedSegment"`
}
