package model

// SegmentCategory is the closed set of plan region types the classifier emits
type SegmentCategory string

const (
	CategoryWallSection      SegmentCategory = "wall-section"
	CategoryRoomLayout       SegmentCategory = "room-layout"
	CategoryDoorDetail       SegmentCategory = "door-detail"
	CategoryWindowDetail     SegmentCategory = "window-detail"
	CategorySectionView      SegmentCategory = "section-view"
	CategoryStructuralDetail SegmentCategory = "structural-detail"
	CategoryUnknown          SegmentCategory = "unknown"
)

// ViewType describes the projection a segment was drawn in
type ViewType string

const (
	ViewTop     ViewType = "top-view"
	ViewSection ViewType = "side-section"
	ViewUnknown ViewType = "unknown"
)

// SegmentState is the orchestrator lifecycle state of one segment
type SegmentState string

const (
	StatePending    SegmentState = "pending"
	StatePreparing  SegmentState = "preparing"
	StatePrepared   SegmentState = "prepared"
	StateEvaluating SegmentState = "evaluating"
	StateDone       SegmentState = "done"
	StateError      SegmentState = "error"
)

// SegmentInput is one plan region submitted for validation
type SegmentInput struct {
	SegmentID string `json:"segmentId" bson:"segmentId"`
	ImageRef  string `json:"imageRef,omitempty" bson:"imageRef,omitempty"` // object-store key, resolved by the evidence producer
	Label     string `json:"label,omitempty" bson:"label,omitempty"`       // optional user annotation
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// SegmentAnalysis is the raw payload returned by the evidence producer
// for one segment. Fields are heterogeneous and possibly partial; the
// classifier and evidence contract decide what is usable.
type SegmentAnalysis struct {
	Description  string        `json:"description"`
	DetectedText []string      `json:"detectedText,omitempty"`
	Measurements []Measurement `json:"measurements,omitempty"`
	Elements     []string      `json:"elements,omitempty"` // structural elements, e.g. "external_wall", "lintel"
	ViewHint     string        `json:"viewHint,omitempty"` // "top", "section", or empty
}

// Measurement is a single dimension read off the drawing
type Measurement struct {
	Label string  `json:"label"` // what was measured, e.g. "wall thickness"
	Value float64 `json:"value"`
	Unit  string  `json:"unit"` // "mm", "cm", "m", "m2", "m3"
}
