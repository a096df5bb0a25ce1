package model

import "time"

// RunStatus is the lifecycle state of a validation run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// ValidationRun groups one set of segments and the resulting coverage report.
// Stored per-segment results are the source of truth; coverage is recomputed
// from them whenever a historical run is re-read, so catalog or mapping-table
// updates retroactively improve older reports.
type ValidationRun struct {
	ID               string          `json:"id" bson:"_id"`
	Status           RunStatus       `json:"status" bson:"status"`
	Mode             string          `json:"mode,omitempty" bson:"mode,omitempty"` // "sync" or "stream"
	TotalSegments    int             `json:"totalSegments" bson:"totalSegments"`
	AnalyzedSegments []SegmentResult `json:"analyzedSegments" bson:"analyzedSegments"`
	Coverage         *CoverageReport `json:"coverage,omitempty" bson:"coverage,omitempty"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	CompletedAt      *time.Time      `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}
