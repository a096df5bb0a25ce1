package model

// ValidateRequest starts a validation run over a set of segments
type ValidateRequest struct {
	RunID    string         `json:"runId,omitempty"` // optional; generated when empty
	Segments []SegmentInput `json:"segments"`
	Approved []string       `json:"approvedSegmentIds,omitempty"` // restrict the run to these segment IDs
	Mode     string         `json:"mode,omitempty"`
}

// ValidateResponse is the synchronous validation result
type ValidateResponse struct {
	ValidationID     string          `json:"validationId"`
	Status           RunStatus       `json:"status"`
	TotalSegments    int             `json:"totalSegments"`
	Passed           int             `json:"passed"`
	Failed           int             `json:"failed"`
	Warnings         int             `json:"warnings"`
	AnalyzedSegments []SegmentResult `json:"analyzedSegments"`
	Coverage         *CoverageReport `json:"coverage"`
}
