package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancheck/internal/model"
)

func TestMockAnalyzeParsesNotes(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	svc := NewEvidenceService()

	analysis, err := svc.AnalyzeSegment(context.Background(), model.SegmentInput{
		SegmentID: "seg-0",
		Label:     "North wall section",
		Notes:     "wall thickness: 36.5 cm, parapet: 250 mm [external_wall, window]",
	})
	require.NoError(t, err)

	require.Len(t, analysis.Measurements, 2)
	assert.Equal(t, model.Measurement{Label: "wall thickness", Value: 36.5, Unit: "cm"}, analysis.Measurements[0])
	assert.Equal(t, model.Measurement{Label: "parapet", Value: 250, Unit: "mm"}, analysis.Measurements[1])

	assert.Equal(t, []string{"external_wall", "window"}, analysis.Elements)
	require.Len(t, analysis.DetectedText, 1)
	assert.Contains(t, analysis.Description, "North wall section")
}

func TestMockAnalyzeHandlesBareNotes(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	svc := NewEvidenceService()

	analysis, err := svc.AnalyzeSegment(context.Background(), model.SegmentInput{
		SegmentID: "seg-0",
		Label:     "Unlabeled sketch",
	})
	require.NoError(t, err)

	assert.Empty(t, analysis.Measurements)
	assert.Empty(t, analysis.Elements)
	assert.Empty(t, analysis.DetectedText)
}

func TestMockAnalyzeAreaUnits(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	svc := NewEvidenceService()

	analysis, err := svc.AnalyzeSegment(context.Background(), model.SegmentInput{
		Notes: "floor area: 15 m2, window area: 2.1 m2",
	})
	require.NoError(t, err)

	require.Len(t, analysis.Measurements, 2)
	assert.Equal(t, "m2", analysis.Measurements[0].Unit)
	assert.Equal(t, 2.1, analysis.Measurements[1].Value)
}
