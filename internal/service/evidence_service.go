package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"plancheck/internal/config"
	"plancheck/internal/model"
)

// EvidenceService extracts structured evidence for one plan segment by
// calling the external vision model. When no API key is configured it
// falls back to a deterministic mock that parses the segment notes, so
// the pipeline stays exercisable in development.
type EvidenceService struct {
	config *config.AIConfig
	client *http.Client
}

// NewEvidenceService creates a new evidence service
func NewEvidenceService() *EvidenceService {
	cfg := config.DefaultAIConfig()
	return &EvidenceService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// AnalyzeSegment returns the raw analysis payload for one segment
func (s *EvidenceService) AnalyzeSegment(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
	if !s.config.IsEnabled() {
		return s.mockAnalyze(seg), nil
	}

	response, err := s.callGemini(ctx, seg)
	if err != nil {
		return nil, err
	}

	var analysis model.SegmentAnalysis
	if err := json.Unmarshal([]byte(response), &analysis); err != nil {
		return nil, fmt.Errorf("evidence producer returned unparseable JSON: %w", err)
	}
	return &analysis, nil
}

// callGemini makes a request to the Gemini API
func (s *EvidenceService) callGemini(ctx context.Context, seg model.SegmentInput) (string, error) {
	parts := []map[string]interface{}{
		{"text": s.buildExtractionPrompt(seg)},
	}
	if seg.ImageRef != "" {
		parts = append(parts, map[string]interface{}{
			"fileData": map[string]string{
				"mimeType": "image/png",
				"fileUri":  seg.ImageRef,
			},
		})
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

func (s *EvidenceService) buildExtractionPrompt(seg model.SegmentInput) string {
	return fmt.Sprintf(`You are extracting compliance evidence from one segment of an architectural drawing. Return ONLY valid JSON matching this schema:
{
  "description": "one sentence describing what the segment shows",
  "detectedText": ["text label as drawn"],
  "measurements": [{"label": "what was measured, e.g. wall thickness", "value": 36.5, "unit": "cm"}],
  "elements": ["structural elements present, e.g. external_wall, lintel, window, escape_route"],
  "viewHint": "top" or "section" or ""
}

Segment label: %s
Reviewer notes: %s

Read every dimension line, annotation and symbol you can. Use units exactly as drawn (mm, cm, m, m2, m3). If something is ambiguous, omit it rather than guessing.`,
		seg.Label, seg.Notes)
}

var mockMeasurementRe = regexp.MustCompile(`(?i)([a-z][a-z ]*?)[:=]\s*([0-9]+(?:\.[0-9]+)?)\s*(mm|cm|m2|m3|m)\b`)

// mockAnalyze derives an analysis payload from the segment notes alone.
// Notes like "wall thickness: 40 cm" become measurements; bracketed
// element lists like "[external_wall, window]" become elements.
func (s *EvidenceService) mockAnalyze(seg model.SegmentInput) *model.SegmentAnalysis {
	analysis := &model.SegmentAnalysis{
		Description: strings.TrimSpace(seg.Label + " " + seg.Notes),
	}

	for _, m := range mockMeasurementRe.FindAllStringSubmatch(seg.Notes, -1) {
		var value float64
		fmt.Sscanf(m[2], "%f", &value)
		analysis.Measurements = append(analysis.Measurements, model.Measurement{
			Label: strings.TrimSpace(strings.ToLower(m[1])),
			Value: value,
			Unit:  strings.ToLower(m[3]),
		})
	}

	if start := strings.Index(seg.Notes, "["); start >= 0 {
		if end := strings.Index(seg.Notes[start:], "]"); end > 0 {
			for _, e := range strings.Split(seg.Notes[start+1:start+end], ",") {
				if e = strings.TrimSpace(e); e != "" {
					analysis.Elements = append(analysis.Elements, e)
				}
			}
		}
	}

	if seg.Notes != "" {
		analysis.DetectedText = []string{seg.Notes}
	}
	return analysis
}
