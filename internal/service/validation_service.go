package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"plancheck/internal/cache"
	"plancheck/internal/engine"
	"plancheck/internal/model"
	"plancheck/internal/repository"
)

// ValidationService owns the run lifecycle: it drives the orchestrator
// over the submitted segments, aggregates coverage, persists the run and
// serves historical reads with coverage recomputed from the stored
// per-segment results.
type ValidationService interface {
	Validate(ctx context.Context, req *model.ValidateRequest) (*model.ValidateResponse, error)
	ValidateStream(ctx context.Context, req *model.ValidateRequest, emitter engine.Emitter) error
	GetRun(ctx context.Context, id string) (*model.ValidationRun, error)
	ListRuns(ctx context.Context, limit int64) ([]model.ValidationRun, error)
}

type validationService struct {
	orchestrator *engine.Orchestrator
	aggregator   *engine.Aggregator
	runRepo      repository.RunRepo
	reportCache  cache.ReportCache
	broadcaster  Broadcaster
}

// NewValidationService creates a new validation service. reportCache and
// broadcaster may be nil.
func NewValidationService(
	orchestrator *engine.Orchestrator,
	aggregator *engine.Aggregator,
	runRepo repository.RunRepo,
	reportCache cache.ReportCache,
	broadcaster Broadcaster,
) ValidationService {
	return &validationService{
		orchestrator: orchestrator,
		aggregator:   aggregator,
		runRepo:      runRepo,
		reportCache:  reportCache,
		broadcaster:  broadcaster,
	}
}

// Validate runs the full pipeline synchronously and returns the final
// report. Progress events are still fanned out to WebSocket observers
// of the run when a broadcaster is configured.
func (s *validationService) Validate(ctx context.Context, req *model.ValidateRequest) (*model.ValidateResponse, error) {
	runID, segments, err := s.admit(req)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, runID, req.Mode, segments, s.wsEmitter())
}

// ValidateStream runs the pipeline while forwarding every progress event
// to the given emitter; the terminal run_completed or run_error event
// carries the final response. A cancelled run is never persisted.
func (s *validationService) ValidateStream(ctx context.Context, req *model.ValidateRequest, emitter engine.Emitter) error {
	runID, segments, err := s.admit(req)
	if err != nil {
		emitter.Emit(model.StreamEvent{
			Type:    model.EventRunError,
			RunID:   req.RunID,
			Message: err.Error(),
		})
		return err
	}

	sinks := engine.MultiEmitter{emitter}
	if ws := s.wsEmitter(); ws != nil {
		sinks = append(sinks, ws)
	}

	resp, err := s.execute(ctx, runID, req.Mode, segments, sinks)
	if err != nil {
		sinks.Emit(model.StreamEvent{
			Type:    model.EventRunError,
			RunID:   runID,
			Message: err.Error(),
		})
		s.disconnect(runID)
		return err
	}

	sinks.Emit(model.StreamEvent{
		Type:          model.EventRunCompleted,
		RunID:         runID,
		TotalSegments: resp.TotalSegments,
		Response:      resp,
	})
	s.disconnect(runID)
	return nil
}

// admit validates the request, resolves the run ID and applies the
// reviewer's approved-segment filter.
func (s *validationService) admit(req *model.ValidateRequest) (string, []model.SegmentInput, error) {
	if req == nil || len(req.Segments) == 0 {
		return "", nil, fmt.Errorf("validation request contains no segments")
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	segments := req.Segments
	if len(req.Approved) > 0 {
		approved := make(map[string]bool, len(req.Approved))
		for _, id := range req.Approved {
			approved[id] = true
		}
		segments = make([]model.SegmentInput, 0, len(req.Segments))
		for _, seg := range req.Segments {
			if approved[seg.SegmentID] {
				segments = append(segments, seg)
			}
		}
		if len(segments) == 0 {
			return "", nil, fmt.Errorf("no submitted segment matches the approved list")
		}
	}

	return runID, segments, nil
}

func (s *validationService) execute(ctx context.Context, runID, mode string, segments []model.SegmentInput, emitter engine.Emitter) (*model.ValidateResponse, error) {
	if mode == "" {
		mode = "sync"
	}
	createdAt := time.Now()

	results, err := s.orchestrator.Run(ctx, runID, segments, emitter)
	if err != nil {
		// Cancellation: partial results are discarded, nothing is stored.
		return nil, err
	}

	report := s.aggregator.Aggregate(results)

	run := &model.ValidationRun{
		ID:               runID,
		Status:           model.RunStatusCompleted,
		Mode:             mode,
		TotalSegments:    len(segments),
		AnalyzedSegments: results,
		Coverage:         report,
		CreatedAt:        createdAt,
	}
	completedAt := time.Now()
	run.CompletedAt = &completedAt

	if s.runRepo != nil {
		if err := s.runRepo.Save(ctx, run); err != nil {
			log.Printf("Warning: failed to persist run %s: %v", runID, err)
		}
	}
	if s.reportCache != nil {
		if err := s.reportCache.SetReport(ctx, runID, report); err != nil {
			log.Printf("Warning: failed to cache report for run %s: %v", runID, err)
		}
	}

	return buildResponse(run, report), nil
}

// GetRun loads a stored run and recomputes its coverage from the stored
// per-segment results, so rule mapping or catalog updates retroactively
// apply to historical runs. Returns (nil, nil) when the run does not exist.
func (s *validationService) GetRun(ctx context.Context, id string) (*model.ValidationRun, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if run == nil {
		return nil, nil
	}

	if s.reportCache != nil {
		if cached, err := s.reportCache.GetReport(ctx, id); err == nil && cached != nil {
			run.Coverage = cached
			return run, nil
		}
	}

	report := s.aggregator.Aggregate(run.AnalyzedSegments)
	run.Coverage = report

	if s.reportCache != nil {
		if err := s.reportCache.SetReport(ctx, id, report); err != nil {
			log.Printf("Warning: failed to cache report for run %s: %v", id, err)
		}
	}
	return run, nil
}

func (s *validationService) ListRuns(ctx context.Context, limit int64) ([]model.ValidationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runRepo.List(ctx, limit)
}

// wsEmitter adapts the WebSocket broadcaster to the engine's emitter,
// fanning every progress event out to observers of the run.
func (s *validationService) wsEmitter() engine.Emitter {
	if s.broadcaster == nil {
		return nil
	}
	b := s.broadcaster
	return engine.EmitterFunc(func(event model.StreamEvent) {
		b.BroadcastToRun(event.RunID, string(event.Type), event)
	})
}

func (s *validationService) disconnect(runID string) {
	if s.broadcaster != nil {
		s.broadcaster.DisconnectRun(runID)
	}
}

// buildResponse derives the summary counts from the coverage report.
// Failed counts failed requirements at critical or standard severity;
// Warnings counts failed warning-level requirements separately.
func buildResponse(run *model.ValidationRun, report *model.CoverageReport) *model.ValidateResponse {
	resp := &model.ValidateResponse{
		ValidationID:     run.ID,
		Status:           run.Status,
		TotalSegments:    run.TotalSegments,
		AnalyzedSegments: run.AnalyzedSegments,
		Coverage:         report,
	}
	for _, eval := range report.Evaluations {
		switch eval.Status {
		case model.StatusPassed:
			resp.Passed++
		case model.StatusFailed:
			if eval.Severity == model.SeverityWarning {
				resp.Warnings++
			} else {
				resp.Failed++
			}
		}
	}
	return resp
}
