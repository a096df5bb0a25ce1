package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"plancheck/internal/classify"
	"plancheck/internal/model"
	"plancheck/internal/rules"
)

const (
	// DefaultConcurrency caps parallel prepare tasks
	DefaultConcurrency = 4
	// DefaultPrepareTimeout bounds one segment's evidence extraction
	DefaultPrepareTimeout = 60 * time.Second
)

// Analyzer is the external evidence producer, consumed as a black box
// returning structured JSON for one segment.
type Analyzer interface {
	AnalyzeSegment(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error)
}

// Memo caches evaluation outcomes within a run, keyed by segment
// evidence fingerprint. A nil Memo disables skipping.
type Memo interface {
	Get(ctx context.Context, runID, fingerprint string) (*model.SegmentResult, error)
	Set(ctx context.Context, runID, fingerprint string, result *model.SegmentResult) error
}

// Orchestrator drives one validation run: concurrent prepare under a
// semaphore, cross-segment inference, then strictly sequential
// evaluation in original input order.
type Orchestrator struct {
	analyzer    Analyzer
	classifier  *classify.Classifier
	registry    *rules.Registry
	memo        Memo
	concurrency int64
	timeout     time.Duration
}

// NewOrchestrator creates an orchestrator. memo may be nil.
func NewOrchestrator(analyzer Analyzer, classifier *classify.Classifier, registry *rules.Registry, memo Memo) *Orchestrator {
	return &Orchestrator{
		analyzer:    analyzer,
		classifier:  classifier,
		registry:    registry,
		memo:        memo,
		concurrency: DefaultConcurrency,
		timeout:     DefaultPrepareTimeout,
	}
}

// SetConcurrency overrides the prepare-phase concurrency cap
func (o *Orchestrator) SetConcurrency(n int) {
	if n > 0 {
		o.concurrency = int64(n)
	}
}

// SetPrepareTimeout overrides the per-segment extraction timeout
func (o *Orchestrator) SetPrepareTimeout(d time.Duration) {
	if d > 0 {
		o.timeout = d
	}
}

// preparedSegment is the outcome of one segment's prepare phase
type preparedSegment struct {
	input          model.SegmentInput
	classification *model.Classification
	err            error
}

// Run executes both phases and returns one result per segment, in
// input order. A single segment's failure never aborts the run; the
// segment is marked error and excluded from coverage. Run only returns
// an error on cancellation, in which case partial results must be
// discarded by the caller.
func (o *Orchestrator) Run(ctx context.Context, runID string, segments []model.SegmentInput, emitter Emitter) ([]model.SegmentResult, error) {
	if emitter == nil {
		emitter = NopEmitter{}
	}

	emitter.Emit(model.StreamEvent{
		Type:          model.EventRunStarted,
		RunID:         runID,
		TotalSegments: len(segments),
	})

	prepared, err := o.prepare(ctx, runID, segments, emitter)
	if err != nil {
		return nil, err
	}

	classifications := make([]*model.Classification, len(prepared))
	for i, p := range prepared {
		classifications[i] = p.classification
	}
	derived := InferDerivedEvidence(classifications)

	return o.evaluate(ctx, runID, prepared, derived, emitter)
}

// prepare runs classification and evidence extraction concurrently
// under the semaphore cap. Progress events are buffered per segment
// and flushed in original input order, so the client observes stable
// monotonic progress regardless of completion order.
func (o *Orchestrator) prepare(ctx context.Context, runID string, segments []model.SegmentInput, emitter Emitter) ([]preparedSegment, error) {
	for i, seg := range segments {
		emitter.Emit(progressEvent(runID, seg.SegmentID, i, model.StatePending, ""))
	}

	prepared := make([]preparedSegment, len(segments))
	done := make([]chan struct{}, len(segments))
	for i := range done {
		done[i] = make(chan struct{})
	}

	sem := semaphore.NewWeighted(o.concurrency)
	for i, seg := range segments {
		i, seg := i, seg
		go func() {
			defer close(done[i])
			prepared[i].input = seg

			if err := sem.Acquire(ctx, 1); err != nil {
				prepared[i].err = err
				return
			}
			defer sem.Release(1)

			segCtx, cancel := context.WithTimeout(ctx, o.timeout)
			defer cancel()

			analysis, err := o.analyzer.AnalyzeSegment(segCtx, seg)
			if err != nil {
				prepared[i].err = fmt.Errorf("evidence extraction failed: %w", err)
				return
			}
			prepared[i].classification = o.classifier.Classify(analysis)
		}()
	}

	// Flush buffered progress strictly in input order.
	for i, seg := range segments {
		select {
		case <-done[i]:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		emitter.Emit(progressEvent(runID, seg.SegmentID, i, model.StatePreparing, ""))
		if prepared[i].err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("Segment %s prepare failed: %v", seg.SegmentID, prepared[i].err)
			emitter.Emit(progressEvent(runID, seg.SegmentID, i, model.StateError, prepared[i].err.Error()))
		} else {
			emitter.Emit(progressEvent(runID, seg.SegmentID, i, model.StatePrepared, ""))
		}
	}

	return prepared, nil
}

// evaluate runs strictly sequentially in input order so that the
// memo's skip semantics are stable and reproducible across runs.
func (o *Orchestrator) evaluate(ctx context.Context, runID string, prepared []preparedSegment, derived []model.EvidenceItem, emitter Emitter) ([]model.SegmentResult, error) {
	results := make([]model.SegmentResult, 0, len(prepared))

	for i, p := range prepared {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if p.err != nil {
			results = append(results, model.SegmentResult{
				SegmentID:     p.input.SegmentID,
				Index:         i,
				State:         model.StateError,
				FailureReason: p.err.Error(),
			})
			continue
		}

		emitter.Emit(progressEvent(runID, p.input.SegmentID, i, model.StateEvaluating, ""))

		result := o.evaluateSegment(ctx, runID, i, p, derived)
		results = append(results, result)

		ev := progressEvent(runID, p.input.SegmentID, i, model.StateDone, "")
		ev.Result = &result
		emitter.Emit(ev)
	}

	return results, nil
}

// evaluateSegment runs every validator applicable to the segment's
// category. checked requirements are the union of what the validators
// actually evaluated and anything reachable through mapped violations;
// the classifier's candidate list alone never counts as checked.
func (o *Orchestrator) evaluateSegment(ctx context.Context, runID string, index int, p preparedSegment, derived []model.EvidenceItem) model.SegmentResult {
	cls := p.classification
	fingerprint := Fingerprint(cls.PrimaryCategory, cls.ViewType, cls.Evidence)

	if o.memo != nil {
		if cached, err := o.memo.Get(ctx, runID, fingerprint); err == nil && cached != nil {
			reused := *cached
			reused.SegmentID = p.input.SegmentID
			reused.Index = index
			reused.FromCache = true
			return reused
		}
	}

	evidence := cls.Evidence
	if len(derived) > 0 {
		evidence = make([]model.EvidenceItem, 0, len(cls.Evidence)+len(derived))
		evidence = append(evidence, cls.Evidence...)
		evidence = append(evidence, derived...)
	}

	in := rules.Input{
		SegmentID: p.input.SegmentID,
		Category:  cls.PrimaryCategory,
		ViewType:  cls.ViewType,
		Evidence:  evidence,
	}

	checked := make(map[string]bool)
	var violations []model.RuleResult
	for _, v := range o.registry.ValidatorsFor(cls.PrimaryCategory) {
		outcome := v.Fn(in)
		for _, ruleID := range outcome.EvaluatedRules {
			if reqID, ok := o.registry.RequirementFor(ruleID); ok {
				checked[reqID] = true
			}
		}
		for _, violation := range outcome.Violations {
			if reqID, ok := o.registry.RequirementFor(violation.RuleID); ok {
				violation.RequirementID = reqID
				checked[reqID] = true
			}
			violations = append(violations, violation)
		}
	}

	checkedIDs := make([]string, 0, len(checked))
	for id := range checked {
		checkedIDs = append(checkedIDs, id)
	}
	sort.Strings(checkedIDs)

	result := model.SegmentResult{
		SegmentID:           p.input.SegmentID,
		Index:               index,
		State:               model.StateDone,
		Category:            cls.PrimaryCategory,
		ViewType:            cls.ViewType,
		Violations:          violations,
		CheckedRequirements: checkedIDs,
		Summary:             summarize(cls, checkedIDs, violations),
		Fingerprint:         fingerprint,
	}

	if o.memo != nil {
		if err := o.memo.Set(ctx, runID, fingerprint, &result); err != nil {
			log.Printf("Warning: failed to memoize segment %s: %v", p.input.SegmentID, err)
		}
	}
	return result
}

func summarize(cls *model.Classification, checked []string, violations []model.RuleResult) string {
	if cls.PrimaryCategory == model.CategoryUnknown {
		return "segment category unknown; no requirements evaluated"
	}
	if len(checked) == 0 {
		return fmt.Sprintf("classified as %s but evidence was insufficient for every applicable requirement", cls.PrimaryCategory)
	}
	if len(violations) == 0 {
		return fmt.Sprintf("checked %d requirement(s) as %s, no violations", len(checked), cls.PrimaryCategory)
	}
	return fmt.Sprintf("checked %d requirement(s) as %s, found %d violation(s)", len(checked), cls.PrimaryCategory, len(violations))
}

func progressEvent(runID, segmentID string, index int, state model.SegmentState, message string) model.StreamEvent {
	return model.StreamEvent{
		Type:         model.EventSegmentProgress,
		RunID:        runID,
		SegmentID:    segmentID,
		SegmentIndex: index,
		State:        state,
		Message:      message,
	}
}
