package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancheck/internal/classify"
	"plancheck/internal/model"
	"plancheck/internal/rules"
)

type fakeAnalyzer struct {
	fn func(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error)
}

func (f *fakeAnalyzer) AnalyzeSegment(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
	return f.fn(ctx, seg)
}

type recordingEmitter struct {
	events []model.StreamEvent
}

func (r *recordingEmitter) Emit(event model.StreamEvent) {
	r.events = append(r.events, event)
}

type mapMemo struct {
	entries map[string]*model.SegmentResult
	hits    int
}

func newMapMemo() *mapMemo {
	return &mapMemo{entries: make(map[string]*model.SegmentResult)}
}

func (m *mapMemo) Get(ctx context.Context, runID, fingerprint string) (*model.SegmentResult, error) {
	if res, ok := m.entries[runID+"/"+fingerprint]; ok {
		m.hits++
		return res, nil
	}
	return nil, nil
}

func (m *mapMemo) Set(ctx context.Context, runID, fingerprint string, result *model.SegmentResult) error {
	m.entries[runID+"/"+fingerprint] = result
	return nil
}

func wallAnalysis(thickness float64) *model.SegmentAnalysis {
	return &model.SegmentAnalysis{
		Description: "wall section",
		Measurements: []model.Measurement{
			{Label: "wall thickness", Value: thickness, Unit: "cm"},
		},
		ViewHint: "section",
	}
}

func newTestOrchestrator(analyzer Analyzer, memo Memo) *Orchestrator {
	registry := rules.NewRegistry()
	return NewOrchestrator(analyzer, classify.NewClassifier(registry), registry, memo)
}

func segmentInputs(n int) []model.SegmentInput {
	segs := make([]model.SegmentInput, n)
	for i := range segs {
		segs[i] = model.SegmentInput{SegmentID: fmt.Sprintf("seg-%d", i)}
	}
	return segs
}

// Events must arrive in input order even when later segments finish
// their prepare work first.
func TestRunEmitsEventsInInputOrder(t *testing.T) {
	const n = 4
	analyzer := &fakeAnalyzer{fn: func(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
		// Reverse the completion order: seg-0 is slowest.
		var idx int
		fmt.Sscanf(seg.SegmentID, "seg-%d", &idx)
		time.Sleep(time.Duration(n-idx) * 10 * time.Millisecond)
		return wallAnalysis(30), nil
	}}

	o := newTestOrchestrator(analyzer, nil)
	emitter := &recordingEmitter{}

	results, err := o.Run(context.Background(), "run-1", segmentInputs(n), emitter)
	require.NoError(t, err)
	require.Len(t, results, n)

	type step struct {
		eventType model.EventType
		index     int
		state     model.SegmentState
	}
	var want []step
	want = append(want, step{model.EventRunStarted, 0, ""})
	for i := 0; i < n; i++ {
		want = append(want, step{model.EventSegmentProgress, i, model.StatePending})
	}
	for i := 0; i < n; i++ {
		want = append(want, step{model.EventSegmentProgress, i, model.StatePreparing})
		want = append(want, step{model.EventSegmentProgress, i, model.StatePrepared})
	}
	for i := 0; i < n; i++ {
		want = append(want, step{model.EventSegmentProgress, i, model.StateEvaluating})
		want = append(want, step{model.EventSegmentProgress, i, model.StateDone})
	}

	require.Len(t, emitter.events, len(want))
	for i, w := range want {
		ev := emitter.events[i]
		assert.Equal(t, w.eventType, ev.Type, "event %d", i)
		if w.eventType == model.EventSegmentProgress {
			assert.Equal(t, w.index, ev.SegmentIndex, "event %d", i)
			assert.Equal(t, w.state, ev.State, "event %d", i)
		}
	}

	// Done events carry the per-segment result.
	last := emitter.events[len(emitter.events)-1]
	require.NotNil(t, last.Result)
	assert.Equal(t, model.StateDone, last.Result.State)
}

func TestRunIsolatesSegmentFailures(t *testing.T) {
	analyzer := &fakeAnalyzer{fn: func(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
		if seg.SegmentID == "seg-1" {
			return nil, fmt.Errorf("vision backend rejected the image")
		}
		return wallAnalysis(30), nil
	}}

	o := newTestOrchestrator(analyzer, nil)
	emitter := &recordingEmitter{}

	results, err := o.Run(context.Background(), "run-1", segmentInputs(3), emitter)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, model.StateDone, results[0].State)
	assert.Equal(t, model.StateError, results[1].State)
	assert.Contains(t, results[1].FailureReason, "vision backend rejected")
	assert.Empty(t, results[1].CheckedRequirements)
	assert.Equal(t, model.StateDone, results[2].State)

	// The failed segment got an error event instead of prepared.
	var states []model.SegmentState
	for _, ev := range emitter.events {
		if ev.SegmentIndex == 1 && ev.Type == model.EventSegmentProgress {
			states = append(states, ev.State)
		}
	}
	assert.Equal(t, []model.SegmentState{model.StatePending, model.StatePreparing, model.StateError}, states)
}

func TestRunTimesOutSlowSegments(t *testing.T) {
	analyzer := &fakeAnalyzer{fn: func(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
		if seg.SegmentID == "seg-0" {
			select {
			case <-time.After(time.Second):
				return wallAnalysis(30), nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return wallAnalysis(30), nil
	}}

	o := newTestOrchestrator(analyzer, nil)
	o.SetPrepareTimeout(20 * time.Millisecond)

	results, err := o.Run(context.Background(), "run-1", segmentInputs(2), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.StateError, results[0].State)
	assert.Equal(t, model.StateDone, results[1].State)
}

func TestRunReusesMemoizedOutcomes(t *testing.T) {
	calls := 0
	analyzer := &fakeAnalyzer{fn: func(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
		calls++
		return wallAnalysis(20), nil
	}}

	memo := newMapMemo()
	o := newTestOrchestrator(analyzer, memo)
	o.SetConcurrency(1)

	results, err := o.Run(context.Background(), "run-1", segmentInputs(2), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 2, calls) // extraction still runs per segment
	assert.Equal(t, 1, memo.hits)

	assert.False(t, results[0].FromCache)
	assert.True(t, results[1].FromCache)
	assert.Equal(t, results[0].Fingerprint, results[1].Fingerprint)
	assert.Equal(t, results[0].Violations, results[1].Violations)

	// The reused outcome is re-addressed to the skipping segment.
	assert.Equal(t, "seg-1", results[1].SegmentID)
	assert.Equal(t, 1, results[1].Index)
}

func TestRunCancellationDiscardsResults(t *testing.T) {
	analyzer := &fakeAnalyzer{fn: func(ctx context.Context, seg model.SegmentInput) (*model.SegmentAnalysis, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	o := newTestOrchestrator(analyzer, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	results, err := o.Run(ctx, "run-1", segmentInputs(3), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}
