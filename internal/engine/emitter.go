package engine

import "plancheck/internal/model"

// Emitter receives the ordered progress event sequence. The
// orchestrator guarantees events arrive in original segment order;
// implementations only need to forward them.
type Emitter interface {
	Emit(event model.StreamEvent)
}

// NopEmitter discards events; used by the synchronous call path
type NopEmitter struct{}

func (NopEmitter) Emit(model.StreamEvent) {}

// MultiEmitter fans one event out to several sinks, e.g. the NDJSON
// stream and the WebSocket hub at the same time
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(event model.StreamEvent) {
	for _, e := range m {
		e.Emit(event)
	}
}

// EmitterFunc adapts a function to the Emitter interface
type EmitterFunc func(event model.StreamEvent)

func (f EmitterFunc) Emit(event model.StreamEvent) { f(event) }
