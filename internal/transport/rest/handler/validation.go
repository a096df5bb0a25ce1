package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"plancheck/internal/engine"
	"plancheck/internal/model"
	"plancheck/internal/service"
)

// ValidationHandler handles validation run endpoints
type ValidationHandler struct {
	validationSvc service.ValidationService
}

// NewValidationHandler creates a new validation handler
func NewValidationHandler(validationSvc service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationSvc: validationSvc}
}

// Create handles POST /v1/runs
func (h *ValidationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Segments) == 0 {
		writeError(w, http.StatusBadRequest, "segments are required")
		return
	}

	resp, err := h.validationSvc.Validate(r.Context(), &req)
	if err != nil {
		if r.Context().Err() != nil {
			// Client went away; the run was cancelled and discarded.
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Stream handles POST /v1/runs/stream. The response is
// newline-delimited JSON: one progress event per line, terminated by a
// run_completed event carrying the final report (or run_error).
// Closing the connection cancels the run.
func (h *ValidationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req model.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Segments) == 0 {
		writeError(w, http.StatusBadRequest, "segments are required")
		return
	}
	req.Mode = "stream"

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	emitter := engine.EmitterFunc(func(event model.StreamEvent) {
		if err := encoder.Encode(event); err != nil {
			return
		}
		flusher.Flush()
	})

	if err := h.validationSvc.ValidateStream(r.Context(), &req, emitter); err != nil {
		if r.Context().Err() == context.Canceled {
			log.Printf("Run stream aborted by client: %v", err)
			return
		}
		log.Printf("Run stream failed: %v", err)
	}
}

// Get handles GET /v1/runs/{runId}. Coverage is recomputed from the
// stored per-segment results on every read.
func (h *ValidationHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runId"]

	run, err := h.validationSvc.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

// List handles GET /v1/runs
func (h *ValidationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(20)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.validationSvc.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []model.ValidationRun{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total": len(runs),
		"runs":  runs,
	})
}
