package handler

import (
	"net/http"

	"plancheck/internal/catalog"
)

// RequirementHandler serves the requirement catalog
type RequirementHandler struct {
	catalog *catalog.Catalog
}

// NewRequirementHandler creates a new requirement handler
func NewRequirementHandler(cat *catalog.Catalog) *RequirementHandler {
	return &RequirementHandler{catalog: cat}
}

// List handles GET /v1/requirements
func (h *RequirementHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":        h.catalog.Size(),
		"requirements": h.catalog.All(),
	})
}
