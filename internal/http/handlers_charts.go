package http

import (
	"log/slog"
	"net/http"
	"strings"

	"campfin/internal/core"
	"campfin/internal/services"
)

// chartResponse wraps one chart bundle with the filter token the chart
// should currently apply.
type chartResponse struct {
	*services.Bundle
	Filter string `json:"filter"`
}

// handleChart serves GET /api/charts/{kind}. Bar charts accept
// ?view=percent|absolute (percent default); all charts accept
// ?election= to override the configured cycle.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	kind := strings.TrimPrefix(r.URL.Path, "/api/charts/")
	if kind == "" || strings.Contains(kind, "/") {
		writeError(w, r, http.StatusNotFound, "unknown chart")
		return
	}
	if !core.ValidChart(kind) {
		writeError(w, r, http.StatusNotFound, "unknown chart: "+kind)
		return
	}

	election := strings.TrimSpace(r.URL.Query().Get("election"))
	if election == "" {
		election = s.election
	}
	view := strings.TrimSpace(r.URL.Query().Get("view"))

	bundle, err := s.charts.Chart(r.Context(), election, kind, view)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart build failed",
			"chart", kind, "election", election, "error", err)
		writeError(w, r, http.StatusInternalServerError, "chart build failed")
		return
	}

	writeJSON(w, r, http.StatusOK, chartResponse{
		Bundle: bundle,
		Filter: s.coordinator.Effective(kind).String(),
	})
}
