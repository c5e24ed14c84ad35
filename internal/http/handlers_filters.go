package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"campfin/internal/core"
	"campfin/internal/filter"
)

// filterStateResponse is the coordinator snapshot plus the effective
// token per chart and the excluded-candidates URL parameter, so a
// client can restore the full dashboard state from one response.
type filterStateResponse struct {
	filter.State
	Effective     map[string]string `json:"effective"`
	Excluded      []string          `json:"excluded"`
	ExcludedParam string            `json:"excludedParam"`
}

// handleFilterState serves GET /api/filters.
func (s *Server) handleFilterState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	effective := make(map[string]string, len(core.ChartKinds()))
	for _, kind := range core.ChartKinds() {
		effective[kind] = s.coordinator.Effective(kind).String()
	}

	excluded := s.excludedNames()
	writeJSON(w, r, http.StatusOK, filterStateResponse{
		State:         s.coordinator.Snapshot(),
		Effective:     effective,
		Excluded:      excluded,
		ExcludedParam: filter.EncodeExcluded(excluded),
	})
}

type filterClickRequest struct {
	Chart string `json:"chart,omitempty"`
	Token string `json:"token"`
	Leave bool   `json:"leave,omitempty"`
}

func decodeClick(w http.ResponseWriter, r *http.Request) (filterClickRequest, bool) {
	var req filterClickRequest
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	return req, true
}

// handleGlobalFilter serves POST /api/filters/global.
func (s *Server) handleGlobalFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClick(w, r)
	if !ok {
		return
	}
	s.coordinator.GlobalFilter(filter.Parse(req.Token))
	writeJSON(w, r, http.StatusOK, s.coordinator.Snapshot())
}

// handleChartFilter serves POST /api/filters/chart.
func (s *Server) handleChartFilter(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClick(w, r)
	if !ok {
		return
	}
	if !core.ValidChart(req.Chart) {
		writeError(w, r, http.StatusBadRequest, "unknown chart: "+req.Chart)
		return
	}
	s.coordinator.ChartFilter(req.Chart, filter.Parse(req.Token))
	writeJSON(w, r, http.StatusOK, s.coordinator.Snapshot())
}

// handleHover serves POST /api/filters/hover. A body with leave=true
// clears the highlight; anything else sets it.
func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeClick(w, r)
	if !ok {
		return
	}
	if req.Leave {
		s.coordinator.HoverLeave()
	} else {
		s.coordinator.HoverEnter(filter.Parse(req.Token))
	}
	writeJSON(w, r, http.StatusOK, s.coordinator.Snapshot())
}

type excludedRequest struct {
	Names []string `json:"names"`
	Param string   `json:"param,omitempty"`
}

// handleExcluded serves POST /api/filters/excluded. Accepts either a
// plain name list or the encoded URL parameter form.
func (s *Server) handleExcluded(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req excludedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	names := req.Names
	if len(names) == 0 && req.Param != "" {
		names = filter.DecodeExcluded(req.Param)
	}
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}

	s.excludedMu.Lock()
	s.excluded = cleaned
	s.excludedMu.Unlock()

	writeJSON(w, r, http.StatusOK, map[string]any{
		"excluded":      cleaned,
		"excludedParam": filter.EncodeExcluded(cleaned),
	})
}

func (s *Server) excludedNames() []string {
	s.excludedMu.Lock()
	defer s.excludedMu.Unlock()
	out := make([]string, len(s.excluded))
	copy(out, s.excluded)
	return out
}
