// Package charts turns normalized contribution rows into render-ready
// chart shapes: segmented bars and candidate line series. All builders
// are pure over their inputs; the only shared state is the color
// Registry, which is injected so tests can start from a clean slate.
package charts

import (
	"fmt"
	"sync"
)

// NeutralColor is the deterministic fallback for any category missing
// from a supplied color map.
const NeutralColor = "#9aa0a6"

// defaultPalette is the categorical palette cycled through for
// candidate colors. Order matters: assignment is first-seen.
var defaultPalette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#17becf",
	"#bcbd22",
	"#7f7f7f",
}

// candidateImages maps candidate names to headshot assets for
// campaigns that supplied one.
var candidateImages = map[string]string{}

// candidateFilingLinks maps candidate names to hand-maintained filing
// URLs for committees that lack the standard sboe/org id pair. An
// entry here wins over the derived link even when the ids are present.
var candidateFilingLinks = map[string]string{}

// Registry hands out stable candidate colors. The first request for a
// name takes the next palette color, cycling once the palette is
// exhausted; every later request returns the same color. Safe for
// concurrent use by overlapping chart builds.
type Registry struct {
	mu       sync.Mutex
	palette  []string
	assigned map[string]string
	next     int
}

// NewRegistry returns a registry over the default palette.
func NewRegistry() *Registry {
	return NewRegistryWithPalette(defaultPalette)
}

// NewRegistryWithPalette returns a registry over a custom palette.
// An empty palette degrades to the neutral color for every name.
func NewRegistryWithPalette(palette []string) *Registry {
	return &Registry{
		palette:  palette,
		assigned: make(map[string]string),
	}
}

// ColorFor returns the stable color for a candidate name, assigning
// one on first encounter.
func (r *Registry) ColorFor(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.assigned[name]; ok {
		return c
	}
	if len(r.palette) == 0 {
		r.assigned[name] = NeutralColor
		return NeutralColor
	}
	c := r.palette[r.next%len(r.palette)]
	r.assigned[name] = c
	r.next++
	return c
}

// Reset clears all assignments so a fresh pass re-assigns from the
// start of the palette. Called on full dashboard rebuilds and between
// tests.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assigned = make(map[string]string)
	r.next = 0
}

// Size reports how many names have colors assigned.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.assigned)
}

// ImageFor returns the headshot URL for a candidate, or empty.
func ImageFor(name string) string {
	return candidateImages[name]
}

// LinkFor resolves the filing-detail URL for a candidate. A
// hand-maintained override wins; otherwise the link is derived from
// the standard board-of-elections id pair when both parts are present.
func LinkFor(name, sboeID, orgGroupID string) string {
	if u, ok := candidateFilingLinks[name]; ok {
		return u
	}
	if sboeID != "" && orgGroupID != "" {
		return fmt.Sprintf("https://cf.ncsbe.gov/CFOrgLkup/DocumentGeneralResult/?SID=%s&OGID=%s", sboeID, orgGroupID)
	}
	return ""
}

// CategoryColor looks up a category label in a supplied color map,
// falling back to the neutral color rather than failing on labels the
// map never anticipated.
func CategoryColor(colors map[string]string, label string) string {
	if c, ok := colors[label]; ok {
		return c
	}
	return NeutralColor
}
