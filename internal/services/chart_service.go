// Package services orchestrates chart builds: it pulls rows and
// rosters from a source, runs them through the transform pipeline and
// caches the resulting bundles for the HTTP layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"campfin/internal/cache"
	"campfin/internal/charts"
	"campfin/internal/core"
	"campfin/internal/source"
)

// Views accepted by the bar chart endpoints.
const (
	ViewPercent  = "percent"
	ViewAbsolute = "absolute"
)

// Bundle is one chart's ready-to-serve payload. Bar charts fill Bars,
// the timeline fills Lines.
type Bundle struct {
	Chart string           `json:"chart"`
	View  string           `json:"view,omitempty"`
	Bars  []core.Bar       `json:"bars,omitempty"`
	Lines *core.LineBundle `json:"lines,omitempty"`
}

// Segment colors for the location chart. Buckets missing here fall
// back to the neutral color.
var locationColors = map[string]string{
	charts.LocUnitemized: "#b0bec5",
	charts.LocInCity:     "#1a73e8",
	charts.LocInState:    "#66a3f0",
	charts.LocOutOfState: "#f29900",
	charts.LocUnknown:    charts.NeutralColor,
}

var fundsColors = map[string]string{
	string(core.PrivateFunds): "#1a73e8",
	string(core.PublicFunds):  "#34a853",
}

var fundsOrder = []string{string(core.PrivateFunds), string(core.PublicFunds)}

// ChartService builds and caches chart bundles for one or more
// election cycles.
type ChartService struct {
	source   source.Source
	registry *charts.Registry
	bundles  *cache.LRU[*Bundle]
}

func NewChartService(src source.Source, cacheSize int, cacheTTL time.Duration) *ChartService {
	return &ChartService{
		source:   src,
		registry: charts.NewRegistry(),
		bundles:  cache.NewLRU[*Bundle](cacheSize, cacheTTL),
	}
}

func bundleKey(election, chart, view string) string {
	return election + "/" + chart + "/" + view
}

// Chart returns the bundle for one chart, serving from cache when
// fresh. view is ignored for the timeline chart.
func (s *ChartService) Chart(ctx context.Context, election, chart, view string) (*Bundle, error) {
	if !core.ValidChart(chart) {
		return nil, fmt.Errorf("unknown chart %q", chart)
	}
	if view != ViewAbsolute {
		view = ViewPercent
	}
	if chart == core.ChartTimeline {
		view = ""
	}

	key := bundleKey(election, chart, view)
	if cached, ok := s.bundles.Get(key); ok {
		return cached, nil
	}

	rows, err := s.source.ListRows(ctx, election, chart)
	if err != nil {
		return nil, fmt.Errorf("list rows for %s: %w", chart, err)
	}
	roster, err := s.source.ListRoster(ctx, election)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	bundle := s.build(chart, view, core.NormalizeRows(rows), roster)
	s.bundles.Set(key, bundle)
	return bundle, nil
}

// BuildAll rebuilds every chart for an election and warms the cache.
// Candidate colors are reassigned from a clean registry so palette
// slots match the roster's canonical order across all charts.
func (s *ChartService) BuildAll(ctx context.Context, election string) error {
	start := time.Now()

	roster, err := s.source.ListRoster(ctx, election)
	if err != nil {
		return fmt.Errorf("list roster: %w", err)
	}
	s.assignColors(roster)

	g, gctx := errgroup.WithContext(ctx)
	for _, chart := range core.ChartKinds() {
		chart := chart
		g.Go(func() error {
			rows, err := s.source.ListRows(gctx, election, chart)
			if err != nil {
				return fmt.Errorf("list rows for %s: %w", chart, err)
			}
			normalized := core.NormalizeRows(rows)

			if chart == core.ChartTimeline {
				s.bundles.Set(bundleKey(election, chart, ""), s.build(chart, "", normalized, roster))
				return nil
			}
			for _, view := range []string{ViewPercent, ViewAbsolute} {
				s.bundles.Set(bundleKey(election, chart, view), s.build(chart, view, normalized, roster))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Rebuilt all chart bundles",
		"election", election,
		"candidates", len(roster),
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// Invalidate drops the cached bundles for one chart. An empty chart
// drops every view of every chart for the election.
func (s *ChartService) Invalidate(election, chart string) {
	if chart == "" {
		for _, c := range core.ChartKinds() {
			s.Invalidate(election, c)
		}
		return
	}
	s.bundles.Delete(bundleKey(election, chart, ""))
	s.bundles.Delete(bundleKey(election, chart, ViewPercent))
	s.bundles.Delete(bundleKey(election, chart, ViewAbsolute))
}

// assignColors resets the registry and hands out palette slots in the
// roster's contest/candidate order, so a candidate keeps the same
// color on every chart no matter which builds first.
func (s *ChartService) assignColors(roster []core.CandidateRef) {
	refs := make([]core.CandidateRef, len(roster))
	copy(refs, roster)
	sort.SliceStable(refs, func(i, j int) bool {
		if c := charts.CompareContests(refs[i].Position, refs[i].Subregion, refs[j].Position, refs[j].Subregion); c != 0 {
			return c < 0
		}
		return charts.CompareCandidates(refs[i].Name, refs[j].Name) < 0
	})

	s.registry.Reset()
	for _, ref := range refs {
		s.registry.ColorFor(ref.Name)
	}
}

func (s *ChartService) build(chart, view string, rows []core.Row, roster []core.CandidateRef) *Bundle {
	if chart == core.ChartTimeline {
		lines := charts.BuildLines(rows, charts.LineOptions{Registry: s.registry})
		return &Bundle{Chart: chart, Lines: &lines}
	}

	opts := charts.BarOptions{Roster: roster, Registry: s.registry}
	switch chart {
	case core.ChartLocation:
		opts.CategoryColors = locationColors
		opts.CategoryOrder = charts.GeoCategoryOrder
	case core.ChartTotals:
		// rows without a funds marker count as private money
		opts.Category = func(r core.Row) string {
			if r.FundsType == core.PublicFunds {
				return string(core.PublicFunds)
			}
			return string(core.PrivateFunds)
		}
		opts.CategoryColors = fundsColors
		opts.CategoryOrder = fundsOrder
	}
	// size and industry keep nil color maps: their segments take each
	// candidate's registry color, and categories order by global total.

	bars := charts.BuildBars(rows, opts)
	switch view {
	case ViewAbsolute:
		bars = charts.AbsoluteBars(bars)
	default:
		bars = charts.PercentBars(bars)
	}
	return &Bundle{Chart: chart, View: view, Bars: bars}
}
