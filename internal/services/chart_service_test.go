package services

import (
	"context"
	"testing"
	"time"

	"campfin/internal/core"
	"campfin/internal/source/memory"
)

func testSource() *memory.Store {
	rows := map[string][]core.RawRow{
		core.ChartLocation: {
			{CandidateName: "B Smith", Position: "Mayor", Category: "In City", Amount: 300.0},
			{CandidateName: "B Smith", Position: "Mayor", Category: "Out of State", Amount: 100.0},
			{CandidateName: "A Jones", Position: "Mayor", Category: "In City", Amount: 50.0},
		},
		core.ChartTotals: {
			{CandidateName: "B Smith", Position: "Mayor", Category: "x", Amount: 400.0, FundsType: "private"},
			{CandidateName: "B Smith", Position: "Mayor", Category: "x", Amount: 200.0, FundsType: "public"},
		},
		core.ChartTimeline: {
			{CandidateName: "B Smith", Position: "Mayor", Category: "x", Amount: 100.0, Date: "2026-01-15"},
			{CandidateName: "B Smith", Position: "Mayor", Category: "x", Amount: 200.0, Date: "2026-02-15"},
		},
	}
	roster := []core.CandidateRef{
		{Name: "B Smith", Position: "Mayor"},
		{Name: "A Jones", Position: "Mayor"},
		{Name: "C Doe", Position: "City Council", Subregion: "3"},
	}
	return memory.New(rows, roster)
}

func TestChartRejectsUnknownKind(t *testing.T) {
	svc := NewChartService(testSource(), 50, time.Minute)
	if _, err := svc.Chart(context.Background(), "2026", "donuts", ViewPercent); err == nil {
		t.Error("expected error for unknown chart kind")
	}
}

func TestChartBuildsPercentView(t *testing.T) {
	svc := NewChartService(testSource(), 50, time.Minute)

	bundle, err := svc.Chart(context.Background(), "2026", core.ChartLocation, ViewPercent)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if bundle.Lines != nil {
		t.Error("bar chart bundle carries lines")
	}
	// two mayoral candidates plus the rosterless-contest council candidate
	if len(bundle.Bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bundle.Bars))
	}
	// mayoral contest first, candidates by last name: Jones before Smith
	if bundle.Bars[0].Label != "A Jones" || bundle.Bars[1].Label != "B Smith" {
		t.Errorf("unexpected bar order: %q, %q", bundle.Bars[0].Label, bundle.Bars[1].Label)
	}
	// council candidate has no rows anywhere: placeholder bar
	if !bundle.Bars[2].HasNoData || len(bundle.Bars[2].Segments) != 0 {
		t.Errorf("expected no-data placeholder for %q", bundle.Bars[2].Label)
	}
	// percent view: Smith's segments sum to 100
	var sum float64
	for _, seg := range bundle.Bars[1].Segments {
		sum += seg.DisplayValue
	}
	if sum < 99.99 || sum > 100.01 {
		t.Errorf("percent segments sum to %v, want 100", sum)
	}
}

func TestChartServesFromCache(t *testing.T) {
	src := testSource()
	svc := NewChartService(src, 50, time.Minute)

	first, err := svc.Chart(context.Background(), "2026", core.ChartLocation, ViewPercent)
	if err != nil {
		t.Fatalf("first build: %v", err)
	}

	// mutate the source; the cached bundle must still be served
	src.SetRows(core.ChartLocation, nil)
	second, err := svc.Chart(context.Background(), "2026", core.ChartLocation, ViewPercent)
	if err != nil {
		t.Fatalf("cached read: %v", err)
	}
	if len(second.Bars) != len(first.Bars) {
		t.Error("expected cached bundle, got a rebuild")
	}

	svc.Invalidate("2026", core.ChartLocation)
	third, err := svc.Chart(context.Background(), "2026", core.ChartLocation, ViewPercent)
	if err != nil {
		t.Fatalf("rebuild after invalidate: %v", err)
	}
	for _, bar := range third.Bars {
		if !bar.HasNoData {
			t.Errorf("bar %q still has data after source cleared", bar.Label)
		}
	}
}

func TestBuildAllWarmsEveryChart(t *testing.T) {
	svc := NewChartService(testSource(), 50, time.Minute)
	if err := svc.BuildAll(context.Background(), "2026"); err != nil {
		t.Fatalf("build all: %v", err)
	}
	for _, chart := range core.ChartKinds() {
		key := bundleKey("2026", chart, ViewPercent)
		if chart == core.ChartTimeline {
			key = bundleKey("2026", chart, "")
		}
		if _, ok := svc.bundles.Get(key); !ok {
			t.Errorf("chart %s not warmed", chart)
		}
	}
}

func TestColorsStableAcrossCharts(t *testing.T) {
	svc := NewChartService(testSource(), 50, time.Minute)
	if err := svc.BuildAll(context.Background(), "2026"); err != nil {
		t.Fatalf("build all: %v", err)
	}

	timeline, err := svc.Chart(context.Background(), "2026", core.ChartTimeline, "")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	totals, err := svc.Chart(context.Background(), "2026", core.ChartTotals, ViewPercent)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}

	var lineColor string
	for _, series := range timeline.Lines.Series {
		if series.Primary.Label == "B Smith" {
			lineColor = series.Primary.Color
		}
	}
	if lineColor == "" {
		t.Fatal("no timeline series for B Smith")
	}
	found := false
	for _, bar := range totals.Bars {
		if bar.Label == "B Smith" {
			found = true
		}
	}
	if !found {
		t.Fatal("no totals bar for B Smith")
	}
	// the registry hands the same slot to the same name every time
	if got := svc.registry.ColorFor("B Smith"); got != lineColor {
		t.Errorf("registry color %q != timeline color %q", got, lineColor)
	}
}

func TestTimelineIgnoresView(t *testing.T) {
	svc := NewChartService(testSource(), 50, time.Minute)
	bundle, err := svc.Chart(context.Background(), "2026", core.ChartTimeline, ViewAbsolute)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if bundle.View != "" || bundle.Lines == nil {
		t.Errorf("timeline bundle malformed: view=%q lines=%v", bundle.View, bundle.Lines != nil)
	}
}

func TestTotalsSplitsFunds(t *testing.T) {
	svc := NewChartService(testSource(), 50, time.Minute)
	bundle, err := svc.Chart(context.Background(), "2026", core.ChartTotals, ViewAbsolute)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	for _, bar := range bundle.Bars {
		if bar.Label != "B Smith" {
			continue
		}
		if len(bar.Segments) != 2 {
			t.Fatalf("expected private+public segments, got %d", len(bar.Segments))
		}
		// fixed order: private first
		if bar.Segments[0].Label != string(core.PrivateFunds) {
			t.Errorf("first segment %q, want private", bar.Segments[0].Label)
		}
		if bar.Segments[0].DisplayValue != 400 || bar.Segments[1].DisplayValue != 200 {
			t.Errorf("absolute values %v/%v, want 400/200", bar.Segments[0].DisplayValue, bar.Segments[1].DisplayValue)
		}
	}
}
