package charts

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"campfin/internal/core"
)

const epsilon = 1e-9

func TestBuildBarsEndToEnd(t *testing.T) {
	rows := core.NormalizeRows([]core.RawRow{
		{CandidateName: "A Smith", Position: "Mayor", Category: "Tech", Amount: "100"},
		{CandidateName: "B Jones", Position: "Mayor", Category: "Tech", Amount: "300"},
	})
	bars := BuildBars(rows, BarOptions{Registry: NewRegistry()})

	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	// Alphabetical by last name: Jones before Smith.
	if bars[0].Label != "B Jones" || bars[1].Label != "A Smith" {
		t.Fatalf("wrong order: %q, %q", bars[0].Label, bars[1].Label)
	}
	for i, want := range []float64{300, 100} {
		if len(bars[i].Segments) != 1 {
			t.Fatalf("bar %d: expected 1 segment, got %d", i, len(bars[i].Segments))
		}
		seg := bars[i].Segments[0]
		if seg.Label != "Tech" || seg.RawValue != want {
			t.Errorf("bar %d: unexpected segment %+v", i, seg)
		}
	}

	pct := PercentBars(bars)
	for i := range pct {
		if got := pct[i].Segments[0].DisplayValue; math.Abs(got-100) > epsilon {
			t.Errorf("bar %d: single segment should be 100%% of its own bar, got %v", i, got)
		}
	}
}

func TestBuildBarsIdempotent(t *testing.T) {
	rows := core.NormalizeRows([]core.RawRow{
		{CandidateName: "A Smith", Position: "Mayor", Category: "Tech", Amount: 100.0},
		{CandidateName: "B Jones", Position: "Mayor", Category: "Retail", Amount: 300.0},
	})
	reg := NewRegistry()
	first := BuildBars(rows, BarOptions{Registry: reg})
	second := BuildBars(rows, BarOptions{Registry: reg})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two builds over identical input differ:\n%+v\n%+v", first, second)
	}
}

func TestBuildBarsSegmentSumInvariant(t *testing.T) {
	rows := []core.Row{
		{CandidateName: "A Smith", Position: "Mayor", Category: "Tech", Amount: 120},
		{CandidateName: "A Smith", Position: "Mayor", Category: "Retail", Amount: 60},
		{CandidateName: "A Smith", Position: "Mayor", Category: "Energy", Amount: 20},
	}
	bars := BuildBars(rows, BarOptions{Registry: NewRegistry()})
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if got := bars[0].Total(); math.Abs(got-200) > epsilon {
		t.Errorf("segment sum %v != entity total 200", got)
	}

	var pctSum float64
	for _, s := range PercentBars(bars)[0].Segments {
		pctSum += s.DisplayValue
	}
	if math.Abs(pctSum-100) > epsilon {
		t.Errorf("percent display values sum to %v, expected 100", pctSum)
	}
}

func TestBuildBarsNoDataPlaceholder(t *testing.T) {
	rows := []core.Row{
		{CandidateName: "B Jones", Position: "Mayor", Category: "Tech", Amount: 300},
	}
	roster := []core.CandidateRef{
		{Name: "A Smith", Position: "Mayor"},
		{Name: "B Jones", Position: "Mayor"},
	}
	bars := BuildBars(rows, BarOptions{Registry: NewRegistry(), Roster: roster})
	if len(bars) != 2 {
		t.Fatalf("expected both candidates, got %d bars", len(bars))
	}
	var smith, jones core.Bar
	for _, b := range bars {
		switch b.Label {
		case "A Smith":
			smith = b
		case "B Jones":
			jones = b
		}
	}
	if !smith.HasNoData || len(smith.Segments) != 0 {
		t.Errorf("roster-only candidate should be a no-data placeholder: %+v", smith)
	}
	if jones.HasNoData || len(jones.Segments) == 0 {
		t.Errorf("funded candidate should have segments: %+v", jones)
	}
}

func TestBuildBarsZeroRowsSameAsNoRows(t *testing.T) {
	// Rows existing but summing to zero get the same no-data treatment
	// as a roster entry with no rows at all.
	rows := []core.Row{
		{CandidateName: "C Doe", Position: "Mayor", Category: "Tech", Amount: 0},
	}
	bars := BuildBars(rows, BarOptions{Registry: NewRegistry()})
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if !bars[0].HasNoData || len(bars[0].Segments) != 0 {
		t.Errorf("all-zero candidate should be a no-data placeholder: %+v", bars[0])
	}
}

func TestPercentBarsZeroTotalDefined(t *testing.T) {
	bars := []core.Bar{{
		Label:    "A Smith",
		Segments: []core.Segment{{Label: "Tech", RawValue: 0}},
	}}
	for _, variant := range [][]core.Bar{PercentBars(bars), AbsoluteBars(bars)} {
		v := variant[0].Segments[0].DisplayValue
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("zero total produced %v, expected a defined value", v)
		}
	}
}

func TestBarVariantsPreserveRawValues(t *testing.T) {
	rows := []core.Row{
		{CandidateName: "A Smith", Position: "Mayor", Category: "Tech", Amount: 150},
		{CandidateName: "A Smith", Position: "Mayor", Category: "Retail", Amount: 50},
	}
	bars := BuildBars(rows, BarOptions{Registry: NewRegistry()})
	pct := PercentBars(bars)
	abs := AbsoluteBars(bars)
	for i := range bars[0].Segments {
		raw := bars[0].Segments[i].RawValue
		if pct[0].Segments[i].RawValue != raw || abs[0].Segments[i].RawValue != raw {
			t.Fatal("variants must preserve RawValue")
		}
	}
	// Variants must not mutate their input either.
	if bars[0].Segments[0].DisplayValue != bars[0].Segments[0].RawValue {
		t.Error("variant mutated the source bars")
	}
}

func TestBuildBarsCategoryColors(t *testing.T) {
	rows := []core.Row{
		{CandidateName: "A Smith", Position: "Mayor", Category: "Tech", Amount: 100},
		{CandidateName: "A Smith", Position: "Mayor", Category: "Mystery", Amount: 10},
	}
	colors := map[string]string{"Tech": "#123456"}
	bars := BuildBars(rows, BarOptions{CategoryColors: colors})
	byLabel := map[string]string{}
	for _, s := range bars[0].Segments {
		byLabel[s.Label] = s.Color
	}
	if byLabel["Tech"] != "#123456" {
		t.Errorf("mapped category color lost: %q", byLabel["Tech"])
	}
	if byLabel["Mystery"] != NeutralColor {
		t.Errorf("unresolved category should get neutral color, got %q", byLabel["Mystery"])
	}
}

func TestBuildBarsGeoOrder(t *testing.T) {
	rows := []core.Row{
		{CandidateName: "A Smith", Position: "Mayor", Category: LocOutOfState, Amount: 900},
		{CandidateName: "A Smith", Position: "Mayor", Category: LocUnitemized, Amount: 10},
		{CandidateName: "A Smith", Position: "Mayor", Category: LocInCity, Amount: 50},
	}
	bars := BuildBars(rows, BarOptions{Registry: NewRegistry(), CategoryOrder: GeoCategoryOrder})
	want := []string{LocUnitemized, LocInCity, LocOutOfState}
	if len(bars[0].Segments) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(bars[0].Segments))
	}
	for i, s := range bars[0].Segments {
		if s.Label != want[i] {
			t.Fatalf("segment %d: expected %q, got %q (geo order beats totals)", i, want[i], s.Label)
		}
	}
}

func TestBarsAreJSONSerializable(t *testing.T) {
	rows := []core.Row{
		{CandidateName: "A Smith", Position: "Mayor", Category: "Tech", Amount: 100},
	}
	bars := PercentBars(BuildBars(rows, BarOptions{Registry: NewRegistry()}))
	if _, err := json.Marshal(bars); err != nil {
		t.Fatalf("bars must serialize cleanly for the embed contract: %v", err)
	}
}

func TestBuildBarsEmptyInput(t *testing.T) {
	bars := BuildBars(nil, BarOptions{Registry: NewRegistry()})
	if len(bars) != 0 {
		t.Fatalf("expected no bars for no rows, got %d", len(bars))
	}
}
