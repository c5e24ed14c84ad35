package charts

import "testing"

func TestRegistryColorsAreStable(t *testing.T) {
	reg := NewRegistry()
	first := reg.ColorFor("A Smith")
	for i := 0; i < 3; i++ {
		if got := reg.ColorFor("A Smith"); got != first {
			t.Fatalf("color changed between calls: %q vs %q", first, got)
		}
	}
	if reg.ColorFor("B Jones") == first {
		t.Error("second candidate got the first candidate's color")
	}
	if reg.Size() != 2 {
		t.Errorf("expected 2 assignments, got %d", reg.Size())
	}
}

func TestRegistryCyclesWhenPaletteExhausted(t *testing.T) {
	reg := NewRegistryWithPalette([]string{"#111", "#222"})
	a := reg.ColorFor("a")
	b := reg.ColorFor("b")
	c := reg.ColorFor("c")
	if a != "#111" || b != "#222" {
		t.Fatalf("unexpected initial assignments: %q %q", a, b)
	}
	if c != "#111" {
		t.Errorf("expected palette to cycle back to #111, got %q", c)
	}
}

func TestRegistryReset(t *testing.T) {
	reg := NewRegistryWithPalette([]string{"#111", "#222"})
	reg.ColorFor("a")
	reg.Reset()
	if got := reg.ColorFor("b"); got != "#111" {
		t.Errorf("expected fresh registry to start at #111, got %q", got)
	}
}

func TestLinkForDerivesFromIDPair(t *testing.T) {
	if got := LinkFor("A Smith", "", ""); got != "" {
		t.Errorf("expected no link without ids, got %q", got)
	}
	got := LinkFor("A Smith", "123", "456")
	if got == "" {
		t.Fatal("expected derived link for full id pair")
	}
	want := "https://cf.ncsbe.gov/CFOrgLkup/DocumentGeneralResult/?SID=123&OGID=456"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCategoryColorFallsBackToNeutral(t *testing.T) {
	colors := map[string]string{"Tech": "#123456"}
	if got := CategoryColor(colors, "Tech"); got != "#123456" {
		t.Errorf("expected mapped color, got %q", got)
	}
	if got := CategoryColor(colors, "Never Seen"); got != NeutralColor {
		t.Errorf("expected neutral fallback, got %q", got)
	}
}
