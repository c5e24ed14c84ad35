package google

import (
	"testing"

	"campfin/internal/core"
)

func TestNewClientWorksheetNames(t *testing.T) {
	cli := newClient(nil, "sheet-id", "")
	if cli.rosterSheet != "Candidates" {
		t.Errorf("default roster sheet %q, want Candidates", cli.rosterSheet)
	}

	cli = newClient(nil, "sheet-id", "Roster 2026")
	if cli.rosterSheet != "Roster 2026" {
		t.Errorf("roster sheet override not applied, got %q", cli.rosterSheet)
	}

	// every chart kind must map onto a worksheet
	for _, kind := range core.ChartKinds() {
		if cli.chartSheets[kind] == "" {
			t.Errorf("chart kind %s has no worksheet", kind)
		}
	}
}
