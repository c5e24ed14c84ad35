// Package backend selects and wires the configured row source: the
// local SQLite store, the data team's Google spreadsheet, or an
// in-memory store seeded from CSV files.
package backend

import (
	"context"

	"campfin/internal/source"
)

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Result contains the source instance and optional cleanup function.
type Result struct {
	Source  source.Source
	Cleanup CleanupFunc
}

// Factory creates row sources based on configuration.
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for source creation.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleRosterSheet   string

	// Memory backend specific
	DataDirectory string
}

// Type names one of the supported row sources.
type Type string

const (
	SQLiteSource Type = "sqlite"
	SheetsSource Type = "sheets"
	MemorySource Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case SQLiteSource, SheetsSource, MemorySource:
		return true
	default:
		return false
	}
}
