// Package source defines the ports for fetching chart rows and
// contest rosters from wherever the data lives: the local SQLite
// store, the data team's spreadsheet, or an in-memory seed.
package source

import (
	"context"

	"campfin/internal/core"
)

type (
	// RowLister returns the raw rows backing one chart of one election
	// cycle. The returned set is complete; the transform core never
	// sees partial data.
	RowLister interface {
		ListRows(ctx context.Context, election, chart string) ([]core.RawRow, error)
	}

	// RosterReader returns every candidate registered in the election,
	// including those with no contributions on file.
	RosterReader interface {
		ListRoster(ctx context.Context, election string) ([]core.CandidateRef, error)
	}

	// Source is the full read surface the chart service needs.
	Source interface {
		RowLister
		RosterReader
	}
)
