// Package memory is the dev and test row source: chart rows and the
// roster live in process memory, optionally seeded from CSV files.
package memory

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"campfin/internal/core"
)

type Store struct {
	mu     sync.Mutex
	rows   map[string][]core.RawRow // chart kind -> rows
	roster []core.CandidateRef
}

// New builds a store from explicit rows per chart kind and a roster.
func New(rows map[string][]core.RawRow, roster []core.CandidateRef) *Store {
	if rows == nil {
		rows = make(map[string][]core.RawRow)
	}
	return &Store{rows: rows, roster: roster}
}

// NewFromFiles seeds a store from CSV files under base: one
// "<chart>.csv" per chart kind plus "roster.csv". Missing or
// unreadable files leave that chart empty.
func NewFromFiles(base string) *Store {
	rows := make(map[string][]core.RawRow)
	for _, kind := range core.ChartKinds() {
		rows[kind] = readRowsCSV(filepath.Join(base, kind+".csv"))
	}
	return &Store{
		rows:   rows,
		roster: readRosterCSV(filepath.Join(base, "roster.csv")),
	}
}

// ListRows implements source.RowLister.
func (s *Store) ListRows(_ context.Context, election, chart string) ([]core.RawRow, error) {
	if !core.ValidChart(chart) {
		return nil, fmt.Errorf("unknown chart kind %q", chart)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.RawRow(nil), s.rows[chart]...), nil
}

// ListRoster implements source.RosterReader.
func (s *Store) ListRoster(_ context.Context, _ string) ([]core.CandidateRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CandidateRef(nil), s.roster...), nil
}

// SetRows replaces one chart's rows, for tests driving ingest flows.
func (s *Store) SetRows(chart string, rows []core.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[chart] = append([]core.RawRow(nil), rows...)
}

// readRowsCSV reads chart rows from a headered CSV file:
// candidate_name,position,subregion,category,amount,date,funds_type.
func readRowsCSV(path string) []core.RawRow {
	records := readCSV(path)
	if len(records) < 2 {
		return nil
	}
	idx := headerIndex(records[0])
	var out []core.RawRow
	for _, rec := range records[1:] {
		out = append(out, core.RawRow{
			CandidateName: field(rec, idx, "candidate_name"),
			Position:      field(rec, idx, "position"),
			Subregion:     field(rec, idx, "subregion"),
			Category:      field(rec, idx, "category"),
			Amount:        field(rec, idx, "amount"),
			Date:          field(rec, idx, "date"),
			FundsType:     field(rec, idx, "funds_type"),
			SboeID:        field(rec, idx, "sboe_id"),
			OrgGroupID:    field(rec, idx, "org_group_id"),
			CFBCandID:     field(rec, idx, "cfb_candid"),
		})
	}
	return out
}

// readRosterCSV reads roster entries: name,position,subregion.
func readRosterCSV(path string) []core.CandidateRef {
	records := readCSV(path)
	if len(records) < 2 {
		return nil
	}
	idx := headerIndex(records[0])
	var out []core.CandidateRef
	for _, rec := range records[1:] {
		out = append(out, core.CandidateRef{
			Name:      field(rec, idx, "name"),
			Position:  field(rec, idx, "position"),
			Subregion: field(rec, idx, "subregion"),
		})
	}
	return out
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out
		}
		out = append(out, rec)
	}
	return out
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	return idx
}

func field(rec []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}
