// Package storage persists ingested chart rows and candidate rosters
// in SQLite. The tables hold rows exactly as sources deliver them; all
// reshaping happens downstream in the transform core.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"campfin/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListRows implements source.RowLister.
func (r *SQLiteRepository) ListRows(ctx context.Context, election, chart string) ([]core.RawRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT candidate_name, position, subregion, category, amount,
		       date, funds_type, sboe_id, org_group_id, cfb_candid
		FROM chart_rows
		WHERE election = ? AND chart = ?
		ORDER BY id`, election, chart)
	if err != nil {
		return nil, fmt.Errorf("query chart rows: %w", err)
	}
	defer rows.Close()

	var out []core.RawRow
	for rows.Next() {
		var raw core.RawRow
		var amount float64
		if err := rows.Scan(
			&raw.CandidateName, &raw.Position, &raw.Subregion, &raw.Category,
			&amount, &raw.Date, &raw.FundsType, &raw.SboeID, &raw.OrgGroupID, &raw.CFBCandID,
		); err != nil {
			return nil, fmt.Errorf("scan chart row: %w", err)
		}
		raw.Amount = amount
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chart rows: %w", err)
	}
	return out, nil
}

// ListRoster implements source.RosterReader.
func (r *SQLiteRepository) ListRoster(ctx context.Context, election string) ([]core.CandidateRef, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, position, subregion
		FROM candidates
		WHERE election = ?
		ORDER BY id`, election)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var out []core.CandidateRef
	for rows.Next() {
		var ref core.CandidateRef
		if err := rows.Scan(&ref.Name, &ref.Position, &ref.Subregion); err != nil {
			return nil, fmt.Errorf("scan roster row: %w", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return out, nil
}

const insertColumns = 12

// maxInsertRows keeps one multi-row INSERT below SQLite's bound
// parameter limit regardless of how INGEST_BATCH_SIZE is configured.
const maxInsertRows = 2000

// ReplaceRows swaps out all rows for one election+chart with a freshly
// ingested batch, in a single transaction so readers never see a
// half-replaced chart. Inserts are issued as multi-row statements of
// up to batchSize rows each; batchSize < 1 falls back to single-row
// inserts.
func (r *SQLiteRepository) ReplaceRows(ctx context.Context, election, chart string, raws []core.RawRow, batchSize int) error {
	if batchSize < 1 {
		batchSize = 1
	}
	if batchSize > maxInsertRows {
		batchSize = maxInsertRows
	}

	clean := make([]core.RawRow, 0, len(raws))
	for _, raw := range raws {
		if raw.CandidateName == "" {
			continue
		}
		clean = append(clean, raw)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM chart_rows WHERE election = ? AND chart = ?`, election, chart); err != nil {
		return fmt.Errorf("clear chart rows: %w", err)
	}

	for start := 0; start < len(clean); start += batchSize {
		end := start + batchSize
		if end > len(clean) {
			end = len(clean)
		}
		if err := insertRowBatch(ctx, tx, election, chart, clean[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	slog.InfoContext(ctx, "Chart rows replaced",
		"election", election, "chart", chart, "row_count", len(clean), "batch_size", batchSize)
	return nil
}

func insertRowBatch(ctx context.Context, tx *sql.Tx, election, chart string, batch []core.RawRow) error {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO chart_rows
		(election, chart, candidate_name, position, subregion, category,
		 amount, date, funds_type, sboe_id, org_group_id, cfb_candid)
	VALUES `)

	args := make([]any, 0, len(batch)*insertColumns)
	for i, raw := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			election, chart, raw.CandidateName, raw.Position, raw.Subregion, raw.Category,
			core.CoerceAmount(raw.Amount), raw.Date, raw.FundsType, raw.SboeID, raw.OrgGroupID, raw.CFBCandID)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert chart rows: %w", err)
	}
	return nil
}

// UpsertRoster inserts or updates candidate roster entries.
func (r *SQLiteRepository) UpsertRoster(ctx context.Context, election string, refs []core.CandidateRef) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candidates (election, name, position, subregion)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (election, name)
		DO UPDATE SET position = excluded.position, subregion = excluded.subregion`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range refs {
		if ref.Name == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, election, ref.Name, ref.Position, ref.Subregion); err != nil {
			return fmt.Errorf("upsert candidate: %w", err)
		}
	}
	return tx.Commit()
}
