package worker

import (
	"context"
	"fmt"
	"log/slog"

	"campfin/internal/amqp"
	"campfin/internal/core"
	"campfin/internal/source"
	"campfin/internal/storage"
)

// IngestWorker applies filing messages from AMQP to the local SQLite
// store so the API always serves from a warm local copy.
type IngestWorker struct {
	storage    *storage.SQLiteRepository
	source     source.Source
	batchSize  int
	invalidate func(election, chart string)
}

// NewIngestWorker builds a worker. source may be nil when no upstream
// backend is configured; StartupRefresh then becomes a no-op.
// batchSize sets how many rows go into each INSERT when chart rows
// are replaced. invalidate is called after every successful write so
// stale cached chart bundles get dropped; pass nil when nothing
// caches.
func NewIngestWorker(storage *storage.SQLiteRepository, src source.Source, batchSize int, invalidate func(election, chart string)) *IngestWorker {
	if invalidate == nil {
		invalidate = func(string, string) {}
	}
	return &IngestWorker{
		storage:    storage,
		source:     src,
		batchSize:  batchSize,
		invalidate: invalidate,
	}
}

// HandleFilingRows processes a single filing-rows message from AMQP.
// The message carries the complete row set for one chart, so the
// stored rows are replaced wholesale rather than merged.
func (w *IngestWorker) HandleFilingRows(ctx context.Context, msg *amqp.FilingRowsMessage) error {
	slog.InfoContext(ctx, "Processing filing rows message",
		"election", msg.Election,
		"chart", msg.Chart,
		"rows", len(msg.Rows))

	if !core.ValidChart(msg.Chart) {
		return fmt.Errorf("unknown chart %q in filing message", msg.Chart)
	}

	if err := w.storage.ReplaceRows(ctx, msg.Election, msg.Chart, msg.Rows, w.batchSize); err != nil {
		return fmt.Errorf("replace rows in storage: %w", err)
	}

	w.invalidate(msg.Election, msg.Chart)
	return nil
}

// HandleRoster processes a roster message from AMQP. Roster entries
// are upserted, not replaced: a candidate who once appeared stays on
// the charts even when a later export omits them.
func (w *IngestWorker) HandleRoster(ctx context.Context, msg *amqp.RosterMessage) error {
	slog.InfoContext(ctx, "Processing roster message",
		"election", msg.Election,
		"candidates", len(msg.Roster))

	if err := w.storage.UpsertRoster(ctx, msg.Election, msg.Roster); err != nil {
		return fmt.Errorf("upsert roster in storage: %w", err)
	}

	for _, chart := range core.ChartKinds() {
		w.invalidate(msg.Election, chart)
	}
	return nil
}

// StartupRefresh pulls every chart and the roster from the upstream
// source and writes them to storage. This is a backup mechanism in
// case AMQP messages were lost while the worker was down.
func (w *IngestWorker) StartupRefresh(ctx context.Context, election string) error {
	if w.source == nil {
		slog.InfoContext(ctx, "No upstream source configured, skipping startup refresh")
		return nil
	}

	slog.InfoContext(ctx, "Running startup refresh", "election", election)

	successCount := 0
	errorCount := 0

	for _, chart := range core.ChartKinds() {
		rows, err := w.source.ListRows(ctx, election, chart)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to fetch rows during startup refresh",
				"chart", chart, "error", err)
			errorCount++
			continue
		}
		if err := w.storage.ReplaceRows(ctx, election, chart, rows, w.batchSize); err != nil {
			slog.ErrorContext(ctx, "Failed to store rows during startup refresh",
				"chart", chart, "error", err)
			errorCount++
			continue
		}
		w.invalidate(election, chart)
		successCount++
	}

	roster, err := w.source.ListRoster(ctx, election)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch roster during startup refresh", "error", err)
		errorCount++
	} else if err := w.storage.UpsertRoster(ctx, election, roster); err != nil {
		slog.ErrorContext(ctx, "Failed to store roster during startup refresh", "error", err)
		errorCount++
	} else {
		successCount++
	}

	slog.InfoContext(ctx, "Startup refresh completed",
		"synced", successCount,
		"errors", errorCount)

	if successCount == 0 && errorCount > 0 {
		return fmt.Errorf("startup refresh failed for all %d targets", errorCount)
	}
	return nil
}
