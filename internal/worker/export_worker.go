// Package worker moves saved collection entries from SQLite to the
// configured export sink, driven by AMQP messages with a periodic poll
// as backup.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"cashbook/internal/amqp"
	"cashbook/internal/core"
	"cashbook/internal/export"
	"cashbook/internal/store"
	"cashbook/internal/store/sqlite"
)

type ExportWorker struct {
	storage   *sqlite.Store
	sink      export.RowSink
	batchSize int
}

func NewExportWorker(storage *sqlite.Store, sink export.RowSink, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		sink:      sink,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	entry, err := w.storage.GetEntry(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	return w.exportEntry(ctx, *entry)
}

// HandleDeleteMessage processes an entry delete message. Exported rows
// are append-only; the deletion is recorded in the log so the sheet can
// be reconciled by hand.
func (w *ExportWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.EntryDeleteMessage) error {
	slog.WarnContext(ctx, "Entry deleted locally, exported row needs manual reconciliation",
		"id", msg.ID,
		"timestamp", msg.Timestamp)
	return nil
}

// ProcessPendingEntries exports any entries that were not picked up via
// AMQP. This is the backup mechanism in case messages are lost.
func (w *ExportWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.storage.PendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, p := range pending {
		entry, err := w.storage.GetEntry(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportEntry(ctx, *entry); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry", "id", entry.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports entries left pending across a worker restart.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.PendingSyncEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		entry, err := w.storage.GetEntry(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportEntry(ctx, *entry); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry during startup",
				"id", entry.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportEntry(ctx context.Context, entry core.Entry) error {
	partyName := "Unknown (" + entry.AccountNo + ")"
	parties, err := w.storage.FilterParties(ctx, store.Filter{store.FieldAccountNo: entry.AccountNo})
	if err != nil {
		slog.WarnContext(ctx, "Failed to resolve party name, exporting as unknown",
			"account_no", entry.AccountNo, "error", err)
	} else if len(parties) > 0 {
		partyName = parties[0].Name
	}

	row := []string{
		strconv.FormatInt(entry.ID, 10),
		entry.Date.Display(),
		partyName,
		entry.AccountNo,
		core.FormatAmount(entry.Amount),
		entry.Collector,
	}

	ref, err := w.sink.AppendRow(ctx, row)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, entry.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", entry.ID, "error", markErr)
		}
		return fmt.Errorf("append to sink: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, entry.ID); err != nil {
		// The export itself succeeded, so keep going.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", entry.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported entry",
		"id", entry.ID,
		"sink_ref", ref,
		"date", entry.Date,
		"account_no", entry.AccountNo)

	return nil
}
