// Package gateway wraps the record store with the degraded-mode contract
// the pages rely on: a backend outage renders an empty dashboard instead
// of an error page. Reads log the failure and return empty slices; writes
// report success as nil-or-value / bool.
package gateway

import (
	"context"
	"log/slog"

	"cashbook/internal/core"
	"cashbook/internal/store"
)

type Gateway struct {
	store store.Store
}

func New(s store.Store) *Gateway {
	return &Gateway{store: s}
}

func (g *Gateway) ListEntries(ctx context.Context) []core.Entry {
	entries, err := g.store.ListEntries(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list entries", "error", err)
		return []core.Entry{}
	}
	return entries
}

func (g *Gateway) FilterEntries(ctx context.Context, f store.Filter) []core.Entry {
	entries, err := g.store.FilterEntries(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to filter entries", "filter", f, "error", err)
		return []core.Entry{}
	}
	return entries
}

func (g *Gateway) AddEntry(ctx context.Context, e core.Entry) *core.Entry {
	saved, err := g.store.InsertEntry(ctx, e)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to add entry",
			"date", e.Date,
			"account_no", e.AccountNo,
			"error", err)
		return nil
	}
	return saved
}

func (g *Gateway) UpdateEntry(ctx context.Context, id int64, e core.Entry) *core.Entry {
	saved, err := g.store.UpdateEntry(ctx, id, e)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to update entry", "id", id, "error", err)
		return nil
	}
	return saved
}

func (g *Gateway) DeleteEntry(ctx context.Context, id int64) bool {
	if err := g.store.DeleteEntry(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete entry", "id", id, "error", err)
		return false
	}
	return true
}

func (g *Gateway) ListParties(ctx context.Context) []core.Party {
	parties, err := g.store.ListParties(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list parties", "error", err)
		return []core.Party{}
	}
	return parties
}

func (g *Gateway) FilterParties(ctx context.Context, f store.Filter) []core.Party {
	parties, err := g.store.FilterParties(ctx, f)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to filter parties", "filter", f, "error", err)
		return []core.Party{}
	}
	return parties
}

func (g *Gateway) AddParty(ctx context.Context, p core.Party) *core.Party {
	saved, err := g.store.InsertParty(ctx, p)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to add party",
			"account_no", p.AccountNo,
			"error", err)
		return nil
	}
	return saved
}

func (g *Gateway) UpdateParty(ctx context.Context, id int64, p core.Party) *core.Party {
	saved, err := g.store.UpdateParty(ctx, id, p)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to update party", "id", id, "error", err)
		return nil
	}
	return saved
}

func (g *Gateway) DeleteParty(ctx context.Context, id int64) bool {
	if err := g.store.DeleteParty(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to delete party", "id", id, "error", err)
		return false
	}
	return true
}
