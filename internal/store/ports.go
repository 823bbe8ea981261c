// Package store defines the record store contract implemented by the
// postgrest, sqlite and memory backends.
package store

import (
	"context"

	"cashbook/internal/core"
)

// Filter is a set of exact-match predicates combined with AND. An empty (or
// nil) filter matches everything.
type Filter map[string]string

// Filterable fields.
const (
	FieldDate      = "date"
	FieldAccountNo = "account_no"
)

// Matches reports whether the given field values satisfy the filter.
func (f Filter) Matches(fields map[string]string) bool {
	for k, want := range f {
		if want == "" {
			continue
		}
		if fields[k] != want {
			return false
		}
	}
	return true
}

type (
	// EntryStore manages the collections table. ListEntries and
	// FilterEntries return entries ordered by date descending.
	EntryStore interface {
		ListEntries(ctx context.Context) ([]core.Entry, error)
		FilterEntries(ctx context.Context, f Filter) ([]core.Entry, error)
		InsertEntry(ctx context.Context, e core.Entry) (*core.Entry, error)
		UpdateEntry(ctx context.Context, id int64, e core.Entry) (*core.Entry, error)
		DeleteEntry(ctx context.Context, id int64) error
	}

	// PartyStore manages the parties table. ListParties returns parties
	// ordered by name ascending.
	PartyStore interface {
		ListParties(ctx context.Context) ([]core.Party, error)
		FilterParties(ctx context.Context, f Filter) ([]core.Party, error)
		InsertParty(ctx context.Context, p core.Party) (*core.Party, error)
		UpdateParty(ctx context.Context, id int64, p core.Party) (*core.Party, error)
		DeleteParty(ctx context.Context, id int64) error
	}

	// Store is the full record store surface consumed by the gateway.
	Store interface {
		EntryStore
		PartyStore
	}
)
