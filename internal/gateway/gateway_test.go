package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
	"cashbook/internal/store"
	"cashbook/internal/store/memory"
)

// failingStore errors on every operation.
type failingStore struct{}

var errDown = errors.New("backend unavailable")

func (failingStore) ListEntries(context.Context) ([]core.Entry, error) { return nil, errDown }
func (failingStore) FilterEntries(context.Context, store.Filter) ([]core.Entry, error) {
	return nil, errDown
}
func (failingStore) InsertEntry(context.Context, core.Entry) (*core.Entry, error) {
	return nil, errDown
}
func (failingStore) UpdateEntry(context.Context, int64, core.Entry) (*core.Entry, error) {
	return nil, errDown
}
func (failingStore) DeleteEntry(context.Context, int64) error          { return errDown }
func (failingStore) ListParties(context.Context) ([]core.Party, error) { return nil, errDown }
func (failingStore) FilterParties(context.Context, store.Filter) ([]core.Party, error) {
	return nil, errDown
}
func (failingStore) InsertParty(context.Context, core.Party) (*core.Party, error) {
	return nil, errDown
}
func (failingStore) UpdateParty(context.Context, int64, core.Party) (*core.Party, error) {
	return nil, errDown
}
func (failingStore) DeleteParty(context.Context, int64) error { return errDown }

func TestReadsDegradeToEmpty(t *testing.T) {
	g := New(failingStore{})
	ctx := context.Background()

	entries := g.ListEntries(ctx)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	parties := g.FilterParties(ctx, store.Filter{store.FieldAccountNo: "101"})
	assert.NotNil(t, parties)
	assert.Empty(t, parties)
}

func TestWritesReportFailure(t *testing.T) {
	g := New(failingStore{})
	ctx := context.Background()

	e := core.Entry{Date: "2025-01-01", AccountNo: "101", Amount: decimal.NewFromInt(10), Collector: "Kalpesh"}
	assert.Nil(t, g.AddEntry(ctx, e))
	assert.Nil(t, g.UpdateEntry(ctx, 1, e))
	assert.False(t, g.DeleteEntry(ctx, 1))

	p := core.Party{AccountNo: "101", Name: "Acme Traders"}
	assert.Nil(t, g.AddParty(ctx, p))
	assert.False(t, g.DeleteParty(ctx, 1))
}

func TestHealthyStorePassesThrough(t *testing.T) {
	g := New(memory.New())
	ctx := context.Background()

	saved := g.AddParty(ctx, core.Party{AccountNo: "101", Name: "Acme Traders"})
	require.NotNil(t, saved)

	e := core.Entry{Date: "2025-01-01", AccountNo: "101", Amount: decimal.NewFromInt(10), Collector: "Kalpesh"}
	entry := g.AddEntry(ctx, e)
	require.NotNil(t, entry)
	assert.NotZero(t, entry.ID)

	entries := g.FilterEntries(ctx, store.Filter{store.FieldDate: "2025-01-01"})
	require.Len(t, entries, 1)

	assert.True(t, g.DeleteEntry(ctx, entry.ID))
	assert.Empty(t, g.ListEntries(ctx))
}

func TestInvalidEntryRejected(t *testing.T) {
	g := New(memory.New())
	e := core.Entry{Date: "2025-01-01", AccountNo: "1", Amount: decimal.NewFromInt(10), Collector: "Kalpesh"}
	assert.Nil(t, g.AddEntry(context.Background(), e))
}
