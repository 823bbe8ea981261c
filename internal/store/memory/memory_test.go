package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
	"cashbook/internal/store"
)

func entry(date, acct, amount string) core.Entry {
	return core.Entry{
		Date:      core.Date(date),
		AccountNo: acct,
		Amount:    decimal.RequireFromString(amount),
		Collector: "Supan",
	}
}

func TestInsertAndFilterEntries(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, e := range []core.Entry{
		entry("2025-01-01", "101", "100"),
		entry("2025-01-02", "101", "25"),
		entry("2025-01-01", "102", "50"),
	} {
		_, err := s.InsertEntry(ctx, e)
		require.NoError(t, err)
	}

	all, err := s.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Date descending.
	assert.Equal(t, core.Date("2025-01-02"), all[0].Date)

	byDate, err := s.FilterEntries(ctx, store.Filter{store.FieldDate: "2025-01-01"})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	both, err := s.FilterEntries(ctx, store.Filter{
		store.FieldDate:      "2025-01-01",
		store.FieldAccountNo: "102",
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "102", both[0].AccountNo)
}

func TestInsertEntryValidates(t *testing.T) {
	s := New()
	_, err := s.InsertEntry(context.Background(), entry("2025-01-01", "1", "10"))
	assert.ErrorIs(t, err, core.ErrInvalidAccountNo)
}

func TestDeleteEntry(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved, err := s.InsertEntry(ctx, entry("2025-01-01", "101", "10"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteEntry(ctx, saved.ID))
	assert.Error(t, s.DeleteEntry(ctx, saved.ID))

	all, err := s.ListEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPartiesSortedByName(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, p := range []core.Party{
		{AccountNo: "103", Name: "Zeta Mills"},
		{AccountNo: "101", Name: "Acme Traders"},
	} {
		_, err := s.InsertParty(ctx, p)
		require.NoError(t, err)
	}

	parties, err := s.ListParties(ctx)
	require.NoError(t, err)
	require.Len(t, parties, 2)
	assert.Equal(t, "Acme Traders", parties[0].Name)
	assert.Equal(t, "Zeta Mills", parties[1].Name)
}

func TestUpdatePartyKeepsCreatedAt(t *testing.T) {
	s := New()
	ctx := context.Background()

	saved, err := s.InsertParty(ctx, core.Party{AccountNo: "101", Name: "Old Name"})
	require.NoError(t, err)

	updated, err := s.UpdateParty(ctx, saved.ID, core.Party{AccountNo: "101", Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, saved.CreatedAt, updated.CreatedAt)

	_, err = s.UpdateParty(ctx, 9999, core.Party{AccountNo: "101", Name: "X Y"})
	assert.Error(t, err)
}
