package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
	"cashbook/internal/store/sqlite"
)

type stubPublisher struct {
	syncs   []int64
	deletes []int64
	fail    bool
	closed  bool
}

func (p *stubPublisher) PublishEntrySync(_ context.Context, id, _ int64) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.syncs = append(p.syncs, id)
	return nil
}

func (p *stubPublisher) PublishEntryDelete(_ context.Context, id int64) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.deletes = append(p.deletes, id)
	return nil
}

func (p *stubPublisher) Close() error {
	p.closed = true
	return nil
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry() core.Entry {
	return core.Entry{
		Date:      "2025-01-01",
		AccountNo: "101",
		Amount:    decimal.NewFromInt(100),
		Collector: "Kalpesh",
	}
}

func TestCreateEntryPublishesSync(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewCollectionService(newTestStore(t), pub)

	saved, err := svc.CreateEntry(context.Background(), testEntry())
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, []int64{saved.ID}, pub.syncs)
}

func TestCreateEntrySurvivesPublishFailure(t *testing.T) {
	pub := &stubPublisher{fail: true}
	svc := NewCollectionService(newTestStore(t), pub)

	saved, err := svc.CreateEntry(context.Background(), testEntry())
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestCreateEntryWithoutPublisher(t *testing.T) {
	svc := NewCollectionService(newTestStore(t), nil)

	saved, err := svc.CreateEntry(context.Background(), testEntry())
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestCreateEntryInvalidNotPublished(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewCollectionService(newTestStore(t), pub)

	e := testEntry()
	e.AccountNo = "12a"
	_, err := svc.CreateEntry(context.Background(), e)
	require.Error(t, err)
	assert.Empty(t, pub.syncs)
}

func TestDeleteEntryPublishesDelete(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewCollectionService(newTestStore(t), pub)

	saved, err := svc.CreateEntry(context.Background(), testEntry())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(context.Background(), saved.ID))
	assert.Equal(t, []int64{saved.ID}, pub.deletes)
}

func TestDeleteMissingEntryFails(t *testing.T) {
	pub := &stubPublisher{}
	svc := NewCollectionService(newTestStore(t), pub)

	err := svc.DeleteEntry(context.Background(), 9999)
	require.Error(t, err)
	assert.Empty(t, pub.deletes)
}
