// Package memory provides a mutex-guarded in-memory store for development
// and tests.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/store"
)

var errNotFound = errors.New("record not found")

type Store struct {
	mu      sync.Mutex
	nextID  int64
	entries []core.Entry
	parties []core.Party
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

// Seed installs parties without going through InsertParty validation,
// useful for test fixtures.
func (s *Store) Seed(parties []core.Party) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parties {
		p.ID = s.nextID
		s.nextID++
		s.parties = append(s.parties, p)
	}
}

func (s *Store) ListEntries(_ context.Context) ([]core.Entry, error) {
	return s.FilterEntries(nil, nil)
}

func (s *Store) FilterEntries(_ context.Context, f store.Filter) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if f.Matches(map[string]string{
			store.FieldDate:      string(e.Date),
			store.FieldAccountNo: e.AccountNo,
		}) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (s *Store) InsertEntry(_ context.Context, e core.Entry) (*core.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	e.CreatedAt = time.Now()
	s.entries = append(s.entries, e)
	saved := e
	return &saved, nil
}

func (s *Store) UpdateEntry(_ context.Context, id int64, e core.Entry) (*core.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			e.ID = id
			e.CreatedAt = s.entries[i].CreatedAt
			s.entries[i] = e
			saved := e
			return &saved, nil
		}
	}
	return nil, errNotFound
}

func (s *Store) DeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (s *Store) ListParties(_ context.Context) ([]core.Party, error) {
	return s.FilterParties(nil, nil)
}

func (s *Store) FilterParties(_ context.Context, f store.Filter) ([]core.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.Party, 0, len(s.parties))
	for _, p := range s.parties {
		if f.Matches(map[string]string{store.FieldAccountNo: p.AccountNo}) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) InsertParty(_ context.Context, p core.Party) (*core.Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = time.Now()
	s.parties = append(s.parties, p)
	saved := p
	return &saved, nil
}

func (s *Store) UpdateParty(_ context.Context, id int64, p core.Party) (*core.Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.parties {
		if s.parties[i].ID == id {
			p.ID = id
			p.CreatedAt = s.parties[i].CreatedAt
			s.parties[i] = p
			saved := p
			return &saved, nil
		}
	}
	return nil, errNotFound
}

func (s *Store) DeleteParty(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.parties {
		if s.parties[i].ID == id {
			s.parties = append(s.parties[:i], s.parties[i+1:]...)
			return nil
		}
	}
	return errNotFound
}
