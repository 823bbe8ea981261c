// Package sqlite implements the record store on a local SQLite database.
// It also carries the sync bookkeeping columns consumed by the export
// worker.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"cashbook/internal/core"
	"cashbook/internal/store"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
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

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const entryColumns = "id, date, account_no, amount, collector, created_at"

func scanEntry(row interface{ Scan(...any) error }) (core.Entry, error) {
	var (
		e      core.Entry
		date   string
		amount string
	)
	if err := row.Scan(&e.ID, &date, &e.AccountNo, &amount, &e.Collector, &e.CreatedAt); err != nil {
		return core.Entry{}, err
	}
	e.Date = core.Date(date)
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Entry{}, fmt.Errorf("parse stored amount %q: %w", amount, err)
	}
	e.Amount = d
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context) ([]core.Entry, error) {
	return s.FilterEntries(ctx, nil)
}

func (s *Store) FilterEntries(ctx context.Context, f store.Filter) ([]core.Entry, error) {
	query := "SELECT " + entryColumns + " FROM collections"
	var (
		args  []any
		where string
	)
	if date := f[store.FieldDate]; date != "" {
		where = " WHERE date = ?"
		args = append(args, date)
	}
	if acct := f[store.FieldAccountNo]; acct != "" {
		if where == "" {
			where = " WHERE account_no = ?"
		} else {
			where += " AND account_no = ?"
		}
		args = append(args, acct)
	}
	query += where + " ORDER BY date DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) InsertEntry(ctx context.Context, e core.Entry) (*core.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO collections (date, account_no, amount, collector) VALUES (?, ?, ?, ?)",
		string(e.Date), e.AccountNo, e.Amount.String(), e.Collector)
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	saved, err := s.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Collection saved to SQLite",
		"id", saved.ID,
		"date", saved.Date,
		"account_no", saved.AccountNo,
		"amount", core.FormatAmount(saved.Amount))

	return saved, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id int64, e core.Entry) (*core.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE collections SET date = ?, account_no = ?, amount = ?, collector = ?, synced = 0, version = version + 1 WHERE id = ?",
		string(e.Date), e.AccountNo, e.Amount.String(), e.Collector, id)
	if err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, sql.ErrNoRows
	}

	return s.GetEntry(ctx, id)
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetEntry retrieves a single entry by ID.
func (s *Store) GetEntry(ctx context.Context, id int64) (*core.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM collections WHERE id = ?", id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get collection by id: %w", err)
	}
	return &e, nil
}

func (s *Store) ListParties(ctx context.Context) ([]core.Party, error) {
	return s.FilterParties(ctx, nil)
}

func (s *Store) FilterParties(ctx context.Context, f store.Filter) ([]core.Party, error) {
	query := "SELECT id, account_no, name, created_at FROM parties"
	var args []any
	if acct := f[store.FieldAccountNo]; acct != "" {
		query += " WHERE account_no = ?"
		args = append(args, acct)
	}
	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query parties: %w", err)
	}
	defer rows.Close()

	var parties []core.Party
	for rows.Next() {
		var p core.Party
		var acct string
		if err := rows.Scan(&p.ID, &acct, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan party row: %w", err)
		}
		p.AccountNo = acct
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (s *Store) InsertParty(ctx context.Context, p core.Party) (*core.Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO parties (account_no, name) VALUES (?, ?)",
		p.AccountNo, p.Name)
	if err != nil {
		return nil, fmt.Errorf("insert party: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	p.ID = id
	p.CreatedAt = time.Now()
	return &p, nil
}

func (s *Store) UpdateParty(ctx context.Context, id int64, p core.Party) (*core.Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE parties SET account_no = ?, name = ? WHERE id = ?",
		p.AccountNo, p.Name, id)
	if err != nil {
		return nil, fmt.Errorf("update party: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return nil, sql.ErrNoRows
	}

	p.ID = id
	return &p, nil
}

func (s *Store) DeleteParty(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM parties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// PendingSyncEntry carries the minimal data needed for sync queue messages.
type PendingSyncEntry struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// PendingSyncEntries returns entries that have not yet been exported.
func (s *Store) PendingSyncEntries(ctx context.Context, limit int) ([]PendingSyncEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, version, created_at FROM collections WHERE synced = 0 AND sync_error = 0 ORDER BY created_at ASC LIMIT ?",
		int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync collections: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncEntry
	for rows.Next() {
		var p PendingSyncEntry
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync row: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks an entry as successfully exported.
func (s *Store) MarkSynced(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE collections SET synced = 1, sync_error = 0 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark collection synced: %w", err)
	}
	slog.InfoContext(ctx, "Collection marked as synced", "id", id)
	return nil
}

// MarkSyncError marks an entry as having failed export so it is not
// retried in a tight loop.
func (s *Store) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE collections SET sync_error = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark collection sync error: %w", err)
	}
	slog.WarnContext(ctx, "Collection marked with sync error", "id", id)
	return nil
}
