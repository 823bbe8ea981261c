// Package services orchestrates collection writes across the local store
// and the AMQP sync queue.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"cashbook/internal/core"
	"cashbook/internal/store/sqlite"
)

// Publisher is the slice of the AMQP client the service needs. It is an
// interface so tests can stub it.
type Publisher interface {
	PublishEntrySync(ctx context.Context, id, version int64) error
	PublishEntryDelete(ctx context.Context, id int64) error
	Close() error
}

// CollectionService saves entries to SQLite and notifies the export
// worker. Publish failures are logged, never surfaced: the entry is
// already durable locally and the worker's poll loop will pick it up.
type CollectionService struct {
	storage   *sqlite.Store
	publisher Publisher
}

func NewCollectionService(storage *sqlite.Store, publisher Publisher) *CollectionService {
	return &CollectionService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateEntry saves an entry locally and publishes a sync message.
func (s *CollectionService) CreateEntry(ctx context.Context, e core.Entry) (*core.Entry, error) {
	saved, err := s.storage.InsertEntry(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("save entry: %w", err)
	}

	if err := s.publishSyncMessage(ctx, saved.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", saved.ID, "error", err)
	}

	return saved, nil
}

// DeleteEntry removes an entry locally and publishes a delete message.
func (s *CollectionService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.storage.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	if err := s.publishDeleteMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"id", id, "error", err)
	}

	return nil
}

func (s *CollectionService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishEntrySync(ctx, id, version)
}

func (s *CollectionService) publishDeleteMessage(ctx context.Context, id int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishEntryDelete(ctx, id)
}

// Close closes both the storage and AMQP connections.
func (s *CollectionService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close collection service: %v", errs)
	}

	return nil
}
