package storage

import (
	"context"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// Journal records the actions admins dispatch. It stores who did what and when,
// never resource payloads.
type Journal interface {
	// RecordAction appends an entry. ID and OccurredAt are filled in when empty.
	RecordAction(ctx context.Context, record *domain.ActionRecord) error
	// ListActions returns entries newest first.
	ListActions(ctx context.Context, limit, offset int) ([]*domain.ActionRecord, error)
	// ListActionsForTarget returns the newest entries about one record.
	ListActionsForTarget(ctx context.Context, resource domain.Resource, targetID string, limit int) ([]*domain.ActionRecord, error)
	CountActions(ctx context.Context) (int, error)
}

// Storage defines the interface for persistent storage.
// Implementations must be safe for concurrent use.
type Storage interface {
	Journal

	// Close closes the storage connection.
	Close() error
}
