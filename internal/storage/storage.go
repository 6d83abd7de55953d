package storage

import (
	"context"

	"github.com/google/uuid"

	"dungeonmaster/pkg/game"
)

// SnapshotStore persists per-session memory snapshots so a session can
// be resumed after a process restart. The in-memory registry remains
// the source of truth while the process lives.
type SnapshotStore interface {
	// Ping tests the store connection.
	Ping(ctx context.Context) error

	// SaveSnapshot writes the session's save document.
	SaveSnapshot(ctx context.Context, id uuid.UUID, save game.SaveFile) error

	// LoadSnapshot retrieves a session's save document.
	// Returns nil when no snapshot exists.
	LoadSnapshot(ctx context.Context, id uuid.UUID) (*game.SaveFile, error)

	// DeleteSnapshot removes a session's snapshot.
	DeleteSnapshot(ctx context.Context, id uuid.UUID) error

	// Close closes the store connection.
	Close() error
}
