package storage

import (
	"context"

	"github.com/google/uuid"

	"dungeonmaster/pkg/game"
)

// NoopStore is used when no Redis URL is configured. Sessions then
// live only in process memory.
type NoopStore struct{}

var _ SnapshotStore = (*NoopStore)(nil)

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (*NoopStore) Ping(ctx context.Context) error { return nil }

func (*NoopStore) SaveSnapshot(ctx context.Context, id uuid.UUID, save game.SaveFile) error {
	return nil
}

func (*NoopStore) LoadSnapshot(ctx context.Context, id uuid.UUID) (*game.SaveFile, error) {
	return nil, nil
}

func (*NoopStore) DeleteSnapshot(ctx context.Context, id uuid.UUID) error { return nil }

func (*NoopStore) Close() error { return nil }
