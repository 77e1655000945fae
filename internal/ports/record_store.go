package ports

import (
	"context"

	"github.com/lingodeck/lingodeck/internal/domain"
)

// RecordStore is the durable local collection of session records. Writers
// replace the whole collection atomically; readers never observe a record
// mid-mutation.
type RecordStore interface {
	Load(ctx context.Context) ([]domain.SessionRecord, error)
	Replace(ctx context.Context, records []domain.SessionRecord) error
}

// TombstoneStore is the durable set of locally-authoritative deletions.
type TombstoneStore interface {
	Load(ctx context.Context) ([]domain.Tombstone, error)
	Add(ctx context.Context, stones ...domain.Tombstone) error
	Remove(ctx context.Context, id domain.RecordID, serverID domain.ServerID) error
}
