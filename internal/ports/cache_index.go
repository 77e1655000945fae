package ports

import (
	"context"

	"github.com/lingodeck/lingodeck/internal/domain"
)

// CacheIndex maps deterministic content keys to installed files. Mutations
// are serialized by the cache coordinator; the index itself only guarantees
// atomic persistence of each change.
type CacheIndex interface {
	Get(ctx context.Context, key string) (domain.CacheEntry, error) // domain.ErrCacheMiss when absent
	List(ctx context.Context) ([]domain.CacheEntry, error)
	Put(ctx context.Context, entry domain.CacheEntry) error
	Delete(ctx context.Context, key string) error
}
