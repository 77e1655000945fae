package toml

import (
	"context"
	"sync"

	"github.com/spf13/viper"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const (
	indexPathKey = "cache.index_path"
	indexFile    = "cache-index.toml"
)

// IndexRepository persists the content-cache index. The coordinator
// serializes mutations; this adapter guarantees each one lands atomically.
type IndexRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.CacheIndex = (*IndexRepository)(nil)

func NewIndexRepository(cfg *viper.Viper) (*IndexRepository, error) {
	path, err := resolvePath(cfg, indexPathKey, indexFile)
	if err != nil {
		return nil, err
	}

	return &IndexRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *IndexRepository) Get(ctx context.Context, key string) (domain.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.CacheEntry{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readLocked()
	if err != nil {
		return domain.CacheEntry{}, err
	}

	for _, entry := range file.Entries {
		if entry.Key == key {
			return fromEntrySchema(entry), nil
		}
	}

	return domain.CacheEntry{}, domain.ErrCacheMiss
}

func (r *IndexRepository) List(ctx context.Context) ([]domain.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readLocked()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CacheEntry, 0, len(file.Entries))
	for _, entry := range file.Entries {
		entries = append(entries, fromEntrySchema(entry))
	}

	return entries, nil
}

func (r *IndexRepository) Put(ctx context.Context, entry domain.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readLocked()
	if err != nil {
		return err
	}

	encoded := toEntrySchema(entry)
	updated := false
	for i := range file.Entries {
		if file.Entries[i].Key == encoded.Key {
			file.Entries[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Entries = append(file.Entries, encoded)
	}

	return writeTOMLFile(r.path, file)
}

func (r *IndexRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readLocked()
	if err != nil {
		return err
	}

	kept := file.Entries[:0]
	removed := false
	for _, entry := range file.Entries {
		if entry.Key == key {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return nil
	}

	file.Entries = kept
	return writeTOMLFile(r.path, file)
}

func (r *IndexRepository) readLocked() (indexFileSchema, error) {
	var file indexFileSchema
	if err := readTOMLFile(r.path, &file); err != nil {
		return indexFileSchema{}, err
	}
	if err := file.validateVersion(); err != nil {
		return indexFileSchema{}, err
	}
	file.applyDefaults()
	return file, nil
}
