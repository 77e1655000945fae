package toml

import (
	"context"
	"sync"

	"github.com/spf13/viper"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const (
	tombstonesPathKey = "tombstones.path"
	tombstonesFile    = "tombstones.toml"
)

// TombstoneRepository persists the locally-authoritative deletion set.
type TombstoneRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.TombstoneStore = (*TombstoneRepository)(nil)

func NewTombstoneRepository(cfg *viper.Viper) (*TombstoneRepository, error) {
	path, err := resolvePath(cfg, tombstonesPathKey, tombstonesFile)
	if err != nil {
		return nil, err
	}

	return &TombstoneRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *TombstoneRepository) Load(ctx context.Context) ([]domain.Tombstone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readLocked()
	if err != nil {
		return nil, err
	}

	stones := make([]domain.Tombstone, 0, len(file.Tombstones))
	for _, entry := range file.Tombstones {
		stones = append(stones, domain.Tombstone{
			ID:       domain.RecordID(entry.ID),
			ServerID: domain.ServerID(entry.ServerID),
		})
	}

	return stones, nil
}

func (r *TombstoneRepository) Add(ctx context.Context, stones ...domain.Tombstone) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(stones) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readLocked()
	if err != nil {
		return err
	}

	for _, stone := range stones {
		if stone.ID == "" && stone.ServerID == "" {
			continue
		}
		if containsStone(file.Tombstones, stone) {
			continue
		}
		file.Tombstones = append(file.Tombstones, tombstoneSchema{
			ID:       string(stone.ID),
			ServerID: string(stone.ServerID),
		})
	}

	return writeTOMLFile(r.path, file)
}

func (r *TombstoneRepository) Remove(ctx context.Context, id domain.RecordID, serverID domain.ServerID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readLocked()
	if err != nil {
		return err
	}

	kept := file.Tombstones[:0]
	removed := false
	for _, entry := range file.Tombstones {
		if matchesStone(entry, id, serverID) {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return nil
	}

	file.Tombstones = kept
	return writeTOMLFile(r.path, file)
}

func (r *TombstoneRepository) readLocked() (tombstoneFileSchema, error) {
	var file tombstoneFileSchema
	if err := readTOMLFile(r.path, &file); err != nil {
		return tombstoneFileSchema{}, err
	}
	if err := file.validateVersion(); err != nil {
		return tombstoneFileSchema{}, err
	}
	file.applyDefaults()
	return file, nil
}

func containsStone(entries []tombstoneSchema, stone domain.Tombstone) bool {
	for _, entry := range entries {
		if entry.ID == string(stone.ID) && entry.ServerID == string(stone.ServerID) {
			return true
		}
	}
	return false
}

// matchesStone matches on either identity so a tombstone recorded with only
// one of the two ids is still cleared once the delete is confirmed.
func matchesStone(entry tombstoneSchema, id domain.RecordID, serverID domain.ServerID) bool {
	if id != "" && entry.ID == string(id) {
		return true
	}
	if serverID != "" && entry.ServerID == string(serverID) {
		return true
	}
	return false
}
