package toml

import (
	"context"
	"sync"

	"github.com/spf13/viper"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const (
	recordsPathKey = "records.path"
	recordsFile    = "records.toml"
)

// RecordRepository persists the session record collection as a single TOML
// file, replaced atomically on every write.
type RecordRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.RecordStore = (*RecordRepository)(nil)

func NewRecordRepository(cfg *viper.Viper) (*RecordRepository, error) {
	path, err := resolvePath(cfg, recordsPathKey, recordsFile)
	if err != nil {
		return nil, err
	}

	return &RecordRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *RecordRepository) Load(ctx context.Context) ([]domain.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var file recordFileSchema
	if err := readTOMLFile(r.path, &file); err != nil {
		return nil, err
	}
	if err := file.validateVersion(); err != nil {
		return nil, err
	}

	records := make([]domain.SessionRecord, 0, len(file.Records))
	for _, entry := range file.Records {
		records = append(records, fromRecordSchema(entry))
	}

	return records, nil
}

func (r *RecordRepository) Replace(ctx context.Context, records []domain.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file := recordFileSchema{Version: currentSchemaVersion}
	for _, rec := range records {
		file.Records = append(file.Records, toRecordSchema(rec))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return writeTOMLFile(r.path, file)
}
