package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingodeck/lingodeck/internal/domain"
)

func newTestRecordRepository(t *testing.T) (*RecordRepository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "records.toml")
	cfg := viper.New()
	cfg.Set("records.path", path)

	repo, err := NewRecordRepository(cfg)
	require.NoError(t, err)
	return repo, path
}

func TestRecordRepositoryLoadMissingFile(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRecordRepository(t)

	records, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo, path := newTestRecordRepository(t)
	ctx := context.Background()

	startedAt := time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	records := []domain.SessionRecord{
		{
			ID:              "rec-1",
			ServerID:        "srv-1",
			LessonID:        "lesson-1",
			LessonTitle:     "Greetings",
			RunID:           "run-7",
			StartedAt:       startedAt,
			EndedAt:         startedAt.Add(15 * time.Minute),
			PlannedSeconds:  900,
			DurationSeconds: 870,
			Speed:           1.25,
			Finished:        true,
			Segments:        3,
			SyncedAt:        startedAt.Add(16 * time.Minute),
			LastModifiedAt:  startedAt.Add(15 * time.Minute),
			RemoteUpdatedAt: startedAt.Add(16 * time.Minute),
		},
		{
			ID:             "rec-2",
			LessonID:       "lesson-2",
			LessonTitle:    "Numbers",
			StartedAt:      startedAt.Add(time.Hour),
			Speed:          1.0,
			Segments:       1,
			Dirty:          true,
			LastModifiedAt: startedAt.Add(time.Hour),
		},
	}

	require.NoError(t, repo.Replace(ctx, records))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRecordRepositoryReplaceOverwrites(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRecordRepository(t)
	ctx := context.Background()

	first := []domain.SessionRecord{{ID: "rec-1", LessonID: "lesson-1", Speed: 1.0, Segments: 1}}
	require.NoError(t, repo.Replace(ctx, first))
	require.NoError(t, repo.Replace(ctx, nil))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRecordRepositoryRejectsNewerSchema(t *testing.T) {
	t.Parallel()

	repo, path := newTestRecordRepository(t)

	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	_, err := repo.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported records schema version")
}

func TestRecordRepositoryCancelledContext(t *testing.T) {
	t.Parallel()

	repo, _ := newTestRecordRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, repo.Replace(ctx, nil), context.Canceled)
}

func TestRecordRepositoryLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	repo, path := newTestRecordRepository(t)

	require.NoError(t, repo.Replace(context.Background(), []domain.SessionRecord{
		{ID: "rec-1", LessonID: "lesson-1", Speed: 1.0, Segments: 1},
	}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}
