package toml

import (
	"fmt"
	"time"

	"github.com/lingodeck/lingodeck/internal/domain"
)

const currentSchemaVersion = 1

type recordFileSchema struct {
	Version int            `toml:"version"`
	Records []recordSchema `toml:"records"`
}

func (s *recordFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s recordFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported records schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type recordSchema struct {
	ID              string  `toml:"id"`
	ServerID        string  `toml:"server_id,omitempty"`
	LessonID        string  `toml:"lesson_id"`
	LessonTitle     string  `toml:"lesson_title"`
	RunID           string  `toml:"run_id,omitempty"`
	StartedAt       string  `toml:"started_at"`
	EndedAt         string  `toml:"ended_at,omitempty"`
	PlannedSeconds  int     `toml:"planned_seconds"`
	DurationSeconds int     `toml:"duration_seconds"`
	Speed           float64 `toml:"speed"`
	Finished        bool    `toml:"finished"`
	Segments        int     `toml:"segments"`
	Dirty           bool    `toml:"dirty"`
	SyncedAt        string  `toml:"synced_at,omitempty"`
	LastModifiedAt  string  `toml:"last_modified_at,omitempty"`
	RemoteUpdatedAt string  `toml:"remote_updated_at,omitempty"`
}

type tombstoneFileSchema struct {
	Version    int               `toml:"version"`
	Tombstones []tombstoneSchema `toml:"tombstones"`
}

func (s *tombstoneFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s tombstoneFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported tombstones schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type tombstoneSchema struct {
	ID       string `toml:"id,omitempty"`
	ServerID string `toml:"server_id,omitempty"`
}

type indexFileSchema struct {
	Version int           `toml:"version"`
	Entries []entrySchema `toml:"entries"`
}

func (s *indexFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s indexFileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported cache index schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type entrySchema struct {
	Key          string `toml:"key"`
	SourceURL    string `toml:"source_url"`
	LocalPath    string `toml:"local_path"`
	Version      string `toml:"content_version,omitempty"`
	Size         int64  `toml:"size"`
	DownloadedAt string `toml:"downloaded_at,omitempty"`
}

func toRecordSchema(rec domain.SessionRecord) recordSchema {
	return recordSchema{
		ID:              string(rec.ID),
		ServerID:        string(rec.ServerID),
		LessonID:        rec.LessonID,
		LessonTitle:     rec.LessonTitle,
		RunID:           rec.RunID,
		StartedAt:       formatTime(rec.StartedAt),
		EndedAt:         formatTime(rec.EndedAt),
		PlannedSeconds:  rec.PlannedSeconds,
		DurationSeconds: rec.DurationSeconds,
		Speed:           rec.Speed,
		Finished:        rec.Finished,
		Segments:        rec.Segments,
		Dirty:           rec.Dirty,
		SyncedAt:        formatTime(rec.SyncedAt),
		LastModifiedAt:  formatTime(rec.LastModifiedAt),
		RemoteUpdatedAt: formatTime(rec.RemoteUpdatedAt),
	}
}

func fromRecordSchema(rec recordSchema) domain.SessionRecord {
	return domain.SessionRecord{
		ID:              domain.RecordID(rec.ID),
		ServerID:        domain.ServerID(rec.ServerID),
		LessonID:        rec.LessonID,
		LessonTitle:     rec.LessonTitle,
		RunID:           rec.RunID,
		StartedAt:       parseTime(rec.StartedAt),
		EndedAt:         parseTime(rec.EndedAt),
		PlannedSeconds:  rec.PlannedSeconds,
		DurationSeconds: rec.DurationSeconds,
		Speed:           rec.Speed,
		Finished:        rec.Finished,
		Segments:        rec.Segments,
		Dirty:           rec.Dirty,
		SyncedAt:        parseTime(rec.SyncedAt),
		LastModifiedAt:  parseTime(rec.LastModifiedAt),
		RemoteUpdatedAt: parseTime(rec.RemoteUpdatedAt),
	}
}

func toEntrySchema(entry domain.CacheEntry) entrySchema {
	return entrySchema{
		Key:          entry.Key,
		SourceURL:    entry.SourceURL,
		LocalPath:    entry.LocalPath,
		Version:      entry.Version,
		Size:         entry.Size,
		DownloadedAt: formatTime(entry.DownloadedAt),
	}
}

func fromEntrySchema(entry entrySchema) domain.CacheEntry {
	return domain.CacheEntry{
		Key:          entry.Key,
		SourceURL:    entry.SourceURL,
		LocalPath:    entry.LocalPath,
		Version:      entry.Version,
		Size:         entry.Size,
		DownloadedAt: parseTime(entry.DownloadedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339Nano)
}
