package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lingodeck/lingodeck/internal/application"
	"github.com/lingodeck/lingodeck/internal/domain"
)

var renderNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestRenderViewEmpty(t *testing.T) {
	t.Parallel()

	out := renderView(nil, nil, RenderOptions{Now: renderNow}, newStyles())

	assert.Contains(t, out, "Learning Sessions")
	assert.Contains(t, out, "records: 0, unsynced: 0")
	assert.Contains(t, out, "No session records yet.")
}

func TestRenderViewRecords(t *testing.T) {
	t.Parallel()

	records := []domain.SessionRecord{
		{
			ID:              "a",
			LessonTitle:     "Greetings",
			StartedAt:       renderNow.Add(-2 * time.Hour),
			DurationSeconds: 870,
			Speed:           1.25,
			Segments:        3,
			Finished:        true,
			ServerID:        "srv-a",
			SyncedAt:        renderNow.Add(-time.Hour),
		},
		{
			ID:              "b",
			LessonID:        "lesson-2",
			StartedAt:       renderNow.Add(-26 * time.Hour),
			DurationSeconds: 45,
			Speed:           1.0,
			Segments:        1,
			Dirty:           true,
		},
	}

	out := renderView(records, nil, RenderOptions{Now: renderNow}, newStyles())

	assert.Contains(t, out, "records: 2, unsynced: 1")
	assert.Contains(t, out, "Greetings ✓")
	assert.Contains(t, out, "14m30s at 1.25x · 3 segment(s)")
	assert.Contains(t, out, "synced 11:00 on 01 Aug")
	assert.Contains(t, out, "lesson-2", "a record without a title falls back to the lesson id")
	assert.Contains(t, out, "10:00 on 31 Jul", "a start on another day includes the date")
	assert.Contains(t, out, "not synced")
}

func TestRenderViewSameDayStartOmitsDate(t *testing.T) {
	t.Parallel()

	records := []domain.SessionRecord{{
		ID:          "a",
		LessonTitle: "Greetings",
		StartedAt:   renderNow.Add(-30 * time.Minute),
		Speed:       1.0,
		Segments:    1,
		ServerID:    "srv-a",
	}}

	out := renderView(records, nil, RenderOptions{Now: renderNow}, newStyles())
	assert.Contains(t, out, "11:30 ·")
	assert.NotContains(t, out, "11:30 on")
}

func TestRenderViewCacheSummary(t *testing.T) {
	t.Parallel()

	cache := &application.LessonCacheStatus{
		State:       domain.CacheStatePartial,
		CachedURLs:  2,
		TotalURLs:   5,
		CachedBytes: 3 << 20,
	}

	out := renderView(nil, cache, RenderOptions{Now: renderNow}, newStyles())
	assert.Contains(t, out, "cache: partial (2/5 files, 3.0 MiB)")
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m00s"},
		{870, "14m30s"},
		{3600, "1h00m"},
		{5400, "1h30m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.seconds))
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 << 20, "3.0 MiB"},
		{5 << 30, "5.0 GiB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.n))
	}
}
