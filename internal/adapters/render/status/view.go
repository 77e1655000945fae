package status

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lingodeck/lingodeck/internal/application"
	"github.com/lingodeck/lingodeck/internal/domain"
)

type RenderOptions struct {
	Now time.Time
}

func renderView(records []domain.SessionRecord, cache *application.LessonCacheStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Learning Sessions"),
		s.header.Render(fmt.Sprintf("records: %d, unsynced: %d", len(records), domain.CountDirty(records))),
	}

	if len(records) == 0 {
		lines = append(lines, s.empty.Render("No session records yet."))
	}

	for _, rec := range records {
		lines = append(lines, s.section.Render(renderRecord(rec, opts, s)))
	}

	if cache != nil {
		lines = append(lines, s.section.Render(renderCache(*cache, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRecord(rec domain.SessionRecord, opts RenderOptions, s styles) string {
	parts := []string{
		s.lesson.Render(lessonTitle(rec)),
		s.detail.Render(fmt.Sprintf("  %s · %s at %.2fx · %d segment(s)",
			formatStart(rec.StartedAt, opts.Now),
			formatDuration(rec.DurationSeconds),
			rec.Speed,
			rec.Segments,
		)),
		"  " + syncLabel(rec, s),
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderCache(cache application.LessonCacheStatus, s styles) string {
	label := fmt.Sprintf("cache: %s (%d/%d files, %s)",
		cache.State, cache.CachedURLs, cache.TotalURLs, formatBytes(cache.CachedBytes))

	switch cache.State {
	case domain.CacheStateFull:
		return s.cacheFull.Render(label)
	case domain.CacheStateNone:
		return s.cacheNone.Render(label)
	default:
		return s.detail.Render(label)
	}
}

func lessonTitle(rec domain.SessionRecord) string {
	title := rec.LessonTitle
	if title == "" {
		title = rec.LessonID
	}
	if rec.Finished {
		return title + " ✓"
	}
	return title
}

func syncLabel(rec domain.SessionRecord, s styles) string {
	if rec.NeedsPush() {
		return s.dirty.Render("not synced")
	}
	if rec.SyncedAt.IsZero() {
		return s.synced.Render("synced")
	}
	return s.synced.Render("synced " + rec.SyncedAt.Format("15:04 on 02 Jan"))
}

func formatStart(startedAt, now time.Time) string {
	if startedAt.IsZero() {
		return "unknown start"
	}
	if now.IsZero() {
		return startedAt.Format(time.RFC3339)
	}

	yearA, monthA, dayA := now.Date()
	yearB, monthB, dayB := startedAt.Date()
	if yearA == yearB && monthA == monthB && dayA == dayB {
		return startedAt.Format("15:04")
	}

	return startedAt.Format("15:04 on 02 Jan")
}

func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh%02dm", seconds/3600, (seconds%3600)/60)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
