package application

import (
	"time"

	"github.com/lingodeck/lingodeck/internal/domain"
)

// SyncReport summarizes one reconciliation cycle.
type SyncReport struct {
	Skipped       bool
	SkipReason    string
	LocalCount    int
	DirtyBefore   int
	DirtyAfter    int
	RemoteFetched int
	PushAttempted int
	PushFailed    int
	FetchStatus   string
	Duration      time.Duration

	lastPushStatusCode int
}

// LessonCacheStatus aggregates how much of a lesson's media set is present
// locally.
type LessonCacheStatus struct {
	State       domain.CacheState
	CachedBytes int64
	CachedURLs  int
	TotalURLs   int
}

// URLProgress reports per-URL progress during a lesson redownload.
type URLProgress struct {
	URL      string
	Received int64
	Total    int64
	Done     bool
	Err      error
}
