package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"time"
)

// CacheEntry describes one cached content blob. Version is an opaque remote
// version token (typically a last-modified stamp) kept for annotation only;
// it never drives invalidation.
type CacheEntry struct {
	Key          string
	SourceURL    string
	LocalPath    string
	Version      string
	Size         int64
	DownloadedAt time.Time
}

// CacheState classifies how much of a lesson's media is present locally.
type CacheState string

const (
	CacheStateFull    CacheState = "full"
	CacheStatePartial CacheState = "partial"
	CacheStateNone    CacheState = "none"
)

var safeExtPattern = regexp.MustCompile(`^\.[A-Za-z0-9]{1,8}$`)

// CacheKey derives the deterministic, filesystem-safe identifier for a
// content URL: the hex SHA-256 of the URL, keeping a recognizable file
// extension when the URL path carries one.
func CacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	key := hex.EncodeToString(sum[:])

	if parsed, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(parsed.Path); safeExtPattern.MatchString(ext) {
			key += ext
		}
	}

	return key
}
