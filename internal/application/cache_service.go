package application

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

// CacheService coordinates the on-disk content cache: deduplicated
// downloads, atomic install, and a durable index whose mutations are
// strictly serialized. Readers may race freely; every index change happens
// under mu, one at a time, so no interleaved read-modify-write can corrupt
// it.
type CacheService struct {
	index      ports.CacheIndex
	downloader ports.Downloader
	clock      ports.Clock
	dir        string

	mu      sync.Mutex
	flights singleflight.Group
}

func NewCacheService(index ports.CacheIndex, downloader ports.Downloader, clock ports.Clock, dir string) *CacheService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &CacheService{
		index:      index,
		downloader: downloader,
		clock:      clock,
		dir:        dir,
	}
}

// CachedFile resolves a content URL to its local path, or
// domain.ErrCacheMiss. An index entry whose backing file has vanished is
// evicted on the spot and reported as a miss.
func (c *CacheService) CachedFile(ctx context.Context, url string) (domain.CacheEntry, error) {
	key := domain.CacheKey(url)

	entry, err := c.index.Get(ctx, key)
	if err != nil {
		return domain.CacheEntry{}, err
	}

	if !fileExists(entry.LocalPath) {
		c.mu.Lock()
		evictErr := c.index.Delete(ctx, key)
		c.mu.Unlock()
		if evictErr != nil {
			return domain.CacheEntry{}, fmt.Errorf("evict dangling cache entry: %w", evictErr)
		}
		return domain.CacheEntry{}, domain.ErrCacheMiss
	}

	return entry, nil
}

// DownloadAndCache materializes a content URL locally. A valid cached copy
// short-circuits; concurrent requesters for the same key collapse into a
// single transfer and all receive its result. The blob is downloaded to a
// temporary location and installed atomically before the index learns about
// it.
func (c *CacheService) DownloadAndCache(ctx context.Context, url string, progress ports.ProgressFunc) (domain.CacheEntry, error) {
	if entry, err := c.CachedFile(ctx, url); err == nil {
		if progress != nil {
			progress(ports.DownloadProgress{Received: entry.Size, Total: entry.Size, Done: true})
		}
		return entry, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		return domain.CacheEntry{}, err
	}

	key := domain.CacheKey(url)
	v, err, _ := c.flights.Do(key, func() (any, error) {
		return c.fetchAndInstall(ctx, url, key, progress)
	})
	if err != nil {
		return domain.CacheEntry{}, err
	}

	entry, ok := v.(domain.CacheEntry)
	if !ok {
		return domain.CacheEntry{}, errors.New("unexpected download result type")
	}
	if progress != nil {
		progress(ports.DownloadProgress{Received: entry.Size, Total: entry.Size, Done: true})
	}
	return entry, nil
}

func (c *CacheService) fetchAndInstall(ctx context.Context, url, key string, progress ports.ProgressFunc) (domain.CacheEntry, error) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return domain.CacheEntry{}, fmt.Errorf("create cache directory: %w", err)
	}

	partial := filepath.Join(c.dir, key+".partial")
	result, err := c.downloader.Download(ctx, url, partial, progress)
	if err != nil {
		_ = os.Remove(partial)
		return domain.CacheEntry{}, fmt.Errorf("download %s: %w", url, err)
	}

	canonical := filepath.Join(c.dir, key)
	if err := os.Remove(canonical); err != nil && !errors.Is(err, os.ErrNotExist) {
		_ = os.Remove(partial)
		return domain.CacheEntry{}, fmt.Errorf("remove stale cache file: %w", err)
	}
	if err := os.Rename(partial, canonical); err != nil {
		_ = os.Remove(partial)
		return domain.CacheEntry{}, fmt.Errorf("install cache file: %w", err)
	}

	entry := domain.CacheEntry{
		Key:          key,
		SourceURL:    url,
		LocalPath:    canonical,
		Version:      result.Version,
		Size:         result.Size,
		DownloadedAt: c.clock.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Two installs racing on the same key converge: an equal-version entry
	// whose file is still present wins over our rewrite.
	if existing, err := c.index.Get(ctx, key); err == nil {
		if existing.Version == entry.Version && fileExists(existing.LocalPath) {
			return existing, nil
		}
	}

	if err := c.index.Put(ctx, entry); err != nil {
		return domain.CacheEntry{}, fmt.Errorf("record cache entry: %w", err)
	}
	return entry, nil
}

// LessonStatus classifies how much of a URL set is cached and how many
// bytes are already local.
func (c *CacheService) LessonStatus(ctx context.Context, urls []string) (LessonCacheStatus, error) {
	status := LessonCacheStatus{TotalURLs: len(urls)}

	for _, url := range urls {
		entry, err := c.CachedFile(ctx, url)
		if errors.Is(err, domain.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return LessonCacheStatus{}, err
		}
		status.CachedURLs++
		status.CachedBytes += entry.Size
	}

	switch {
	case status.TotalURLs > 0 && status.CachedURLs == status.TotalURLs:
		status.State = domain.CacheStateFull
	case status.CachedURLs > 0:
		status.State = domain.CacheStatePartial
	default:
		status.State = domain.CacheStateNone
	}
	return status, nil
}

// ClearLesson drops the cache entries and backing files for a URL set and
// forgets any in-flight download for those keys.
func (c *CacheService) ClearLesson(ctx context.Context, urls []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, url := range urls {
		key := domain.CacheKey(url)
		c.flights.Forget(key)

		entry, err := c.index.Get(ctx, key)
		if errors.Is(err, domain.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return err
		}
		if err := os.Remove(entry.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove cached file: %w", err)
		}
		if err := c.index.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll empties the cache index and removes every backing file.
func (c *CacheService) ClearAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.index.List(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		c.flights.Forget(entry.Key)
		if err := os.Remove(entry.LocalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove cached file: %w", err)
		}
		if err := c.index.Delete(ctx, entry.Key); err != nil {
			return err
		}
	}
	return nil
}

// RedownloadLesson clears a URL set and fetches it again, reporting per-URL
// progress. Individual failures are reported through perURL and do not stop
// the remaining downloads.
func (c *CacheService) RedownloadLesson(ctx context.Context, urls []string, perURL func(URLProgress)) error {
	if err := c.ClearLesson(ctx, urls); err != nil {
		return err
	}

	var firstErr error
	for _, url := range urls {
		url := url
		_, err := c.DownloadAndCache(ctx, url, func(p ports.DownloadProgress) {
			if perURL != nil {
				perURL(URLProgress{URL: url, Received: p.Received, Total: p.Total, Done: p.Done})
			}
		})
		if err != nil {
			if perURL != nil {
				perURL(URLProgress{URL: url, Err: err})
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
