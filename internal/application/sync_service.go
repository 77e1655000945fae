package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const defaultFetchPageSize = 200

// ErrUnauthorized reports that the remote rejected the current credential
// and the sync cycle was aborted.
var ErrUnauthorized = errors.New("sync aborted: credential rejected by remote")

// SyncService is the reconciliation engine: it reconciles the durable local
// record collection against the remote system of record with one
// fetch-merge-push-persist cycle per call, and owns the deletion protocol.
type SyncService struct {
	records     ports.RecordStore
	tombstones  ports.TombstoneStore
	api         ports.SessionAPI
	credentials ports.CredentialSource
	metrics     ports.MetricsSink
	clock       ports.Clock
	pageSize    int
	group       singleflight.Group
}

func NewSyncService(
	records ports.RecordStore,
	tombstones ports.TombstoneStore,
	api ports.SessionAPI,
	credentials ports.CredentialSource,
	metrics ports.MetricsSink,
	clock ports.Clock,
) *SyncService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SyncService{
		records:     records,
		tombstones:  tombstones,
		api:         api,
		credentials: credentials,
		metrics:     metrics,
		clock:       clock,
		pageSize:    defaultFetchPageSize,
	}
}

// Sync runs one reconciliation cycle. At most one cycle is in flight at any
// time: callers arriving while one runs block and receive that cycle's
// outcome instead of starting their own.
func (s *SyncService) Sync(ctx context.Context) (SyncReport, error) {
	v, err, _ := s.group.Do("sync", func() (any, error) {
		return s.runCycle(ctx)
	})

	report, ok := v.(SyncReport)
	if !ok {
		report = SyncReport{}
	}
	return report, err
}

func (s *SyncService) runCycle(ctx context.Context) (SyncReport, error) {
	started := s.clock.Now()

	local, err := s.records.Load(ctx)
	if err != nil {
		return SyncReport{}, fmt.Errorf("load record store: %w", err)
	}

	report := SyncReport{
		LocalCount:  len(local),
		DirtyBefore: domain.CountDirty(local),
	}

	token, err := s.credentials.Token(ctx)
	if err != nil {
		report.Skipped = true
		report.SkipReason = "unauthenticated"
		s.metrics.Emit(ctx, ports.MetricEvent{
			Name:   ports.MetricSyncSkipped,
			At:     s.clock.Now(),
			Fields: map[string]any{"reason": report.SkipReason},
		})
		return report, nil
	}

	s.metrics.Emit(ctx, ports.MetricEvent{
		Name: ports.MetricSyncStarted,
		At:   started,
		Fields: map[string]any{
			"localCount": report.LocalCount,
			"dirtyCount": report.DirtyBefore,
		},
	})

	fetch := s.api.List(ctx, token, s.pageSize)
	switch fetch.Status {
	case ports.FetchOK:
		report.FetchStatus = string(ports.FetchOK)
		report.RemoteFetched = len(fetch.Records)
	case ports.FetchUnauthorized:
		_ = s.credentials.Invalidate(ctx)
		s.emitFailed(ctx, started, "fetch", fetch.StatusCode, fetch.Err)
		return report, ErrUnauthorized
	default:
		// Network or server trouble: carry on against an empty remote list
		// so local-only operation keeps working.
		report.FetchStatus = string(ports.FetchError)
		fetch.Records = nil
	}

	stones, err := s.tombstones.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load tombstones: %w", err)
	}

	merged := domain.MergeRemote(local, fetch.Records, domain.NewTombstoneSet(stones))

	unauthorized, err := s.pushDirty(ctx, token, merged, &report)
	if err != nil {
		return report, err
	}

	if err := s.persist(ctx, merged); err != nil {
		return report, err
	}

	if unauthorized {
		s.emitFailed(ctx, started, "push", report.lastPushStatusCode, nil)
		return report, ErrUnauthorized
	}

	report.DirtyAfter = domain.CountDirty(merged)
	report.Duration = s.clock.Now().Sub(started)
	s.metrics.Emit(ctx, ports.MetricEvent{
		Name: ports.MetricSyncCompleted,
		At:   s.clock.Now(),
		Fields: map[string]any{
			"durationMs":    report.Duration.Milliseconds(),
			"localCount":    report.LocalCount,
			"dirtyBefore":   report.DirtyBefore,
			"dirtyAfter":    report.DirtyAfter,
			"remoteFetched": report.RemoteFetched,
			"pushAttempted": report.PushAttempted,
			"pushFailed":    report.PushFailed,
			"fetchStatus":   report.FetchStatus,
		},
	})

	return report, nil
}

// pushDirty walks the merged set strictly in order and pushes every
// push-eligible record. It reports whether the loop was aborted by an
// unauthorized response; transient per-record failures only leave the record
// dirty for the next cycle.
func (s *SyncService) pushDirty(ctx context.Context, token string, merged []domain.SessionRecord, report *SyncReport) (bool, error) {
	for i := range merged {
		rec := merged[i]
		if !rec.NeedsPush() {
			continue
		}
		report.PushAttempted++

		out := s.pushOne(ctx, token, rec)
		switch out.Status {
		case ports.PushOK:
			rec.ServerID = out.ServerID
			rec.Dirty = false
			rec.SyncedAt = s.clock.Now()
			if !out.UpdatedAt.IsZero() {
				rec.RemoteUpdatedAt = out.UpdatedAt
			} else {
				rec.RemoteUpdatedAt = rec.SyncedAt
			}
			merged[i] = rec
		case ports.PushUnauthorized:
			_ = s.credentials.Invalidate(ctx)
			report.PushFailed++
			report.lastPushStatusCode = out.StatusCode
			return true, nil
		default:
			report.PushFailed++
		}
	}
	return false, nil
}

func (s *SyncService) pushOne(ctx context.Context, token string, rec domain.SessionRecord) ports.PushOutcome {
	if rec.ServerID == "" {
		return s.api.Create(ctx, token, rec)
	}

	out := s.api.Update(ctx, token, rec)
	if out.Status == ports.PushNotFound {
		// Update target vanished remotely; recreate it.
		rec.ServerID = ""
		return s.api.Create(ctx, token, rec)
	}
	return out
}

// persist unions the push-processed set with the store's current contents so
// a local edit that landed mid-cycle survives, then swaps the collection
// atomically.
func (s *SyncService) persist(ctx context.Context, processed []domain.SessionRecord) error {
	current, err := s.records.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload record store: %w", err)
	}

	final := domain.UnionNewest(current, processed)
	if err := s.records.Replace(ctx, final); err != nil {
		return fmt.Errorf("persist record store: %w", err)
	}
	return nil
}

func (s *SyncService) emitFailed(ctx context.Context, started time.Time, stage string, statusCode int, cause error) {
	fields := map[string]any{
		"durationMs": s.clock.Now().Sub(started).Milliseconds(),
		"stage":      stage,
		"statusCode": statusCode,
	}
	if cause != nil {
		fields["errorMessage"] = cause.Error()
	}
	s.metrics.Emit(ctx, ports.MetricEvent{Name: ports.MetricSyncFailed, At: s.clock.Now(), Fields: fields})
}

// SaveLocal upserts a locally-recorded session, stamping it dirty so the
// next cycle pushes it. Records enter the engine through here; nothing else
// mutates the store.
func (s *SyncService) SaveLocal(ctx context.Context, rec domain.SessionRecord) error {
	rec.Speed = domain.ClampSpeed(rec.Speed)
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Dirty = true
	if rec.LastModifiedAt.IsZero() {
		rec.LastModifiedAt = s.clock.Now()
	}

	current, err := s.records.Load(ctx)
	if err != nil {
		return fmt.Errorf("load record store: %w", err)
	}

	final := domain.UnionNewest(current, []domain.SessionRecord{rec})
	if err := s.records.Replace(ctx, final); err != nil {
		return fmt.Errorf("persist record store: %w", err)
	}
	return nil
}

// Records returns the current local collection, newest first.
func (s *SyncService) Records(ctx context.Context) ([]domain.SessionRecord, error) {
	records, err := s.records.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load record store: %w", err)
	}
	domain.SortNewestFirst(records)
	return records, nil
}
