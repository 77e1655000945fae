package application

import (
	"context"
	"fmt"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

// DeleteRecord removes a session record. The local delete is unconditional;
// the remote delete is best-effort, and when it cannot be confirmed the id
// is tombstoned so a later fetch cannot resurrect the record.
func (s *SyncService) DeleteRecord(ctx context.Context, id domain.RecordID) error {
	records, err := s.records.Load(ctx)
	if err != nil {
		return fmt.Errorf("load record store: %w", err)
	}

	var target domain.SessionRecord
	found := false
	remaining := make([]domain.SessionRecord, 0, len(records))
	for _, rec := range records {
		if rec.ID == id {
			target = rec
			found = true
			continue
		}
		remaining = append(remaining, rec)
	}
	if !found {
		return domain.ErrRecordNotFound
	}

	if err := s.records.Replace(ctx, remaining); err != nil {
		return fmt.Errorf("persist record store: %w", err)
	}

	if target.ServerID == "" {
		// Never accepted remotely; nothing to resurrect from.
		return nil
	}

	stone := domain.Tombstone{ID: target.ID, ServerID: target.ServerID}

	token, err := s.credentials.Token(ctx)
	if err != nil {
		return s.tombstones.Add(ctx, stone)
	}

	out := s.api.Delete(ctx, token, target.ServerID)
	switch out.Status {
	case ports.DeleteOK, ports.DeleteNotFound:
		// Confirmed gone remotely (404 means it already was).
		return s.tombstones.Remove(ctx, target.ID, target.ServerID)
	case ports.DeleteUnauthorized:
		_ = s.credentials.Invalidate(ctx)
		return s.tombstones.Add(ctx, stone)
	default:
		return s.tombstones.Add(ctx, stone)
	}
}

// ClearRecords deletes every local record and attempts to clear the remote
// store, preferring the bulk endpoint and falling back to per-record deletes
// when the bulk call is unsupported or fails. Identities whose remote
// deletion could not be confirmed are tombstoned.
func (s *SyncService) ClearRecords(ctx context.Context) error {
	records, err := s.records.Load(ctx)
	if err != nil {
		return fmt.Errorf("load record store: %w", err)
	}
	if err := s.records.Replace(ctx, nil); err != nil {
		return fmt.Errorf("persist record store: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	allStones := make([]domain.Tombstone, 0, len(records))
	for _, rec := range records {
		allStones = append(allStones, domain.Tombstone{ID: rec.ID, ServerID: rec.ServerID})
	}

	token, err := s.credentials.Token(ctx)
	if err != nil {
		return s.tombstones.Add(ctx, allStones...)
	}

	out := s.api.DeleteAll(ctx, token)
	switch out.Status {
	case ports.DeleteOK:
		return s.clearTombstones(ctx, allStones)
	case ports.DeleteUnauthorized:
		_ = s.credentials.Invalidate(ctx)
		return s.tombstones.Add(ctx, allStones...)
	}

	// Bulk endpoint unsupported (404/405) or failed outright.
	confirmed, failed := s.deleteEach(ctx, token, records)
	if len(confirmed) == 0 {
		return s.tombstones.Add(ctx, allStones...)
	}
	if len(failed) > 0 {
		if err := s.tombstones.Add(ctx, failed...); err != nil {
			return err
		}
	}
	return s.clearTombstones(ctx, confirmed)
}

// deleteEach attempts a remote delete per record and splits the identities
// into confirmed-deleted and unconfirmed. Records without a server identity
// were never remote and need neither.
func (s *SyncService) deleteEach(ctx context.Context, token string, records []domain.SessionRecord) (confirmed, failed []domain.Tombstone) {
	unauthorized := false
	for _, rec := range records {
		if rec.ServerID == "" {
			continue
		}
		stone := domain.Tombstone{ID: rec.ID, ServerID: rec.ServerID}
		if unauthorized {
			failed = append(failed, stone)
			continue
		}

		out := s.api.Delete(ctx, token, rec.ServerID)
		switch out.Status {
		case ports.DeleteOK, ports.DeleteNotFound:
			confirmed = append(confirmed, stone)
		case ports.DeleteUnauthorized:
			_ = s.credentials.Invalidate(ctx)
			unauthorized = true
			failed = append(failed, stone)
		default:
			failed = append(failed, stone)
		}
	}
	return confirmed, failed
}

func (s *SyncService) clearTombstones(ctx context.Context, stones []domain.Tombstone) error {
	for _, stone := range stones {
		if err := s.tombstones.Remove(ctx, stone.ID, stone.ServerID); err != nil {
			return err
		}
	}
	return nil
}
