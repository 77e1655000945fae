package domain

import "sort"

// MergeRemote folds a remote fetch result into the local record set.
//
// Remote records absent locally are inserted as-is, cleared of the dirty
// flag, unless a tombstone forbids their resurrection. When both sides hold
// the same id, last writer wins on the modification instant; a tie goes to a
// dirty local copy so unsynced edits are never silently dropped. Whichever
// side wins, the remote identity (ServerID, RemoteUpdatedAt) is absorbed.
func MergeRemote(local, remote []SessionRecord, tombstones TombstoneSet) []SessionRecord {
	byID := make(map[RecordID]int, len(local))
	merged := make([]SessionRecord, len(local))
	copy(merged, local)
	for i, rec := range merged {
		byID[rec.ID] = i
	}

	for _, rem := range remote {
		if tombstones.Covers(rem.ID, rem.ServerID) {
			continue
		}

		i, ok := byID[rem.ID]
		if !ok {
			rem.Dirty = false
			byID[rem.ID] = len(merged)
			merged = append(merged, rem)
			continue
		}

		loc := merged[i]
		if loc.Dirty && !loc.ModifiedAt().Before(rem.ModifiedAt()) {
			loc.ServerID = rem.ServerID
			loc.RemoteUpdatedAt = rem.RemoteUpdatedAt
			merged[i] = loc
			continue
		}

		rem.Dirty = false
		merged[i] = rem
	}

	return merged
}

// UnionNewest merges a processed record set back into the store's current
// contents, keyed by id, keeping whichever copy has the more recent
// modification instant. Ties go to the processed set. A local edit landing
// while a push was in flight re-marks the record dirty and survives here.
func UnionNewest(current, processed []SessionRecord) []SessionRecord {
	byID := make(map[RecordID]int, len(processed))
	out := make([]SessionRecord, len(processed))
	copy(out, processed)
	for i, rec := range out {
		byID[rec.ID] = i
	}

	for _, cur := range current {
		i, ok := byID[cur.ID]
		if !ok {
			byID[cur.ID] = len(out)
			out = append(out, cur)
			continue
		}
		if cur.ModifiedAt().After(out[i].ModifiedAt()) {
			// Preserve server identity gained by the push even when the
			// concurrent local edit wins.
			if cur.ServerID == "" {
				cur.ServerID = out[i].ServerID
			}
			if cur.RemoteUpdatedAt.IsZero() {
				cur.RemoteUpdatedAt = out[i].RemoteUpdatedAt
			}
			out[i] = cur
		}
	}

	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders records by start instant, newest first, with the id
// as a deterministic tiebreaker.
func SortNewestFirst(records []SessionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].StartedAt.Equal(records[j].StartedAt) {
			return records[i].StartedAt.After(records[j].StartedAt)
		}
		return records[i].ID < records[j].ID
	})
}

// CountDirty returns how many records are push-eligible.
func CountDirty(records []SessionRecord) int {
	n := 0
	for _, rec := range records {
		if rec.NeedsPush() {
			n++
		}
	}
	return n
}
