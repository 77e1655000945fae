package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2026, 7, 30, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
	t2 = t0.Add(2 * time.Hour)
)

func localRec(id string, modifiedAt time.Time, dirty bool) SessionRecord {
	return SessionRecord{
		ID:              RecordID(id),
		LessonID:        "lesson-1",
		DurationSeconds: 900,
		StartedAt:       t0,
		Dirty:           dirty,
		LastModifiedAt:  modifiedAt,
	}
}

func remoteRec(id, serverID string, updatedAt time.Time) SessionRecord {
	return SessionRecord{
		ID:              RecordID(id),
		ServerID:        ServerID(serverID),
		LessonID:        "lesson-1",
		DurationSeconds: 300,
		StartedAt:       t0,
		RemoteUpdatedAt: updatedAt,
	}
}

func TestMergeRemoteInsertsUnknownRecords(t *testing.T) {
	t.Parallel()

	remote := remoteRec("a", "srv-a", t0)
	remote.Dirty = true // a lying remote flag must not make the copy push-eligible

	merged := MergeRemote(nil, []SessionRecord{remote}, NewTombstoneSet(nil))

	require.Len(t, merged, 1)
	assert.Equal(t, RecordID("a"), merged[0].ID)
	assert.False(t, merged[0].Dirty)
}

func TestMergeRemoteTombstoneBlocksInsert(t *testing.T) {
	t.Parallel()

	stones := NewTombstoneSet([]Tombstone{{ID: "a", ServerID: "srv-a"}})
	merged := MergeRemote(nil, []SessionRecord{remoteRec("a", "srv-a", t0)}, stones)
	assert.Empty(t, merged)

	// Coverage by server identity alone is enough: the remote may serve the
	// record under a different client id after a lossy migration.
	merged = MergeRemote(nil, []SessionRecord{remoteRec("other", "srv-a", t0)}, stones)
	assert.Empty(t, merged)
}

func TestMergeRemoteNewerDirtyLocalWinsButAbsorbsIdentity(t *testing.T) {
	t.Parallel()

	local := localRec("a", t1, true)
	remote := remoteRec("a", "srv-a", t0)

	merged := MergeRemote([]SessionRecord{local}, []SessionRecord{remote}, NewTombstoneSet(nil))

	require.Len(t, merged, 1)
	got := merged[0]
	assert.Equal(t, 900, got.DurationSeconds, "the newer local fields must survive")
	assert.True(t, got.Dirty, "the winning local copy still needs its push")
	assert.Equal(t, ServerID("srv-a"), got.ServerID)
	assert.Equal(t, t0, got.RemoteUpdatedAt)
}

func TestMergeRemoteNewerRemoteWins(t *testing.T) {
	t.Parallel()

	local := localRec("a", t0, true)
	remote := remoteRec("a", "srv-a", t1)

	merged := MergeRemote([]SessionRecord{local}, []SessionRecord{remote}, NewTombstoneSet(nil))

	require.Len(t, merged, 1)
	got := merged[0]
	assert.Equal(t, 300, got.DurationSeconds)
	assert.False(t, got.Dirty)
}

func TestMergeRemoteCleanLocalAlwaysYields(t *testing.T) {
	t.Parallel()

	// A clean local copy yields even when timestamps tie: nothing unsynced
	// can be lost by taking the remote.
	local := localRec("a", t0, false)
	remote := remoteRec("a", "srv-a", t0)

	merged := MergeRemote([]SessionRecord{local}, []SessionRecord{remote}, NewTombstoneSet(nil))

	require.Len(t, merged, 1)
	assert.Equal(t, 300, merged[0].DurationSeconds)
}

func TestMergeRemoteTieGoesToDirtyLocal(t *testing.T) {
	t.Parallel()

	local := localRec("a", t0, true)
	remote := remoteRec("a", "srv-a", t0)

	merged := MergeRemote([]SessionRecord{local}, []SessionRecord{remote}, NewTombstoneSet(nil))

	require.Len(t, merged, 1)
	assert.Equal(t, 900, merged[0].DurationSeconds)
	assert.True(t, merged[0].Dirty)
}

func TestMergeRemoteIsIdempotent(t *testing.T) {
	t.Parallel()

	local := []SessionRecord{localRec("a", t1, true), localRec("b", t0, false)}
	remote := []SessionRecord{remoteRec("a", "srv-a", t0), remoteRec("c", "srv-c", t2)}
	stones := NewTombstoneSet([]Tombstone{{ID: "d"}})

	once := MergeRemote(local, remote, stones)
	twice := MergeRemote(once, remote, stones)
	assert.Equal(t, once, twice)
}

func TestUnionNewestKeepsConcurrentEdit(t *testing.T) {
	t.Parallel()

	// The store gained an edit while the cycle processed a stale snapshot.
	current := localRec("a", t2, true)
	processed := localRec("a", t1, false)
	processed.ServerID = "srv-a"
	processed.RemoteUpdatedAt = t1

	out := UnionNewest([]SessionRecord{current}, []SessionRecord{processed})

	require.Len(t, out, 1)
	got := out[0]
	assert.Equal(t, t2, got.LastModifiedAt)
	assert.True(t, got.Dirty, "the concurrent edit stays push-eligible")
	assert.Equal(t, ServerID("srv-a"), got.ServerID, "push-gained identity must be preserved")
	assert.Equal(t, t1, got.RemoteUpdatedAt)
}

func TestUnionNewestTieGoesToProcessed(t *testing.T) {
	t.Parallel()

	current := localRec("a", t1, true)
	processed := localRec("a", t1, false)
	processed.ServerID = "srv-a"

	out := UnionNewest([]SessionRecord{current}, []SessionRecord{processed})

	require.Len(t, out, 1)
	assert.False(t, out[0].Dirty, "equal instants mean the processed copy is the same edit, post-push")
}

func TestUnionNewestKeepsRecordsAddedDuringCycle(t *testing.T) {
	t.Parallel()

	fresh := localRec("new", t2, true)
	fresh.StartedAt = t2
	out := UnionNewest(
		[]SessionRecord{localRec("a", t0, false), fresh},
		[]SessionRecord{localRec("a", t0, false)},
	)

	require.Len(t, out, 2)
	assert.Equal(t, RecordID("new"), out[0].ID, "output is sorted newest first")
	assert.Equal(t, RecordID("a"), out[1].ID)
}

func TestSortNewestFirst(t *testing.T) {
	t.Parallel()

	a := SessionRecord{ID: "a", StartedAt: t0}
	b := SessionRecord{ID: "b", StartedAt: t2}
	c := SessionRecord{ID: "c", StartedAt: t0}

	records := []SessionRecord{c, a, b}
	SortNewestFirst(records)

	assert.Equal(t, []RecordID{"b", "a", "c"}, []RecordID{records[0].ID, records[1].ID, records[2].ID})
}

func TestCountDirty(t *testing.T) {
	t.Parallel()

	records := []SessionRecord{
		{ID: "a", Dirty: true, ServerID: "srv-a"},
		{ID: "b"}, // no server identity, implicitly dirty
		{ID: "c", ServerID: "srv-c"},
	}
	assert.Equal(t, 2, CountDirty(records))
}
