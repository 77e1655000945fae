package domain

// Tombstone records a deletion that is locally authoritative even though the
// remote store has not confirmed it. Either identity may be empty, but not
// both.
type Tombstone struct {
	ID       RecordID
	ServerID ServerID
}

// TombstoneSet is the in-memory view of the durable tombstone collection.
type TombstoneSet struct {
	byID       map[RecordID]struct{}
	byServerID map[ServerID]struct{}
}

func NewTombstoneSet(stones []Tombstone) TombstoneSet {
	set := TombstoneSet{
		byID:       make(map[RecordID]struct{}, len(stones)),
		byServerID: make(map[ServerID]struct{}, len(stones)),
	}
	for _, stone := range stones {
		set.add(stone)
	}
	return set
}

func (s *TombstoneSet) add(stone Tombstone) {
	if stone.ID != "" {
		s.byID[stone.ID] = struct{}{}
	}
	if stone.ServerID != "" {
		s.byServerID[stone.ServerID] = struct{}{}
	}
}

// Covers reports whether a record with the given identities is locally
// deleted and must not be resurrected by a remote fetch.
func (s TombstoneSet) Covers(id RecordID, serverID ServerID) bool {
	if id != "" {
		if _, ok := s.byID[id]; ok {
			return true
		}
	}
	if serverID != "" {
		if _, ok := s.byServerID[serverID]; ok {
			return true
		}
	}
	return false
}
