package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type RecordID string

type ServerID string

const (
	SpeedMin = 0.25
	SpeedMax = 3.0
)

// SessionRecord is one unit of learning activity. The client-generated ID is
// the merge key for reconciliation; ServerID is assigned once the remote
// store has accepted the record.
type SessionRecord struct {
	ID              RecordID
	ServerID        ServerID
	LessonID        string
	LessonTitle     string
	RunID           string
	StartedAt       time.Time
	EndedAt         time.Time
	PlannedSeconds  int
	DurationSeconds int
	Speed           float64
	Finished        bool
	Segments        int
	Dirty           bool
	SyncedAt        time.Time
	LastModifiedAt  time.Time
	RemoteUpdatedAt time.Time
}

// NewSessionRecord creates a local-only record marked dirty. It has no server
// identity yet, so it is push-eligible from birth.
func NewSessionRecord(lessonID, lessonTitle string, startedAt time.Time) SessionRecord {
	return SessionRecord{
		ID:             RecordID(uuid.NewString()),
		LessonID:       lessonID,
		LessonTitle:    lessonTitle,
		StartedAt:      startedAt,
		Speed:          1.0,
		Segments:       1,
		Dirty:          true,
		LastModifiedAt: startedAt,
	}
}

// ClampSpeed bounds a playback speed to the supported range.
func ClampSpeed(speed float64) float64 {
	if speed < SpeedMin {
		return SpeedMin
	}
	if speed > SpeedMax {
		return SpeedMax
	}
	return speed
}

// NeedsPush reports whether the record has unpushed local state. A record
// without a server identity was never created remotely and is implicitly
// dirty.
func (r SessionRecord) NeedsPush() bool {
	return r.Dirty || r.ServerID == ""
}

// ModifiedAt returns the instant used for conflict comparison: the local
// modification time when set, otherwise the server-reported one.
func (r SessionRecord) ModifiedAt() time.Time {
	if !r.LastModifiedAt.IsZero() {
		return r.LastModifiedAt
	}
	return r.RemoteUpdatedAt
}

func (r SessionRecord) Validate() error {
	if strings.TrimSpace(string(r.ID)) == "" {
		return ErrInvalidRecord
	}
	if r.PlannedSeconds < 0 || r.DurationSeconds < 0 {
		return ErrInvalidRecord
	}
	if r.Segments < 1 {
		return ErrInvalidRecord
	}
	return nil
}
