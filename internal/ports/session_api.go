package ports

import (
	"context"
	"time"

	"github.com/lingodeck/lingodeck/internal/domain"
)

// Remote call outcomes are closed variant sets so the reconciliation engine
// branches on a case, never on a raw status code.

type FetchStatus string

const (
	FetchOK           FetchStatus = "ok"
	FetchUnauthorized FetchStatus = "unauthorized"
	FetchError        FetchStatus = "error"
)

type FetchOutcome struct {
	Status     FetchStatus
	Records    []domain.SessionRecord
	StatusCode int
	Err        error
}

type PushStatus string

const (
	PushOK           PushStatus = "ok"
	PushUnauthorized PushStatus = "unauthorized"
	PushNotFound     PushStatus = "not_found"
	PushError        PushStatus = "error"
)

type PushOutcome struct {
	Status     PushStatus
	ServerID   domain.ServerID
	UpdatedAt  time.Time
	StatusCode int
	Err        error
}

type DeleteStatus string

const (
	DeleteOK           DeleteStatus = "ok"
	DeleteUnauthorized DeleteStatus = "unauthorized"
	DeleteNotFound     DeleteStatus = "not_found"
	DeleteUnsupported  DeleteStatus = "unsupported"
	DeleteError        DeleteStatus = "error"
)

type DeleteOutcome struct {
	Status     DeleteStatus
	StatusCode int
	Err        error
}

// SessionAPI is the remote system of record for session records. The
// transport behind it is an external collaborator; limit bounds the page
// size of List, which returns records newest-first.
type SessionAPI interface {
	List(ctx context.Context, token string, limit int) FetchOutcome
	Create(ctx context.Context, token string, record domain.SessionRecord) PushOutcome
	Update(ctx context.Context, token string, record domain.SessionRecord) PushOutcome
	Delete(ctx context.Context, token string, serverID domain.ServerID) DeleteOutcome
	DeleteAll(ctx context.Context, token string) DeleteOutcome
}
