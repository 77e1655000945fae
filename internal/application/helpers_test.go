package application

import (
	"context"
	"sync"
	"time"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

type fakeRecordStore struct {
	mu      sync.Mutex
	records []domain.SessionRecord
	loads   int
	writes  int
}

func (f *fakeRecordStore) Load(_ context.Context) ([]domain.SessionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	out := make([]domain.SessionRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeRecordStore) Replace(_ context.Context, records []domain.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.records = make([]domain.SessionRecord, len(records))
	copy(f.records, records)
	return nil
}

func (f *fakeRecordStore) snapshot() []domain.SessionRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.SessionRecord, len(f.records))
	copy(out, f.records)
	return out
}

func (f *fakeRecordStore) find(id domain.RecordID) (domain.SessionRecord, bool) {
	for _, rec := range f.snapshot() {
		if rec.ID == id {
			return rec, true
		}
	}
	return domain.SessionRecord{}, false
}

type fakeTombstoneStore struct {
	mu     sync.Mutex
	stones []domain.Tombstone
}

func (f *fakeTombstoneStore) Load(_ context.Context) ([]domain.Tombstone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Tombstone, len(f.stones))
	copy(out, f.stones)
	return out, nil
}

func (f *fakeTombstoneStore) Add(_ context.Context, stones ...domain.Tombstone) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stones = append(f.stones, stones...)
	return nil
}

func (f *fakeTombstoneStore) Remove(_ context.Context, id domain.RecordID, serverID domain.ServerID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.stones[:0]
	for _, stone := range f.stones {
		if (id != "" && stone.ID == id) || (serverID != "" && stone.ServerID == serverID) {
			continue
		}
		kept = append(kept, stone)
	}
	f.stones = kept
	return nil
}

func (f *fakeTombstoneStore) covers(id domain.RecordID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stone := range f.stones {
		if stone.ID == id {
			return true
		}
	}
	return false
}

// fakeSessionAPI scripts remote behavior per call and counts invocations.
type fakeSessionAPI struct {
	mu        sync.Mutex
	listFn    func(limit int) ports.FetchOutcome
	createFn  func(rec domain.SessionRecord) ports.PushOutcome
	updateFn  func(rec domain.SessionRecord) ports.PushOutcome
	deleteFn  func(serverID domain.ServerID) ports.DeleteOutcome
	deleteAll func() ports.DeleteOutcome

	listCalls      int
	createCalls    int
	updateCalls    int
	deleteCalls    int
	deleteAllCalls int
}

func (f *fakeSessionAPI) List(_ context.Context, _ string, limit int) ports.FetchOutcome {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return ports.FetchOutcome{Status: ports.FetchOK}
	}
	return fn(limit)
}

func (f *fakeSessionAPI) Create(_ context.Context, _ string, rec domain.SessionRecord) ports.PushOutcome {
	f.mu.Lock()
	f.createCalls++
	fn := f.createFn
	f.mu.Unlock()
	if fn == nil {
		return ports.PushOutcome{Status: ports.PushOK, ServerID: "srv-" + domain.ServerID(rec.ID)}
	}
	return fn(rec)
}

func (f *fakeSessionAPI) Update(_ context.Context, _ string, rec domain.SessionRecord) ports.PushOutcome {
	f.mu.Lock()
	f.updateCalls++
	fn := f.updateFn
	f.mu.Unlock()
	if fn == nil {
		return ports.PushOutcome{Status: ports.PushOK, ServerID: rec.ServerID}
	}
	return fn(rec)
}

func (f *fakeSessionAPI) Delete(_ context.Context, _ string, serverID domain.ServerID) ports.DeleteOutcome {
	f.mu.Lock()
	f.deleteCalls++
	fn := f.deleteFn
	f.mu.Unlock()
	if fn == nil {
		return ports.DeleteOutcome{Status: ports.DeleteOK}
	}
	return fn(serverID)
}

func (f *fakeSessionAPI) DeleteAll(_ context.Context, _ string) ports.DeleteOutcome {
	f.mu.Lock()
	f.deleteAllCalls++
	fn := f.deleteAll
	f.mu.Unlock()
	if fn == nil {
		return ports.DeleteOutcome{Status: ports.DeleteOK}
	}
	return fn()
}

type fakeCredentials struct {
	mu          sync.Mutex
	token       string
	invalidated bool
}

func (f *fakeCredentials) Token(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.token == "" {
		return "", domain.ErrNoCredential
	}
	return f.token, nil
}

func (f *fakeCredentials) Invalidate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = true
	f.token = ""
	return nil
}

type capturedMetrics struct {
	mu     sync.Mutex
	events []ports.MetricEvent
}

func (c *capturedMetrics) Emit(_ context.Context, event ports.MetricEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *capturedMetrics) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, event := range c.events {
		out = append(out, event.Name)
	}
	return out
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}
