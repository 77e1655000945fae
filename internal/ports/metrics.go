package ports

import (
	"context"
	"time"
)

// Metric event names emitted by the sync engine.
const (
	MetricSyncStarted   = "sync_started"
	MetricSyncCompleted = "sync_completed"
	MetricSyncFailed    = "sync_failed"
	MetricSyncSkipped   = "sync_skipped"
)

type MetricEvent struct {
	Name   string
	At     time.Time
	Fields map[string]any
}

// MetricsSink receives sync lifecycle events. The analytics backend is an
// external collaborator; sinks must not fail the sync cycle.
type MetricsSink interface {
	Emit(ctx context.Context, event MetricEvent)
}

// NopMetrics discards every event.
type NopMetrics struct{}

func (NopMetrics) Emit(context.Context, MetricEvent) {}
