// Package jsonl appends sync metric events as JSON lines to a
// size-rotated file, one object per event, for the analytics pipeline to
// collect later. Emission never fails the sync cycle.
package jsonl

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/lingodeck/lingodeck/internal/ports"
)

const (
	maxSizeMB  = 5
	maxBackups = 3
	maxAgeDays = 30
)

type Sink struct {
	mu  sync.Mutex
	out io.Writer
}

var _ ports.MetricsSink = (*Sink)(nil)

// NewSink writes events to path with lumberjack rotation.
func NewSink(path string) *Sink {
	return &Sink{out: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}}
}

// NewWriterSink writes events to an arbitrary writer; used in tests.
func NewWriterSink(out io.Writer) *Sink {
	return &Sink{out: out}
}

type eventLine struct {
	Event  string         `json:"event"`
	At     time.Time      `json:"at"`
	Fields map[string]any `json:"fields,omitempty"`
}

func (s *Sink) Emit(_ context.Context, event ports.MetricEvent) {
	line, err := json.Marshal(eventLine{Event: event.Name, At: event.At, Fields: event.Fields})
	if err != nil {
		return
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(line)
}
