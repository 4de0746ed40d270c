// Package telemetry publishes telemetry events raised by any execution context.
package telemetry

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is one published telemetry event.
type Event struct {
	Name       string
	Properties map[string]any
	TabID      *int
	Timestamp  time.Time
}

// Sink receives published events.
type Sink interface {
	Publish(e Event)
}

// EnabledFunc reports whether the user allows telemetry.
type EnabledFunc func() bool

// EventHandler publishes telemetry to a sink when telemetry is enabled.
type EventHandler struct {
	sink    Sink
	enabled EnabledFunc
	source  string
	now     func() time.Time
}

// NewEventHandler creates a handler. A nil enabled func means always enabled.
func NewEventHandler(sink Sink, enabled EnabledFunc, source string) *EventHandler {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &EventHandler{
		sink:    sink,
		enabled: enabled,
		source:  source,
		now:     time.Now,
	}
}

// PublishTelemetry publishes the event. Fire-and-forget: disabled telemetry
// drops the event silently.
func (h *EventHandler) PublishTelemetry(eventName string, payload map[string]any, tabID *int) {
	if !h.enabled() {
		return
	}

	props := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		props[k] = v
	}
	if h.source != "" {
		props["source"] = h.source
	}

	h.sink.Publish(Event{
		Name:       eventName,
		Properties: props,
		TabID:      tabID,
		Timestamp:  h.now(),
	})
}

// LogSink writes events to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a log sink.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("telemetry")}
}

// Publish implements Sink.
func (s *LogSink) Publish(e Event) {
	fields := []zap.Field{
		zap.String("event", e.Name),
		zap.Any("properties", e.Properties),
		zap.Time("timestamp", e.Timestamp),
	}
	if e.TabID != nil {
		fields = append(fields, zap.Int("tabId", *e.TabID))
	}
	s.logger.Info("telemetry", fields...)
}

// MemorySink keeps published events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Sink.
func (s *MemorySink) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events returns a copy of the published events.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// MultiSink fans events out to several sinks.
type MultiSink []Sink

// Publish implements Sink.
func (m MultiSink) Publish(e Event) {
	for _, s := range m {
		s.Publish(e)
	}
}
