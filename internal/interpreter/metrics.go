package interpreter

import (
	"sort"
	"sync"
	"time"

	"github.com/dshills/insights/internal/messages"
)

// Metrics collects interpreter statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per message type metrics
	typeMetrics map[messages.Type]*TypeMetrics

	// Global counters
	totalMessages uint64
	totalErrors   uint64
	totalPanics   uint64
	totalDropped  uint64

	totalDuration time.Duration
}

// TypeMetrics holds metrics for one message type.
type TypeMetrics struct {
	MessageType   messages.Type
	Count         uint64
	ErrorCount    uint64
	DroppedCount  uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastSeen      time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		typeMetrics: make(map[messages.Type]*TypeMetrics),
	}
}

func (m *Metrics) entry(t messages.Type) *TypeMetrics {
	tm := m.typeMetrics[t]
	if tm == nil {
		tm = &TypeMetrics{MessageType: t}
		m.typeMetrics[t] = tm
	}
	return tm
}

// RecordInterpret records a routed message.
func (m *Metrics) RecordInterpret(t messages.Type, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalMessages++
	m.totalDuration += duration
	if err != nil {
		m.totalErrors++
	}

	tm := m.entry(t)
	if tm.Count == 0 || duration < tm.MinDuration {
		tm.MinDuration = duration
	}
	if duration > tm.MaxDuration {
		tm.MaxDuration = duration
	}
	tm.Count++
	tm.TotalDuration += duration
	tm.LastSeen = time.Now()
	if err != nil {
		tm.ErrorCount++
	}
}

// RecordDrop records a message that had no callback.
func (m *Metrics) RecordDrop(t messages.Type) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDropped++
	tm := m.entry(t)
	tm.DroppedCount++
	tm.LastSeen = time.Now()
}

// RecordPanic records a recovered callback panic.
func (m *Metrics) RecordPanic(t messages.Type) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// TotalMessages returns the number of routed messages.
func (m *Metrics) TotalMessages() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalMessages
}

// TotalErrors returns the number of callbacks that failed.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// TotalDropped returns the number of dropped messages.
func (m *Metrics) TotalDropped() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDropped
}

// AverageDuration returns the average callback duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalMessages == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalMessages)
}

// TypeStats returns a copy of the metrics for a message type, or nil.
func (m *Metrics) TypeStats(t messages.Type) *TypeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tm := m.typeMetrics[t]
	if tm == nil {
		return nil
	}
	c := *tm
	return &c
}

// AllStats returns copies of all per type metrics, sorted by message type.
func (m *Metrics) AllStats() []TypeMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]TypeMetrics, 0, len(m.typeMetrics))
	for _, tm := range m.typeMetrics {
		stats = append(stats, *tm)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].MessageType < stats[j].MessageType })
	return stats
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.typeMetrics = make(map[messages.Type]*TypeMetrics)
	m.totalMessages = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalDropped = 0
	m.totalDuration = 0
}
