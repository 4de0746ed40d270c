package interpreter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "insights"

var (
	messagesDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "interpreter", "messages_total"),
		"Messages routed to a callback, by message type.",
		[]string{"message_type"}, nil,
	)
	errorsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "interpreter", "callback_errors_total"),
		"Callbacks that returned an error, by message type.",
		[]string{"message_type"}, nil,
	)
	droppedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "interpreter", "dropped_total"),
		"Messages dropped because no callback was registered, by message type.",
		[]string{"message_type"}, nil,
	)
	durationDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "interpreter", "callback_seconds_total"),
		"Total time spent in callbacks, by message type.",
		[]string{"message_type"}, nil,
	)
	panicsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "interpreter", "panics_total"),
		"Callback panics recovered.",
		nil, nil,
	)
	registeredDesc = prometheus.NewDesc(
		prometheus.BuildFQName(metricsNamespace, "interpreter", "registered_callbacks"),
		"Message types with a registered callback.",
		nil, nil,
	)
)

// Collector exports interpreter state as Prometheus metrics.
type Collector struct {
	interp *Interpreter
}

// NewCollector creates a collector for the interpreter.
// Per type series are only produced when metrics are enabled.
func NewCollector(interp *Interpreter) *Collector {
	return &Collector{interp: interp}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- messagesDesc
	ch <- errorsDesc
	ch <- droppedDesc
	ch <- durationDesc
	ch <- panicsDesc
	ch <- registeredDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(registeredDesc, prometheus.GaugeValue, float64(c.interp.Registry().Count()))

	m := c.interp.Metrics()
	if m == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(panicsDesc, prometheus.CounterValue, float64(m.TotalPanics()))

	for _, s := range m.AllStats() {
		label := string(s.MessageType)
		ch <- prometheus.MustNewConstMetric(messagesDesc, prometheus.CounterValue, float64(s.Count), label)
		ch <- prometheus.MustNewConstMetric(errorsDesc, prometheus.CounterValue, float64(s.ErrorCount), label)
		ch <- prometheus.MustNewConstMetric(droppedDesc, prometheus.CounterValue, float64(s.DroppedCount), label)
		ch <- prometheus.MustNewConstMetric(durationDesc, prometheus.CounterValue, s.TotalDuration.Seconds(), label)
	}
}
