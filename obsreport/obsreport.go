// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package obsreport records the pipeline's own health metrics: items
// accepted and refused at receivers, items dropped by processors per reason,
// items sent or failed at exporters, queue depths and export latency. The
// metrics are exposed in Prometheus format by the service telemetry server.
package obsreport

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons used as the "reason" label on dropped-item counters.
const (
	ReasonValidation    = "validation"
	ReasonFiltered      = "filtered"
	ReasonSampled       = "sampled"
	ReasonQueueFull     = "queue_full"
	ReasonRetryExpired  = "retry_expired"
	ReasonPermanent     = "permanent_error"
	ReasonShutdown      = "shutdown"
	ReasonMalformedItem = "malformed_item"
)

// Telemetry owns the registry and instruments for pipeline self-metrics.
// One instance is created per service and shared by all components.
type Telemetry struct {
	registry *prometheus.Registry

	receiverAccepted *prometheus.CounterVec
	receiverRefused  *prometheus.CounterVec
	processorDropped *prometheus.CounterVec
	exporterSent     *prometheus.CounterVec
	exporterFailed   *prometheus.CounterVec
	exporterDropped  *prometheus.CounterVec
	queueSize        *prometheus.GaugeVec
	queueCapacity    *prometheus.GaugeVec
	sendLatency      *prometheus.HistogramVec
}

// New creates a Telemetry with a fresh registry.
func New() *Telemetry {
	t := &Telemetry{
		registry: prometheus.NewRegistry(),
		receiverAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telepipe_receiver_accepted_items_total",
			Help: "Number of items successfully pushed into the pipeline.",
		}, []string{"receiver", "signal"}),
		receiverRefused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telepipe_receiver_refused_items_total",
			Help: "Number of items that could not be pushed into the pipeline.",
		}, []string{"receiver", "signal", "reason"}),
		processorDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telepipe_processor_dropped_items_total",
			Help: "Number of items dropped by a processor, by reason.",
		}, []string{"processor", "signal", "reason"}),
		exporterSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telepipe_exporter_sent_items_total",
			Help: "Number of items successfully delivered to the sink.",
		}, []string{"exporter", "signal"}),
		exporterFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telepipe_exporter_send_failed_items_total",
			Help: "Number of items in failed send attempts, including attempts that are later retried.",
		}, []string{"exporter", "signal"}),
		exporterDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "telepipe_exporter_dropped_items_total",
			Help: "Number of items dropped by an exporter after exhausting its delivery policy, by reason.",
		}, []string{"exporter", "signal", "reason"}),
		queueSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "telepipe_exporter_queue_size",
			Help: "Current number of batches in the exporter delivery queue.",
		}, []string{"exporter", "signal"}),
		queueCapacity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "telepipe_exporter_queue_capacity",
			Help: "Configured capacity of the exporter delivery queue.",
		}, []string{"exporter", "signal"}),
		sendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "telepipe_exporter_send_latency_seconds",
			Help:    "Latency of individual send attempts to the sink.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"exporter"}),
	}
	t.registry.MustRegister(
		t.receiverAccepted,
		t.receiverRefused,
		t.processorDropped,
		t.exporterSent,
		t.exporterFailed,
		t.exporterDropped,
		t.queueSize,
		t.queueCapacity,
		t.sendLatency,
	)
	return t
}

// Registry returns the registry backing the /metrics endpoint.
func (t *Telemetry) Registry() *prometheus.Registry { return t.registry }

// Receiver returns a recorder scoped to one named receiver.
func (t *Telemetry) Receiver(name string) *ReceiverMetrics {
	return &ReceiverMetrics{tel: t, name: name}
}

// Processor returns a recorder scoped to one named processor.
func (t *Telemetry) Processor(name string) *ProcessorMetrics {
	return &ProcessorMetrics{tel: t, name: name}
}

// Exporter returns a recorder scoped to one named exporter.
func (t *Telemetry) Exporter(name string) *ExporterMetrics {
	return &ExporterMetrics{tel: t, name: name}
}

// ReceiverMetrics records ingress outcomes for one receiver.
type ReceiverMetrics struct {
	tel  *Telemetry
	name string
}

func (r *ReceiverMetrics) Accepted(signal string, items int) {
	r.tel.receiverAccepted.WithLabelValues(r.name, signal).Add(float64(items))
}

func (r *ReceiverMetrics) Refused(signal, reason string, items int) {
	r.tel.receiverRefused.WithLabelValues(r.name, signal, reason).Add(float64(items))
}

// ProcessorMetrics records drop outcomes for one processor.
type ProcessorMetrics struct {
	tel  *Telemetry
	name string
}

func (p *ProcessorMetrics) Dropped(signal, reason string, items int) {
	p.tel.processorDropped.WithLabelValues(p.name, signal, reason).Add(float64(items))
}

// ExporterMetrics records delivery outcomes for one exporter.
type ExporterMetrics struct {
	tel  *Telemetry
	name string
}

func (e *ExporterMetrics) Sent(signal string, items int) {
	e.tel.exporterSent.WithLabelValues(e.name, signal).Add(float64(items))
}

func (e *ExporterMetrics) SendFailed(signal string, items int) {
	e.tel.exporterFailed.WithLabelValues(e.name, signal).Add(float64(items))
}

func (e *ExporterMetrics) Dropped(signal, reason string, items int) {
	e.tel.exporterDropped.WithLabelValues(e.name, signal, reason).Add(float64(items))
}

func (e *ExporterMetrics) SetQueueSize(signal string, size int) {
	e.tel.queueSize.WithLabelValues(e.name, signal).Set(float64(size))
}

func (e *ExporterMetrics) SetQueueCapacity(signal string, capacity int) {
	e.tel.queueCapacity.WithLabelValues(e.name, signal).Set(float64(capacity))
}

func (e *ExporterMetrics) ObserveSendLatency(d time.Duration) {
	e.tel.sendLatency.WithLabelValues(e.name).Observe(d.Seconds())
}
