// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package exporterhelper provides the shared machinery for exporters: a
// bounded delivery queue, retry with exponential backoff, per-attempt
// timeouts and delivery metrics. A sink only supplies a push function; the
// helper owns queueing, retrying and dropping policy.
//
// Each exporter instance owns its queue and retry state, so a stalled sink
// never blocks delivery to a healthy one.
package exporterhelper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
	"github.com/telepipe/telepipe/obsreport"
)

// TimeoutSettings bounds each individual send attempt.
type TimeoutSettings struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultTimeoutSettings returns the default settings for TimeoutSettings.
func DefaultTimeoutSettings() TimeoutSettings {
	return TimeoutSettings{Timeout: 5 * time.Second}
}

// Settings groups the helper configuration embedded by sink configs.
type Settings struct {
	Queue   QueueSettings
	Retry   RetrySettings
	Timeout TimeoutSettings
}

type baseExporter struct {
	name   string
	logger *zap.Logger
	obsexp *obsreport.ExporterMetrics
	qrs    *queuedRetrySender
}

func newBaseExporter(set component.TelemetrySettings, name, signal string, cfg Settings) *baseExporter {
	obsexp := set.Metrics.Exporter(name)
	be := &baseExporter{
		name:   name,
		logger: set.Logger,
		obsexp: obsexp,
	}
	ts := &timeoutSender{cfg: cfg.Timeout, obsexp: obsexp}
	be.qrs = newQueuedRetrySender(signal, cfg.Queue, cfg.Retry, ts, set.Logger, obsexp)
	return be
}

// Start launches the queue consumers.
func (be *baseExporter) Start(context.Context, component.Host) error {
	be.qrs.start()
	return nil
}

// Shutdown drains the queue as far as the shutdown deadline allows and stops
// the workers.
func (be *baseExporter) Shutdown(context.Context) error {
	be.qrs.shutdown()
	return nil
}

func (be *baseExporter) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

type tracesExporter struct {
	*baseExporter
	pusher PushTraces
}

// NewTracesExporter wraps a traces push function with the queue/retry/
// timeout sender chain.
func NewTracesExporter(set component.TelemetrySettings, name string, cfg Settings, pusher PushTraces) (component.TracesExporter, error) {
	if pusher == nil {
		return nil, errNilPusher
	}
	return &tracesExporter{
		baseExporter: newBaseExporter(set, name, component.SignalTraces, cfg),
		pusher:       pusher,
	}, nil
}

func (te *tracesExporter) ConsumeTraces(ctx context.Context, td pdata.Traces) error {
	req := &tracesRequest{
		baseRequest: newBaseRequest(ctx),
		td:          td,
		pusher:      te.pusher,
	}
	return te.qrs.send(req)
}

type metricsExporter struct {
	*baseExporter
	pusher PushMetrics
}

// NewMetricsExporter wraps a metrics push function with the queue/retry/
// timeout sender chain.
func NewMetricsExporter(set component.TelemetrySettings, name string, cfg Settings, pusher PushMetrics) (component.MetricsExporter, error) {
	if pusher == nil {
		return nil, errNilPusher
	}
	return &metricsExporter{
		baseExporter: newBaseExporter(set, name, component.SignalMetrics, cfg),
		pusher:       pusher,
	}, nil
}

func (me *metricsExporter) ConsumeMetrics(ctx context.Context, md pdata.Metrics) error {
	req := &metricsRequest{
		baseRequest: newBaseRequest(ctx),
		md:          md,
		pusher:      me.pusher,
	}
	return me.qrs.send(req)
}

type logsExporter struct {
	*baseExporter
	pusher PushLogs
}

// NewLogsExporter wraps a logs push function with the queue/retry/timeout
// sender chain.
func NewLogsExporter(set component.TelemetrySettings, name string, cfg Settings, pusher PushLogs) (component.LogsExporter, error) {
	if pusher == nil {
		return nil, errNilPusher
	}
	return &logsExporter{
		baseExporter: newBaseExporter(set, name, component.SignalLogs, cfg),
		pusher:       pusher,
	}, nil
}

func (le *logsExporter) ConsumeLogs(ctx context.Context, ld pdata.Logs) error {
	req := &logsRequest{
		baseRequest: newBaseRequest(ctx),
		ld:          ld,
		pusher:      le.pusher,
	}
	return le.qrs.send(req)
}

var errNilPusher = errors.New("nil push function")

// timeoutSender is the last sender in the chain: it bounds the attempt,
// performs it, and records the outcome.
type timeoutSender struct {
	cfg    TimeoutSettings
	obsexp *obsreport.ExporterMetrics
}

func (ts *timeoutSender) send(req request) error {
	ctx := req.context()
	if ts.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ts.cfg.Timeout)
		defer cancel()
	}
	start := time.Now()
	err := req.export(ctx)
	ts.obsexp.ObserveSendLatency(time.Since(start))
	if err != nil {
		ts.obsexp.SendFailed(req.signal(), req.count())
		return err
	}
	ts.obsexp.Sent(req.signal(), req.count())
	return nil
}
