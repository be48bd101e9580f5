// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package component defines the lifecycle contract shared by receivers,
// processors and exporters, and the factories the service uses to build them
// from configuration.
package component

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/obsreport"
)

// ErrDataTypeIsNotSupported is returned by a factory create call when the
// component does not handle the requested signal.
var ErrDataTypeIsNotSupported = errors.New("telemetry type is not supported")

// Signal names used in configuration, pipeline keys and metric labels.
const (
	SignalTraces  = "traces"
	SignalMetrics = "metrics"
	SignalLogs    = "logs"
)

// Component is the lifecycle contract. Start must not block; long-running
// work happens on goroutines owned by the component. Shutdown must release
// everything Start acquired and may block until in-flight work drains,
// bounded by ctx.
type Component interface {
	Start(ctx context.Context, host Host) error
	Shutdown(ctx context.Context) error
}

// Host is the interface a component uses to interact with the service that
// runs it.
type Host interface {
	// ReportFatalError is used by a component's async work to signal an
	// unrecoverable error to the service.
	ReportFatalError(err error)
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Command string
	Version string
}

// TelemetrySettings carries the ambient facilities handed to every component.
type TelemetrySettings struct {
	// Logger is already tagged with the component's name.
	Logger *zap.Logger

	// Metrics is the shared self-metrics sink.
	Metrics *obsreport.Telemetry

	BuildInfo BuildInfo
}

// Config is implemented by every component configuration struct. Validate is
// called once at load time; any error is fatal at startup.
type Config interface {
	Validate() error
}

// Receiver ingests telemetry and pushes it into per-signal consumers.
type Receiver interface {
	Component
}

// TracesProcessor is a pipeline stage for traces.
type TracesProcessor interface {
	Component
	consumer.Traces
}

// MetricsProcessor is a pipeline stage for metrics.
type MetricsProcessor interface {
	Component
	consumer.Metrics
}

// LogsProcessor is a pipeline stage for logs.
type LogsProcessor interface {
	Component
	consumer.Logs
}

// TracesExporter is a terminal consumer of traces.
type TracesExporter interface {
	Component
	consumer.Traces
}

// MetricsExporter is a terminal consumer of metrics.
type MetricsExporter interface {
	Component
	consumer.Metrics
}

// LogsExporter is a terminal consumer of logs.
type LogsExporter interface {
	Component
	consumer.Logs
}
