// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package loggingexporter is a debug sink that writes batch summaries to the
// service log instead of forwarding them anywhere.
package loggingexporter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
)

const typeStr = "logging"

// Config defines configuration for the logging exporter.
type Config struct {
	// LogItems enables logging every individual item, not just batch
	// summaries. Noisy; meant for debugging.
	LogItems bool `mapstructure:"log_items"`
}

// Validate checks the exporter configuration.
func (cfg *Config) Validate() error { return nil }

// NewFactory returns the factory for the logging exporter.
func NewFactory() component.ExporterFactory {
	return component.ExporterFactory{
		Type: typeStr,
		CreateDefaultConfig: func() component.Config {
			return &Config{}
		},
		CreateTraces:  createTraces,
		CreateMetrics: createMetrics,
		CreateLogs:    createLogs,
	}
}

type loggingExporter struct {
	logger   *zap.Logger
	logItems bool
}

var _ component.TracesExporter = (*loggingExporter)(nil)
var _ component.MetricsExporter = (*loggingExporter)(nil)
var _ component.LogsExporter = (*loggingExporter)(nil)

func newLoggingExporter(set component.TelemetrySettings, name string, cfg component.Config) (*loggingExporter, error) {
	lCfg, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration for %q is not a logging exporter config", name)
	}
	return &loggingExporter{logger: set.Logger, logItems: lCfg.LogItems}, nil
}

func createTraces(set component.TelemetrySettings, name string, cfg component.Config) (component.TracesExporter, error) {
	return newLoggingExporter(set, name, cfg)
}

func createMetrics(set component.TelemetrySettings, name string, cfg component.Config) (component.MetricsExporter, error) {
	return newLoggingExporter(set, name, cfg)
}

func createLogs(set component.TelemetrySettings, name string, cfg component.Config) (component.LogsExporter, error) {
	return newLoggingExporter(set, name, cfg)
}

func (le *loggingExporter) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (le *loggingExporter) Start(context.Context, component.Host) error { return nil }
func (le *loggingExporter) Shutdown(context.Context) error              { return nil }

func (le *loggingExporter) ConsumeTraces(_ context.Context, td pdata.Traces) error {
	le.logger.Info("TracesExporter", zap.Int("#spans", td.SpanCount()))
	if le.logItems {
		for _, rs := range td.ResourceSpans {
			for _, ss := range rs.ScopeSpans {
				for _, span := range ss.Spans {
					le.logger.Info("Span",
						zap.String("trace_id", span.TraceID.HexString()),
						zap.String("span_id", span.SpanID.HexString()),
						zap.String("name", span.Name))
				}
			}
		}
	}
	return nil
}

func (le *loggingExporter) ConsumeMetrics(_ context.Context, md pdata.Metrics) error {
	le.logger.Info("MetricsExporter", zap.Int("#points", md.DataPointCount()))
	if le.logItems {
		for _, rm := range md.ResourceMetrics {
			for _, sm := range rm.ScopeMetrics {
				for _, dp := range sm.DataPoints {
					le.logger.Info("MetricPoint",
						zap.String("name", dp.Name),
						zap.Float64("value", dp.Value))
				}
			}
		}
	}
	return nil
}

func (le *loggingExporter) ConsumeLogs(_ context.Context, ld pdata.Logs) error {
	le.logger.Info("LogsExporter", zap.Int("#records", ld.LogRecordCount()))
	if le.logItems {
		for _, rl := range ld.ResourceLogs {
			for _, sl := range rl.ScopeLogs {
				for _, lr := range sl.LogRecords {
					le.logger.Info("LogRecord", zap.String("body", lr.Body))
				}
			}
		}
	}
	return nil
}
