// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter

import (
	"fmt"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/exporter/exporterhelper"
)

const typeStr = "otlphttp"

// NewFactory returns the factory for the HTTP exporter.
func NewFactory() component.ExporterFactory {
	return component.ExporterFactory{
		Type: typeStr,
		CreateDefaultConfig: func() component.Config {
			return createDefaultConfig()
		},
		CreateTraces:  createTraces,
		CreateMetrics: createMetrics,
		CreateLogs:    createLogs,
	}
}

func createTraces(set component.TelemetrySettings, name string, cfg component.Config) (component.TracesExporter, error) {
	e, err := exporterFromConfig(set, name, cfg)
	if err != nil {
		return nil, err
	}
	return exporterhelper.NewTracesExporter(set, name, e.cfg.helperSettings(), e.pushTraces)
}

func createMetrics(set component.TelemetrySettings, name string, cfg component.Config) (component.MetricsExporter, error) {
	e, err := exporterFromConfig(set, name, cfg)
	if err != nil {
		return nil, err
	}
	return exporterhelper.NewMetricsExporter(set, name, e.cfg.helperSettings(), e.pushMetrics)
}

func createLogs(set component.TelemetrySettings, name string, cfg component.Config) (component.LogsExporter, error) {
	e, err := exporterFromConfig(set, name, cfg)
	if err != nil {
		return nil, err
	}
	return exporterhelper.NewLogsExporter(set, name, e.cfg.helperSettings(), e.pushLogs)
}

func exporterFromConfig(set component.TelemetrySettings, name string, cfg component.Config) (*exporter, error) {
	eCfg, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration for %q is not an otlphttp exporter config", name)
	}
	return newExporter(eCfg, set.Logger)
}
