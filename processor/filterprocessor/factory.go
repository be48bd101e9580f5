// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package filterprocessor

import (
	"fmt"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
)

const typeStr = "filter"

// NewFactory returns the factory for the filter processor.
func NewFactory() component.ProcessorFactory {
	return component.ProcessorFactory{
		Type: typeStr,
		CreateDefaultConfig: func() component.Config {
			return createDefaultConfig()
		},
		CreateTraces:  createTraces,
		CreateMetrics: createMetrics,
		CreateLogs:    createLogs,
	}
}

func createTraces(set component.TelemetrySettings, name string, cfg component.Config, next consumer.Traces) (component.TracesProcessor, error) {
	fCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	fp := newFilterProcessor(set, name, fCfg)
	fp.nextTraces = next
	return fp, nil
}

func createMetrics(set component.TelemetrySettings, name string, cfg component.Config, next consumer.Metrics) (component.MetricsProcessor, error) {
	fCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	fp := newFilterProcessor(set, name, fCfg)
	fp.nextMetrics = next
	return fp, nil
}

func createLogs(set component.TelemetrySettings, name string, cfg component.Config, next consumer.Logs) (component.LogsProcessor, error) {
	fCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	fp := newFilterProcessor(set, name, fCfg)
	fp.nextLogs = next
	return fp, nil
}

func asConfig(name string, cfg component.Config) (*Config, error) {
	fCfg, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration for %q is not a filter processor config", name)
	}
	return fCfg, nil
}
