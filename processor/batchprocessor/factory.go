// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor

import (
	"fmt"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
)

const typeStr = "batch"

// NewFactory returns the factory for the batch processor.
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
	bCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	return newBatchProcessor(set, name, bCfg, newBatchTraces(next)), nil
}

func createMetrics(set component.TelemetrySettings, name string, cfg component.Config, next consumer.Metrics) (component.MetricsProcessor, error) {
	bCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	return newBatchProcessor(set, name, bCfg, newBatchMetrics(next)), nil
}

func createLogs(set component.TelemetrySettings, name string, cfg component.Config, next consumer.Logs) (component.LogsProcessor, error) {
	bCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	return newBatchProcessor(set, name, bCfg, newBatchLogs(next)), nil
}

func asConfig(name string, cfg component.Config) (*Config, error) {
	bCfg, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration for %q is not a batch processor config", name)
	}
	return bCfg, nil
}
