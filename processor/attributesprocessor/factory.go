// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package attributesprocessor

import (
	"fmt"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
)

const typeStr = "attributes"

// NewFactory returns the factory for the attributes processor.
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

func createTraces(_ component.TelemetrySettings, name string, cfg component.Config, next consumer.Traces) (component.TracesProcessor, error) {
	aCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	ap := newAttributesProcessor(aCfg)
	ap.nextTraces = next
	return ap, nil
}

func createMetrics(_ component.TelemetrySettings, name string, cfg component.Config, next consumer.Metrics) (component.MetricsProcessor, error) {
	aCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	ap := newAttributesProcessor(aCfg)
	ap.nextMetrics = next
	return ap, nil
}

func createLogs(_ component.TelemetrySettings, name string, cfg component.Config, next consumer.Logs) (component.LogsProcessor, error) {
	aCfg, err := asConfig(name, cfg)
	if err != nil {
		return nil, err
	}
	ap := newAttributesProcessor(aCfg)
	ap.nextLogs = next
	return ap, nil
}

func asConfig(name string, cfg component.Config) (*Config, error) {
	aCfg, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration for %q is not an attributes processor config", name)
	}
	return aCfg, nil
}
