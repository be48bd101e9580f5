// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package config defines the data model for the service configuration: the
// top-level Config holding named receiver/processor/exporter sections and the
// service section that wires them into per-signal pipelines.
//
// Components are named by "type" or "type/name" keys (e.g. "otlphttp" or
// "otlphttp/backend"), so the same component type can be instantiated more
// than once with different parameters.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/telepipe/telepipe/component"
)

var (
	errMissingReceivers        = errors.New("no receivers specified in config")
	errMissingExporters        = errors.New("no exporters specified in config")
	errMissingServicePipelines = errors.New("service must have at least one pipeline")
)

// Config is the fully decoded and defaulted service configuration.
type Config struct {
	Receivers  map[string]component.Config
	Processors map[string]component.Config
	Exporters  map[string]component.Config
	Service    Service
}

// Service holds pipeline wiring and the service's own telemetry settings.
type Service struct {
	Telemetry Telemetry           `mapstructure:"telemetry"`
	Pipelines map[string]Pipeline `mapstructure:"pipelines"`
}

// Pipeline names the components of one per-signal pipeline, in order.
// The map key in Service.Pipelines is the signal name.
type Pipeline struct {
	Receivers  []string `mapstructure:"receivers"`
	Processors []string `mapstructure:"processors"`
	Exporters  []string `mapstructure:"exporters"`
}

// Telemetry configures the service's own logging and metrics endpoint.
type Telemetry struct {
	Logs    TelemetryLogs    `mapstructure:"logs"`
	Metrics TelemetryMetrics `mapstructure:"metrics"`
}

type TelemetryLogs struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `mapstructure:"level"`
}

type TelemetryMetrics struct {
	// Address is the host:port the Prometheus /metrics endpoint listens
	// on. Empty disables the endpoint.
	Address string `mapstructure:"address"`
}

// TypeFromKey extracts the component type from a "type" or "type/name"
// section key.
func TypeFromKey(key string) (string, error) {
	typ := key
	if i := strings.Index(key, "/"); i >= 0 {
		typ = key[:i]
	}
	if typ == "" {
		return "", fmt.Errorf("component key %q must start with a type", key)
	}
	return typ, nil
}

// Validate returns an error if the config cannot describe a runnable
// pipeline. It is called once at load time; any error prevents startup.
func (cfg *Config) Validate() error {
	if len(cfg.Receivers) == 0 {
		return errMissingReceivers
	}
	if len(cfg.Exporters) == 0 {
		return errMissingExporters
	}
	if len(cfg.Service.Pipelines) == 0 {
		return errMissingServicePipelines
	}

	for signal, pipeline := range cfg.Service.Pipelines {
		switch signal {
		case component.SignalTraces, component.SignalMetrics, component.SignalLogs:
		default:
			return fmt.Errorf("pipeline key %q must be one of traces, metrics, logs", signal)
		}
		if len(pipeline.Receivers) == 0 {
			return fmt.Errorf("pipeline %q must have at least one receiver", signal)
		}
		if len(pipeline.Exporters) == 0 {
			return fmt.Errorf("pipeline %q must have at least one exporter", signal)
		}
		for _, ref := range pipeline.Receivers {
			if _, ok := cfg.Receivers[ref]; !ok {
				return fmt.Errorf("pipeline %q references receiver %q which does not exist", signal, ref)
			}
		}
		for _, ref := range pipeline.Processors {
			if _, ok := cfg.Processors[ref]; !ok {
				return fmt.Errorf("pipeline %q references processor %q which does not exist", signal, ref)
			}
		}
		for _, ref := range pipeline.Exporters {
			if _, ok := cfg.Exporters[ref]; !ok {
				return fmt.Errorf("pipeline %q references exporter %q which does not exist", signal, ref)
			}
		}
	}

	for key, rcfg := range cfg.Receivers {
		if err := rcfg.Validate(); err != nil {
			return fmt.Errorf("receiver %q: %w", key, err)
		}
	}
	for key, pcfg := range cfg.Processors {
		if err := pcfg.Validate(); err != nil {
			return fmt.Errorf("processor %q: %w", key, err)
		}
	}
	for key, ecfg := range cfg.Exporters {
		if err := ecfg.Validate(); err != nil {
			return fmt.Errorf("exporter %q: %w", key, err)
		}
	}
	return nil
}
