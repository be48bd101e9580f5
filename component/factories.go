// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"fmt"

	"github.com/telepipe/telepipe/consumer"
)

// NextConsumers holds the first consumer of every pipeline a receiver feeds.
// A nil consumer means no pipeline of that signal references the receiver;
// the receiver must reject that signal at ingress.
type NextConsumers struct {
	Traces  consumer.Traces
	Metrics consumer.Metrics
	Logs    consumer.Logs
}

// ReceiverFactory builds receivers of one type.
type ReceiverFactory struct {
	// Type is the component type key used in configuration ("otlp").
	Type string

	// CreateDefaultConfig returns the config struct pre-filled with
	// defaults; the loader decodes the user's section over it.
	CreateDefaultConfig func() Config

	// CreateReceiver builds the receiver.
	CreateReceiver func(set TelemetrySettings, name string, cfg Config, next NextConsumers) (Receiver, error)
}

// ProcessorFactory builds processors of one type. A create function left nil
// means the processor does not apply to that signal; the service builder
// reports ErrDataTypeIsNotSupported.
type ProcessorFactory struct {
	Type string

	CreateDefaultConfig func() Config

	CreateTraces  func(set TelemetrySettings, name string, cfg Config, next consumer.Traces) (TracesProcessor, error)
	CreateMetrics func(set TelemetrySettings, name string, cfg Config, next consumer.Metrics) (MetricsProcessor, error)
	CreateLogs    func(set TelemetrySettings, name string, cfg Config, next consumer.Logs) (LogsProcessor, error)
}

// ExporterFactory builds exporters of one type.
type ExporterFactory struct {
	Type string

	CreateDefaultConfig func() Config

	CreateTraces  func(set TelemetrySettings, name string, cfg Config) (TracesExporter, error)
	CreateMetrics func(set TelemetrySettings, name string, cfg Config) (MetricsExporter, error)
	CreateLogs    func(set TelemetrySettings, name string, cfg Config) (LogsExporter, error)
}

// Factories is the set of component builders known to a service binary.
type Factories struct {
	Receivers  map[string]ReceiverFactory
	Processors map[string]ProcessorFactory
	Exporters  map[string]ExporterFactory
}

// MakeReceiverFactoryMap keys factories by type, rejecting duplicates.
func MakeReceiverFactoryMap(factories ...ReceiverFactory) (map[string]ReceiverFactory, error) {
	out := make(map[string]ReceiverFactory, len(factories))
	for _, f := range factories {
		if _, ok := out[f.Type]; ok {
			return nil, fmt.Errorf("duplicate receiver factory %q", f.Type)
		}
		out[f.Type] = f
	}
	return out, nil
}

// MakeProcessorFactoryMap keys factories by type, rejecting duplicates.
func MakeProcessorFactoryMap(factories ...ProcessorFactory) (map[string]ProcessorFactory, error) {
	out := make(map[string]ProcessorFactory, len(factories))
	for _, f := range factories {
		if _, ok := out[f.Type]; ok {
			return nil, fmt.Errorf("duplicate processor factory %q", f.Type)
		}
		out[f.Type] = f
	}
	return out, nil
}

// MakeExporterFactoryMap keys factories by type, rejecting duplicates.
func MakeExporterFactoryMap(factories ...ExporterFactory) (map[string]ExporterFactory, error) {
	out := make(map[string]ExporterFactory, len(factories))
	for _, f := range factories {
		if _, ok := out[f.Type]; ok {
			return nil, fmt.Errorf("duplicate exporter factory %q", f.Type)
		}
		out[f.Type] = f
	}
	return out, nil
}
