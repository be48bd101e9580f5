// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/config"
	"github.com/telepipe/telepipe/consumer"
)

type builtComponent struct {
	name string
	comp component.Component
}

// builtPipelines holds every component instance of the assembled service, in
// build order. Startup goes exporters, processors, receivers so that a
// component never starts before its downstream; shutdown walks the same
// slices in reverse.
type builtPipelines struct {
	exporters  []builtComponent
	processors []builtComponent
	receivers  []builtComponent
}

// buildPipelines instantiates and wires every component referenced by the
// configured pipelines. Components defined in config but referenced by no
// pipeline are not instantiated.
func buildPipelines(set component.TelemetrySettings, cfg *config.Config, factories component.Factories) (*builtPipelines, error) {
	built := &builtPipelines{}

	// Each receiver key accumulates one consumer per signal pipeline that
	// references it; the receiver itself is created once afterwards.
	receiverConsumers := make(map[string]*component.NextConsumers)

	for _, signal := range []string{component.SignalTraces, component.SignalMetrics, component.SignalLogs} {
		pipeline, ok := cfg.Service.Pipelines[signal]
		if !ok {
			continue
		}

		first, err := built.buildPipeline(set, cfg, factories, signal, pipeline)
		if err != nil {
			return nil, err
		}

		for _, recvKey := range pipeline.Receivers {
			next, ok := receiverConsumers[recvKey]
			if !ok {
				next = &component.NextConsumers{}
				receiverConsumers[recvKey] = next
			}
			switch signal {
			case component.SignalTraces:
				next.Traces = first.(consumer.Traces)
			case component.SignalMetrics:
				next.Metrics = first.(consumer.Metrics)
			case component.SignalLogs:
				next.Logs = first.(consumer.Logs)
			}
		}
	}

	for recvKey, next := range receiverConsumers {
		typ, err := config.TypeFromKey(recvKey)
		if err != nil {
			return nil, err
		}
		factory, ok := factories.Receivers[typ]
		if !ok {
			return nil, fmt.Errorf("receiver type %q is not supported", typ)
		}
		recv, err := factory.CreateReceiver(componentSettings(set, recvKey), recvKey, cfg.Receivers[recvKey], *next)
		if err != nil {
			return nil, fmt.Errorf("cannot build receiver %q: %w", recvKey, err)
		}
		built.receivers = append(built.receivers, builtComponent{name: recvKey, comp: recv})
	}

	return built, nil
}

// buildPipeline assembles one signal pipeline back to front and returns its
// first consumer, the one receivers push into.
func (bp *builtPipelines) buildPipeline(set component.TelemetrySettings, cfg *config.Config, factories component.Factories, signal string, pipeline config.Pipeline) (interface{}, error) {
	var tracesConsumers []consumer.Traces
	var metricsConsumers []consumer.Metrics
	var logsConsumers []consumer.Logs

	for _, expKey := range pipeline.Exporters {
		typ, err := config.TypeFromKey(expKey)
		if err != nil {
			return nil, err
		}
		factory, ok := factories.Exporters[typ]
		if !ok {
			return nil, fmt.Errorf("exporter type %q is not supported", typ)
		}
		expSet := componentSettings(set, expKey)
		expCfg := cfg.Exporters[expKey]

		switch signal {
		case component.SignalTraces:
			if factory.CreateTraces == nil {
				return nil, fmt.Errorf("exporter %q in pipeline %q: %w", expKey, signal, component.ErrDataTypeIsNotSupported)
			}
			exp, err := factory.CreateTraces(expSet, expKey, expCfg)
			if err != nil {
				return nil, fmt.Errorf("cannot build exporter %q: %w", expKey, err)
			}
			bp.exporters = append(bp.exporters, builtComponent{name: expKey, comp: exp})
			tracesConsumers = append(tracesConsumers, exp)
		case component.SignalMetrics:
			if factory.CreateMetrics == nil {
				return nil, fmt.Errorf("exporter %q in pipeline %q: %w", expKey, signal, component.ErrDataTypeIsNotSupported)
			}
			exp, err := factory.CreateMetrics(expSet, expKey, expCfg)
			if err != nil {
				return nil, fmt.Errorf("cannot build exporter %q: %w", expKey, err)
			}
			bp.exporters = append(bp.exporters, builtComponent{name: expKey, comp: exp})
			metricsConsumers = append(metricsConsumers, exp)
		case component.SignalLogs:
			if factory.CreateLogs == nil {
				return nil, fmt.Errorf("exporter %q in pipeline %q: %w", expKey, signal, component.ErrDataTypeIsNotSupported)
			}
			exp, err := factory.CreateLogs(expSet, expKey, expCfg)
			if err != nil {
				return nil, fmt.Errorf("cannot build exporter %q: %w", expKey, err)
			}
			bp.exporters = append(bp.exporters, builtComponent{name: expKey, comp: exp})
			logsConsumers = append(logsConsumers, exp)
		}
	}

	// Processors wrap the consumer chain in reverse declared order, so data
	// flows through them in the order the config lists them.
	switch signal {
	case component.SignalTraces:
		next := newTracesFanout(tracesConsumers)
		for i := len(pipeline.Processors) - 1; i >= 0; i-- {
			procKey := pipeline.Processors[i]
			factory, err := processorFactory(factories, procKey)
			if err != nil {
				return nil, err
			}
			if factory.CreateTraces == nil {
				return nil, fmt.Errorf("processor %q in pipeline %q: %w", procKey, signal, component.ErrDataTypeIsNotSupported)
			}
			proc, err := factory.CreateTraces(componentSettings(set, procKey), procKey, cfg.Processors[procKey], next)
			if err != nil {
				return nil, fmt.Errorf("cannot build processor %q: %w", procKey, err)
			}
			bp.processors = append(bp.processors, builtComponent{name: procKey, comp: proc})
			next = proc
		}
		return next, nil
	case component.SignalMetrics:
		next := newMetricsFanout(metricsConsumers)
		for i := len(pipeline.Processors) - 1; i >= 0; i-- {
			procKey := pipeline.Processors[i]
			factory, err := processorFactory(factories, procKey)
			if err != nil {
				return nil, err
			}
			if factory.CreateMetrics == nil {
				return nil, fmt.Errorf("processor %q in pipeline %q: %w", procKey, signal, component.ErrDataTypeIsNotSupported)
			}
			proc, err := factory.CreateMetrics(componentSettings(set, procKey), procKey, cfg.Processors[procKey], next)
			if err != nil {
				return nil, fmt.Errorf("cannot build processor %q: %w", procKey, err)
			}
			bp.processors = append(bp.processors, builtComponent{name: procKey, comp: proc})
			next = proc
		}
		return next, nil
	default:
		next := newLogsFanout(logsConsumers)
		for i := len(pipeline.Processors) - 1; i >= 0; i-- {
			procKey := pipeline.Processors[i]
			factory, err := processorFactory(factories, procKey)
			if err != nil {
				return nil, err
			}
			if factory.CreateLogs == nil {
				return nil, fmt.Errorf("processor %q in pipeline %q: %w", procKey, signal, component.ErrDataTypeIsNotSupported)
			}
			proc, err := factory.CreateLogs(componentSettings(set, procKey), procKey, cfg.Processors[procKey], next)
			if err != nil {
				return nil, fmt.Errorf("cannot build processor %q: %w", procKey, err)
			}
			bp.processors = append(bp.processors, builtComponent{name: procKey, comp: proc})
			next = proc
		}
		return next, nil
	}
}

func processorFactory(factories component.Factories, key string) (component.ProcessorFactory, error) {
	typ, err := config.TypeFromKey(key)
	if err != nil {
		return component.ProcessorFactory{}, err
	}
	factory, ok := factories.Processors[typ]
	if !ok {
		return component.ProcessorFactory{}, fmt.Errorf("processor type %q is not supported", typ)
	}
	return factory, nil
}

func componentSettings(set component.TelemetrySettings, name string) component.TelemetrySettings {
	set.Logger = set.Logger.With(zap.String("component", name))
	return set
}
