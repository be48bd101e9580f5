// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"

	"go.uber.org/multierr"

	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
)

// The fanout consumers hand one container to several downstream consumers.
// A downstream that declares MutatesData gets its own deep copy; the last
// consumer in the list gets the original, so a single-exporter pipeline
// never pays for a clone.

func newTracesFanout(consumers []consumer.Traces) consumer.Traces {
	if len(consumers) == 1 {
		return consumers[0]
	}
	return &tracesFanout{consumers: consumers}
}

type tracesFanout struct {
	consumers []consumer.Traces
}

func (f *tracesFanout) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (f *tracesFanout) ConsumeTraces(ctx context.Context, td pdata.Traces) error {
	var errs error
	last := len(f.consumers) - 1
	for i, c := range f.consumers {
		data := td
		if i != last && c.Capabilities().MutatesData {
			data = td.Clone()
		}
		errs = multierr.Append(errs, c.ConsumeTraces(ctx, data))
	}
	return errs
}

func newMetricsFanout(consumers []consumer.Metrics) consumer.Metrics {
	if len(consumers) == 1 {
		return consumers[0]
	}
	return &metricsFanout{consumers: consumers}
}

type metricsFanout struct {
	consumers []consumer.Metrics
}

func (f *metricsFanout) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (f *metricsFanout) ConsumeMetrics(ctx context.Context, md pdata.Metrics) error {
	var errs error
	last := len(f.consumers) - 1
	for i, c := range f.consumers {
		data := md
		if i != last && c.Capabilities().MutatesData {
			data = md.Clone()
		}
		errs = multierr.Append(errs, c.ConsumeMetrics(ctx, data))
	}
	return errs
}

func newLogsFanout(consumers []consumer.Logs) consumer.Logs {
	if len(consumers) == 1 {
		return consumers[0]
	}
	return &logsFanout{consumers: consumers}
}

type logsFanout struct {
	consumers []consumer.Logs
}

func (f *logsFanout) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (f *logsFanout) ConsumeLogs(ctx context.Context, ld pdata.Logs) error {
	var errs error
	last := len(f.consumers) - 1
	for i, c := range f.consumers {
		data := ld
		if i != last && c.Capabilities().MutatesData {
			data = ld.Clone()
		}
		errs = multierr.Append(errs, c.ConsumeLogs(ctx, data))
	}
	return errs
}
