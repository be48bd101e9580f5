// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package filterprocessor drops items matching configured attribute
// predicates. Predicates are evaluated against the item's attributes and its
// resource attributes; items that survive pass through unmodified.
package filterprocessor

import (
	"context"

	"github.com/spf13/cast"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
	"github.com/telepipe/telepipe/obsreport"
)

type filterProcessor struct {
	exclude []MatchProperties
	obsproc *obsreport.ProcessorMetrics

	nextTraces  consumer.Traces
	nextMetrics consumer.Metrics
	nextLogs    consumer.Logs
}

var _ component.TracesProcessor = (*filterProcessor)(nil)
var _ component.MetricsProcessor = (*filterProcessor)(nil)
var _ component.LogsProcessor = (*filterProcessor)(nil)

func newFilterProcessor(set component.TelemetrySettings, name string, cfg *Config) *filterProcessor {
	return &filterProcessor{
		exclude: cfg.Exclude,
		obsproc: set.Metrics.Processor(name),
	}
}

func (fp *filterProcessor) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

func (fp *filterProcessor) Start(context.Context, component.Host) error { return nil }
func (fp *filterProcessor) Shutdown(context.Context) error              { return nil }

func (fp *filterProcessor) matches(attrs, resourceAttrs pdata.Map) bool {
	for _, mp := range fp.exclude {
		v, ok := attrs.Get(mp.Key)
		if !ok {
			v, ok = resourceAttrs.Get(mp.Key)
		}
		if !ok {
			continue
		}
		if mp.Value == "" || cast.ToString(v) == mp.Value {
			return true
		}
	}
	return false
}

func resourceAttrs(res *pdata.Resource) pdata.Map {
	if res == nil {
		return nil
	}
	return res.Attributes
}

func (fp *filterProcessor) ConsumeTraces(ctx context.Context, td pdata.Traces) error {
	dropped := 0
	for _, rs := range td.ResourceSpans {
		ra := resourceAttrs(rs.Resource)
		for _, ss := range rs.ScopeSpans {
			kept := ss.Spans[:0]
			for _, span := range ss.Spans {
				if fp.matches(span.Attributes, ra) {
					dropped++
					continue
				}
				kept = append(kept, span)
			}
			ss.Spans = kept
		}
	}
	if dropped > 0 {
		fp.obsproc.Dropped(component.SignalTraces, obsreport.ReasonFiltered, dropped)
	}
	if td.SpanCount() == 0 {
		return nil
	}
	return fp.nextTraces.ConsumeTraces(ctx, td)
}

func (fp *filterProcessor) ConsumeMetrics(ctx context.Context, md pdata.Metrics) error {
	dropped := 0
	for _, rm := range md.ResourceMetrics {
		ra := resourceAttrs(rm.Resource)
		for _, sm := range rm.ScopeMetrics {
			kept := sm.DataPoints[:0]
			for _, dp := range sm.DataPoints {
				if fp.matches(dp.Attributes, ra) {
					dropped++
					continue
				}
				kept = append(kept, dp)
			}
			sm.DataPoints = kept
		}
	}
	if dropped > 0 {
		fp.obsproc.Dropped(component.SignalMetrics, obsreport.ReasonFiltered, dropped)
	}
	if md.DataPointCount() == 0 {
		return nil
	}
	return fp.nextMetrics.ConsumeMetrics(ctx, md)
}

func (fp *filterProcessor) ConsumeLogs(ctx context.Context, ld pdata.Logs) error {
	dropped := 0
	for _, rl := range ld.ResourceLogs {
		ra := resourceAttrs(rl.Resource)
		for _, sl := range rl.ScopeLogs {
			kept := sl.LogRecords[:0]
			for _, lr := range sl.LogRecords {
				if fp.matches(lr.Attributes, ra) {
					dropped++
					continue
				}
				kept = append(kept, lr)
			}
			sl.LogRecords = kept
		}
	}
	if dropped > 0 {
		fp.obsproc.Dropped(component.SignalLogs, obsreport.ReasonFiltered, dropped)
	}
	if ld.LogRecordCount() == 0 {
		return nil
	}
	return fp.nextLogs.ConsumeLogs(ctx, ld)
}
