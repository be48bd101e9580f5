// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package attributesprocessor mutates item attributes by an ordered list of
// insert/update/upsert/delete actions.
package attributesprocessor

import (
	"context"

	"github.com/spf13/cast"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
)

type attributesProcessor struct {
	actions []ActionKeyValue

	nextTraces  consumer.Traces
	nextMetrics consumer.Metrics
	nextLogs    consumer.Logs
}

var _ component.TracesProcessor = (*attributesProcessor)(nil)
var _ component.MetricsProcessor = (*attributesProcessor)(nil)
var _ component.LogsProcessor = (*attributesProcessor)(nil)

func newAttributesProcessor(cfg *Config) *attributesProcessor {
	actions := make([]ActionKeyValue, len(cfg.Actions))
	copy(actions, cfg.Actions)
	for i := range actions {
		actions[i].Value = normalizeValue(actions[i].Value)
	}
	return &attributesProcessor{actions: actions}
}

// normalizeValue maps decoded config values onto the scalar set the data
// model uses, so configured values compare equal to wire-decoded ones.
func normalizeValue(v interface{}) interface{} {
	switch v.(type) {
	case nil, bool, string, float64:
		return v
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToInt64(v)
	case float32:
		return cast.ToFloat64(v)
	default:
		return cast.ToString(v)
	}
}

func (ap *attributesProcessor) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

func (ap *attributesProcessor) Start(context.Context, component.Host) error { return nil }
func (ap *attributesProcessor) Shutdown(context.Context) error              { return nil }

func (ap *attributesProcessor) apply(attrs pdata.Map) pdata.Map {
	if attrs == nil {
		attrs = pdata.NewMap()
	}
	for _, action := range ap.actions {
		if action.Action == DELETE {
			attrs.Delete(action.Key)
			continue
		}

		value := action.Value
		if action.FromAttribute != "" {
			from, ok := attrs.Get(action.FromAttribute)
			if !ok {
				// Source attribute absent, nothing to copy.
				continue
			}
			value = from
		}

		switch action.Action {
		case INSERT:
			attrs.Insert(action.Key, value)
		case UPDATE:
			attrs.Update(action.Key, value)
		case UPSERT:
			attrs.Upsert(action.Key, value)
		}
	}
	return attrs
}

func (ap *attributesProcessor) ConsumeTraces(ctx context.Context, td pdata.Traces) error {
	for _, rs := range td.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			for i := range ss.Spans {
				ss.Spans[i].Attributes = ap.apply(ss.Spans[i].Attributes)
			}
		}
	}
	return ap.nextTraces.ConsumeTraces(ctx, td)
}

func (ap *attributesProcessor) ConsumeMetrics(ctx context.Context, md pdata.Metrics) error {
	for _, rm := range md.ResourceMetrics {
		for _, sm := range rm.ScopeMetrics {
			for i := range sm.DataPoints {
				sm.DataPoints[i].Attributes = ap.apply(sm.DataPoints[i].Attributes)
			}
		}
	}
	return ap.nextMetrics.ConsumeMetrics(ctx, md)
}

func (ap *attributesProcessor) ConsumeLogs(ctx context.Context, ld pdata.Logs) error {
	for _, rl := range ld.ResourceLogs {
		for _, sl := range rl.ScopeLogs {
			for i := range sl.LogRecords {
				sl.LogRecords[i].Attributes = ap.apply(sl.LogRecords[i].Attributes)
			}
		}
	}
	return ap.nextLogs.ConsumeLogs(ctx, ld)
}
