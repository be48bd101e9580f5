// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package pdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// generateTraces builds one resource with one scope per count, numbering the
// spans sequentially across scopes via the last trace id byte.
func generateTraces(spanCounts ...int) Traces {
	rs := &ResourceSpans{
		Resource: &Resource{Attributes: Map{"service.name": "svc"}},
	}
	n := 0
	for _, count := range spanCounts {
		ss := &ScopeSpans{Scope: &Scope{Name: "scope", Version: "1.0"}}
		for i := 0; i < count; i++ {
			n++
			var tid TraceID
			tid[15] = byte(n)
			var sid SpanID
			sid[7] = byte(n)
			ss.Spans = append(ss.Spans, Span{
				TraceID:           tid,
				SpanID:            sid,
				Name:              "op",
				StartTimeUnixNano: 1,
				EndTimeUnixNano:   2,
			})
		}
		rs.ScopeSpans = append(rs.ScopeSpans, ss)
	}
	return Traces{ResourceSpans: []*ResourceSpans{rs}}
}

func TestTracesSpanCount(t *testing.T) {
	assert.Equal(t, 0, NewTraces().SpanCount())
	assert.Equal(t, 5, generateTraces(5).SpanCount())
	assert.Equal(t, 7, generateTraces(3, 4).SpanCount())
}

func TestTracesMoveAndAppendTo(t *testing.T) {
	src := generateTraces(3)
	dest := generateTraces(2)
	src.MoveAndAppendTo(&dest)
	assert.Equal(t, 5, dest.SpanCount())
	assert.Equal(t, 0, src.SpanCount())
	assert.Nil(t, src.ResourceSpans)
}

func TestTracesSplit(t *testing.T) {
	td := generateTraces(10)
	split := td.Split(4)
	assert.Equal(t, 4, split.SpanCount())
	assert.Equal(t, 6, td.SpanCount())

	// Order is preserved: the split took the first 4 spans.
	assert.Equal(t, byte(1), split.ResourceSpans[0].ScopeSpans[0].Spans[0].TraceID[15])
	assert.Equal(t, byte(4), split.ResourceSpans[0].ScopeSpans[0].Spans[3].TraceID[15])
	assert.Equal(t, byte(5), td.ResourceSpans[0].ScopeSpans[0].Spans[0].TraceID[15])

	// Resource and scope descriptors are shared with the origin.
	assert.Same(t, td.ResourceSpans[0].Resource, split.ResourceSpans[0].Resource)
	assert.Same(t, td.ResourceSpans[0].ScopeSpans[0].Scope, split.ResourceSpans[0].ScopeSpans[0].Scope)
}

func TestTracesSplitAcrossScopes(t *testing.T) {
	td := generateTraces(3, 4)
	split := td.Split(5)
	assert.Equal(t, 5, split.SpanCount())
	assert.Equal(t, 2, td.SpanCount())
	require.Len(t, split.ResourceSpans, 1)
	assert.Len(t, split.ResourceSpans[0].ScopeSpans, 2)
}

func TestTracesSplitWholeContent(t *testing.T) {
	td := generateTraces(3)
	split := td.Split(10)
	assert.Equal(t, 3, split.SpanCount())
	assert.Equal(t, 0, td.SpanCount())
}

func TestTracesSplitZero(t *testing.T) {
	td := generateTraces(3)
	split := td.Split(0)
	assert.Equal(t, 0, split.SpanCount())
	assert.Equal(t, 3, td.SpanCount())
}

func TestTracesClone(t *testing.T) {
	td := generateTraces(2)
	clone := td.Clone()
	require.Equal(t, td.SpanCount(), clone.SpanCount())

	// Mutating the clone must not affect the origin.
	clone.ResourceSpans[0].ScopeSpans[0].Spans[0].Name = "changed"
	clone.ResourceSpans[0].Resource.Attributes.Upsert("service.name", "other")
	assert.Equal(t, "op", td.ResourceSpans[0].ScopeSpans[0].Spans[0].Name)
	v, _ := td.ResourceSpans[0].Resource.Attributes.Get("service.name")
	assert.Equal(t, "svc", v)
}

func generateMetrics(count int) Metrics {
	sm := &ScopeMetrics{Scope: &Scope{Name: "scope"}}
	for i := 0; i < count; i++ {
		sm.DataPoints = append(sm.DataPoints, MetricPoint{
			Name:         "requests",
			TimeUnixNano: uint64(i + 1),
			Value:        float64(i),
		})
	}
	return Metrics{ResourceMetrics: []*ResourceMetrics{{
		Resource:     &Resource{Attributes: Map{"service.name": "svc"}},
		ScopeMetrics: []*ScopeMetrics{sm},
	}}}
}

func TestMetricsSplit(t *testing.T) {
	md := generateMetrics(10)
	split := md.Split(4)
	assert.Equal(t, 4, split.DataPointCount())
	assert.Equal(t, 6, md.DataPointCount())
	assert.Equal(t, uint64(1), split.ResourceMetrics[0].ScopeMetrics[0].DataPoints[0].TimeUnixNano)
	assert.Equal(t, uint64(5), md.ResourceMetrics[0].ScopeMetrics[0].DataPoints[0].TimeUnixNano)
	assert.Same(t, md.ResourceMetrics[0].Resource, split.ResourceMetrics[0].Resource)
}

func generateLogs(count int) Logs {
	sl := &ScopeLogs{Scope: &Scope{Name: "scope"}}
	for i := 0; i < count; i++ {
		sl.LogRecords = append(sl.LogRecords, LogRecord{
			TimeUnixNano: uint64(i + 1),
			Body:         "message",
		})
	}
	return Logs{ResourceLogs: []*ResourceLogs{{
		Resource:  &Resource{Attributes: Map{"service.name": "svc"}},
		ScopeLogs: []*ScopeLogs{sl},
	}}}
}

func TestLogsSplit(t *testing.T) {
	ld := generateLogs(10)
	split := ld.Split(4)
	assert.Equal(t, 4, split.LogRecordCount())
	assert.Equal(t, 6, ld.LogRecordCount())
	assert.Equal(t, uint64(1), split.ResourceLogs[0].ScopeLogs[0].LogRecords[0].TimeUnixNano)
	assert.Equal(t, uint64(5), ld.ResourceLogs[0].ScopeLogs[0].LogRecords[0].TimeUnixNano)
	assert.Same(t, ld.ResourceLogs[0].Resource, split.ResourceLogs[0].Resource)
}
