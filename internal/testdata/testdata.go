// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package testdata generates telemetry containers used by tests across the
// repo.
package testdata

import (
	"fmt"

	"github.com/telepipe/telepipe/model/pdata"
)

const startTime = uint64(1633687420000000000)

// GenerateTraces returns a Traces container with spanCount valid spans under
// one resource and one scope. IDs and names are deterministic in the span
// index.
func GenerateTraces(spanCount int) pdata.Traces {
	spans := make([]pdata.Span, 0, spanCount)
	for i := 0; i < spanCount; i++ {
		spans = append(spans, pdata.Span{
			TraceID:           TraceIDForIndex(i),
			SpanID:            spanIDForIndex(i),
			Name:              fmt.Sprintf("operation-%d", i),
			Kind:              pdata.SpanKindServer,
			StartTimeUnixNano: startTime,
			EndTimeUnixNano:   startTime + 1000000,
			Attributes:        pdata.Map{"span.index": int64(i)},
		})
	}
	return pdata.Traces{
		ResourceSpans: []*pdata.ResourceSpans{{
			Resource: &pdata.Resource{Attributes: pdata.Map{"service.name": "test-service"}},
			ScopeSpans: []*pdata.ScopeSpans{{
				Scope: &pdata.Scope{Name: "test-scope", Version: "1.0.0"},
				Spans: spans,
			}},
		}},
	}
}

// GenerateMetrics returns a Metrics container with pointCount valid points
// under one resource and one scope.
func GenerateMetrics(pointCount int) pdata.Metrics {
	points := make([]pdata.MetricPoint, 0, pointCount)
	for i := 0; i < pointCount; i++ {
		points = append(points, pdata.MetricPoint{
			Name:         fmt.Sprintf("metric-%d", i),
			TimeUnixNano: startTime,
			Value:        float64(i),
			Attributes:   pdata.Map{"point.index": int64(i)},
		})
	}
	return pdata.Metrics{
		ResourceMetrics: []*pdata.ResourceMetrics{{
			Resource: &pdata.Resource{Attributes: pdata.Map{"service.name": "test-service"}},
			ScopeMetrics: []*pdata.ScopeMetrics{{
				Scope:      &pdata.Scope{Name: "test-scope", Version: "1.0.0"},
				DataPoints: points,
			}},
		}},
	}
}

// GenerateLogs returns a Logs container with recordCount valid records under
// one resource and one scope.
func GenerateLogs(recordCount int) pdata.Logs {
	records := make([]pdata.LogRecord, 0, recordCount)
	for i := 0; i < recordCount; i++ {
		records = append(records, pdata.LogRecord{
			TimeUnixNano:   startTime,
			SeverityNumber: pdata.SeverityNumberInfo,
			SeverityText:   "INFO",
			Body:           fmt.Sprintf("log-record-%d", i),
			Attributes:     pdata.Map{"record.index": int64(i)},
		})
	}
	return pdata.Logs{
		ResourceLogs: []*pdata.ResourceLogs{{
			Resource: &pdata.Resource{Attributes: pdata.Map{"service.name": "test-service"}},
			ScopeLogs: []*pdata.ScopeLogs{{
				Scope:      &pdata.Scope{Name: "test-scope", Version: "1.0.0"},
				LogRecords: records,
			}},
		}},
	}
}

// TraceIDForIndex returns the deterministic trace id GenerateTraces assigns
// to the span at the given index.
func TraceIDForIndex(i int) pdata.TraceID {
	var id pdata.TraceID
	id[0] = 0x01
	id[14] = byte(i >> 8)
	id[15] = byte(i)
	return id
}

func spanIDForIndex(i int) pdata.SpanID {
	var id pdata.SpanID
	id[0] = 0x02
	id[6] = byte(i >> 8)
	id[7] = byte(i)
	return id
}
