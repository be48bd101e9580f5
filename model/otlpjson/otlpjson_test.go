// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlpjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telepipe/telepipe/model/pdata"
)

// JSON decoding renders all numbers as float64, so round-trip fixtures stick
// to the scalar types the codec preserves exactly.
func roundTripTraces() pdata.Traces {
	return pdata.Traces{ResourceSpans: []*pdata.ResourceSpans{{
		Resource: &pdata.Resource{Attributes: pdata.Map{"service.name": "svc"}},
		ScopeSpans: []*pdata.ScopeSpans{{
			Scope: &pdata.Scope{Name: "scope", Version: "1.0"},
			Spans: []pdata.Span{{
				TraceID:           pdata.TraceID{0x01, 0x02},
				SpanID:            pdata.SpanID{0x0a},
				Name:              "op",
				Kind:              pdata.SpanKindClient,
				StartTimeUnixNano: 1633687420000000000,
				EndTimeUnixNano:   1633687421000000000,
				StatusCode:        pdata.StatusCodeError,
				StatusMessage:     "boom",
				Attributes:        pdata.Map{"http.method": "GET", "retries": float64(2), "cache.hit": true},
				Events: []pdata.SpanEvent{{
					TimeUnixNano: 1633687420500000000,
					Name:         "retry",
				}},
			}},
		}},
	}}}
}

func TestTracesRoundTrip(t *testing.T) {
	td := roundTripTraces()
	data, err := MarshalTraces(td)
	require.NoError(t, err)

	back, err := UnmarshalTraces(data)
	require.NoError(t, err)
	assert.Equal(t, td, back)
}

func TestMetricsRoundTrip(t *testing.T) {
	md := pdata.Metrics{ResourceMetrics: []*pdata.ResourceMetrics{{
		Resource: &pdata.Resource{Attributes: pdata.Map{"service.name": "svc"}},
		ScopeMetrics: []*pdata.ScopeMetrics{{
			Scope: &pdata.Scope{Name: "scope"},
			DataPoints: []pdata.MetricPoint{{
				Name:         "http.requests",
				Unit:         "1",
				TimeUnixNano: 1633687420000000000,
				Value:        42.5,
				Attributes:   pdata.Map{"status": "200"},
			}},
		}},
	}}}
	data, err := MarshalMetrics(md)
	require.NoError(t, err)

	back, err := UnmarshalMetrics(data)
	require.NoError(t, err)
	assert.Equal(t, md, back)
}

func TestLogsRoundTrip(t *testing.T) {
	ld := pdata.Logs{ResourceLogs: []*pdata.ResourceLogs{{
		Resource: &pdata.Resource{Attributes: pdata.Map{"service.name": "svc"}},
		ScopeLogs: []*pdata.ScopeLogs{{
			Scope: &pdata.Scope{Name: "scope"},
			LogRecords: []pdata.LogRecord{{
				TimeUnixNano:   1633687420000000000,
				SeverityNumber: pdata.SeverityNumberWarn,
				SeverityText:   "WARN",
				Body:           "disk is filling up",
				Attributes:     pdata.Map{"disk": "/dev/sda1"},
				TraceID:        pdata.TraceID{0x01},
				SpanID:         pdata.SpanID{0x02},
			}},
		}},
	}}}
	data, err := MarshalLogs(ld)
	require.NoError(t, err)

	back, err := UnmarshalLogs(data)
	require.NoError(t, err)
	assert.Equal(t, ld, back)
}

func TestUnmarshalTracesUnknownField(t *testing.T) {
	_, err := UnmarshalTraces([]byte(`{"resourceSpans":[],"bogus":1}`))
	assert.Error(t, err)
}

func TestUnmarshalTracesMalformed(t *testing.T) {
	_, err := UnmarshalTraces([]byte(`{"resourceSpans":`))
	assert.Error(t, err)

	_, err = UnmarshalTraces([]byte(`{"resourceSpans":[{"scopeSpans":[{"spans":[{"traceId":"xyz"}]}]}]}`))
	assert.Error(t, err)
}
