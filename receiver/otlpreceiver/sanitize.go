// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlpreceiver

import (
	"go.uber.org/zap"

	"github.com/telepipe/telepipe/model/pdata"
)

// sanitizeTraces drops spans that decoded but fail per-item validation
// (missing IDs, empty name, end before start). Surviving spans keep their
// order. Returns the number of dropped spans.
func sanitizeTraces(td *pdata.Traces, logger *zap.Logger) int {
	dropped := 0
	for _, rs := range td.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			kept := ss.Spans[:0]
			for _, span := range ss.Spans {
				if reason := validateSpan(span); reason != "" {
					dropped++
					logger.Debug("Dropping invalid span", zap.String("reason", reason), zap.String("name", span.Name))
					continue
				}
				kept = append(kept, span)
			}
			ss.Spans = kept
		}
	}
	return dropped
}

func validateSpan(span pdata.Span) string {
	switch {
	case span.TraceID.IsEmpty():
		return "empty trace id"
	case span.SpanID.IsEmpty():
		return "empty span id"
	case span.Name == "":
		return "empty name"
	case span.EndTimeUnixNano < span.StartTimeUnixNano:
		return "end time before start time"
	}
	return ""
}

// sanitizeMetrics drops metric points without a name or timestamp. Returns
// the number of dropped points.
func sanitizeMetrics(md *pdata.Metrics, logger *zap.Logger) int {
	dropped := 0
	for _, rm := range md.ResourceMetrics {
		for _, sm := range rm.ScopeMetrics {
			kept := sm.DataPoints[:0]
			for _, dp := range sm.DataPoints {
				if dp.Name == "" || dp.TimeUnixNano == 0 {
					dropped++
					logger.Debug("Dropping invalid metric point", zap.String("name", dp.Name))
					continue
				}
				kept = append(kept, dp)
			}
			sm.DataPoints = kept
		}
	}
	return dropped
}

// sanitizeLogs drops log records without a timestamp. Returns the number of
// dropped records.
func sanitizeLogs(ld *pdata.Logs, logger *zap.Logger) int {
	dropped := 0
	for _, rl := range ld.ResourceLogs {
		for _, sl := range rl.ScopeLogs {
			kept := sl.LogRecords[:0]
			for _, lr := range sl.LogRecords {
				if lr.TimeUnixNano == 0 {
					dropped++
					logger.Debug("Dropping invalid log record")
					continue
				}
				kept = append(kept, lr)
			}
			sl.LogRecords = kept
		}
	}
	return dropped
}
