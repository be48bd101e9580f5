// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package pdata

// SeverityNumber is the numeric severity of a log record, aligned with the
// syslog-like 1..24 scale.
type SeverityNumber int32

const (
	SeverityNumberUnspecified SeverityNumber = 0
	SeverityNumberTrace       SeverityNumber = 1
	SeverityNumberDebug       SeverityNumber = 5
	SeverityNumberInfo        SeverityNumber = 9
	SeverityNumberWarn        SeverityNumber = 13
	SeverityNumberError       SeverityNumber = 17
	SeverityNumberFatal       SeverityNumber = 21
)

// Logs is the container for a group of log records sharing a transport
// origin.
type Logs struct {
	ResourceLogs []*ResourceLogs `json:"resourceLogs"`
}

// ResourceLogs groups log records emitted by one Resource.
type ResourceLogs struct {
	Resource  *Resource    `json:"resource,omitempty"`
	ScopeLogs []*ScopeLogs `json:"scopeLogs"`
}

// ScopeLogs groups log records produced by one instrumentation Scope.
type ScopeLogs struct {
	Scope      *Scope      `json:"scope,omitempty"`
	LogRecords []LogRecord `json:"logRecords"`
}

// LogRecord is a single log entry, optionally correlated to a span.
type LogRecord struct {
	TimeUnixNano   uint64         `json:"timeUnixNano"`
	SeverityNumber SeverityNumber `json:"severityNumber,omitempty"`
	SeverityText   string         `json:"severityText,omitempty"`
	Body           string         `json:"body"`
	Attributes     Map            `json:"attributes,omitempty"`
	TraceID        TraceID        `json:"traceId,omitempty"`
	SpanID         SpanID         `json:"spanId,omitempty"`
}

// NewLogs returns an empty Logs container.
func NewLogs() Logs { return Logs{} }

// LogRecordCount returns the number of log records in the container.
func (ld Logs) LogRecordCount() int {
	count := 0
	for _, rl := range ld.ResourceLogs {
		for _, sl := range rl.ScopeLogs {
			count += len(sl.LogRecords)
		}
	}
	return count
}

// MoveAndAppendTo appends all log records to dest, preserving resource and
// scope grouping, and leaves the receiver empty.
func (ld *Logs) MoveAndAppendTo(dest *Logs) {
	dest.ResourceLogs = append(dest.ResourceLogs, ld.ResourceLogs...)
	ld.ResourceLogs = nil
}

// Split removes up to count log records from the front of the container and
// returns them as a new container. See Traces.Split.
func (ld *Logs) Split(count int) Logs {
	var out Logs
	if count <= 0 {
		return out
	}
	remaining := count
	for len(ld.ResourceLogs) > 0 && remaining > 0 {
		rl := ld.ResourceLogs[0]
		outRL := &ResourceLogs{Resource: rl.Resource}
		for len(rl.ScopeLogs) > 0 && remaining > 0 {
			sl := rl.ScopeLogs[0]
			if len(sl.LogRecords) <= remaining {
				outRL.ScopeLogs = append(outRL.ScopeLogs, sl)
				remaining -= len(sl.LogRecords)
				rl.ScopeLogs = rl.ScopeLogs[1:]
				continue
			}
			outRL.ScopeLogs = append(outRL.ScopeLogs, &ScopeLogs{
				Scope:      sl.Scope,
				LogRecords: sl.LogRecords[:remaining:remaining],
			})
			sl.LogRecords = sl.LogRecords[remaining:]
			remaining = 0
		}
		out.ResourceLogs = append(out.ResourceLogs, outRL)
		if len(rl.ScopeLogs) == 0 {
			ld.ResourceLogs = ld.ResourceLogs[1:]
		}
	}
	return out
}
