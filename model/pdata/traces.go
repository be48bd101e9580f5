// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package pdata

// SpanKind is the role of a span in a trace.
type SpanKind int32

const (
	SpanKindUnspecified SpanKind = 0
	SpanKindInternal    SpanKind = 1
	SpanKindServer      SpanKind = 2
	SpanKindClient      SpanKind = 3
	SpanKindProducer    SpanKind = 4
	SpanKindConsumer    SpanKind = 5
)

// StatusCode is the outcome recorded on a span.
type StatusCode int32

const (
	StatusCodeUnset StatusCode = 0
	StatusCodeOk    StatusCode = 1
	StatusCodeError StatusCode = 2
)

// Traces is the container for a group of spans sharing a transport origin.
type Traces struct {
	ResourceSpans []*ResourceSpans `json:"resourceSpans"`
}

// ResourceSpans groups spans emitted by one Resource.
type ResourceSpans struct {
	Resource   *Resource     `json:"resource,omitempty"`
	ScopeSpans []*ScopeSpans `json:"scopeSpans"`
}

// ScopeSpans groups spans produced by one instrumentation Scope.
type ScopeSpans struct {
	Scope *Scope `json:"scope,omitempty"`
	Spans []Span `json:"spans"`
}

// Span is a single operation within a trace.
type Span struct {
	TraceID           TraceID     `json:"traceId"`
	SpanID            SpanID      `json:"spanId"`
	ParentSpanID      SpanID      `json:"parentSpanId,omitempty"`
	Name              string      `json:"name"`
	Kind              SpanKind    `json:"kind,omitempty"`
	StartTimeUnixNano uint64      `json:"startTimeUnixNano"`
	EndTimeUnixNano   uint64      `json:"endTimeUnixNano"`
	StatusCode        StatusCode  `json:"statusCode,omitempty"`
	StatusMessage     string      `json:"statusMessage,omitempty"`
	Attributes        Map         `json:"attributes,omitempty"`
	Events            []SpanEvent `json:"events,omitempty"`
}

// SpanEvent is a timestamped annotation on a span.
type SpanEvent struct {
	TimeUnixNano uint64 `json:"timeUnixNano"`
	Name         string `json:"name"`
	Attributes   Map    `json:"attributes,omitempty"`
}

// NewTraces returns an empty Traces container.
func NewTraces() Traces { return Traces{} }

// SpanCount returns the number of spans in the container.
func (td Traces) SpanCount() int {
	count := 0
	for _, rs := range td.ResourceSpans {
		for _, ss := range rs.ScopeSpans {
			count += len(ss.Spans)
		}
	}
	return count
}

// MoveAndAppendTo appends all spans to dest, preserving resource and scope
// grouping, and leaves the receiver empty.
func (td *Traces) MoveAndAppendTo(dest *Traces) {
	dest.ResourceSpans = append(dest.ResourceSpans, td.ResourceSpans...)
	td.ResourceSpans = nil
}

// Split removes up to count spans from the front of the container and returns
// them as a new container. Resource and scope descriptors are shared with the
// origin; span order is preserved. If the container holds count spans or
// fewer, the whole content moves and the receiver is left empty.
func (td *Traces) Split(count int) Traces {
	var out Traces
	if count <= 0 {
		return out
	}
	remaining := count
	for len(td.ResourceSpans) > 0 && remaining > 0 {
		rs := td.ResourceSpans[0]
		outRS := &ResourceSpans{Resource: rs.Resource}
		for len(rs.ScopeSpans) > 0 && remaining > 0 {
			ss := rs.ScopeSpans[0]
			if len(ss.Spans) <= remaining {
				outRS.ScopeSpans = append(outRS.ScopeSpans, ss)
				remaining -= len(ss.Spans)
				rs.ScopeSpans = rs.ScopeSpans[1:]
				continue
			}
			outRS.ScopeSpans = append(outRS.ScopeSpans, &ScopeSpans{
				Scope: ss.Scope,
				Spans: ss.Spans[:remaining:remaining],
			})
			ss.Spans = ss.Spans[remaining:]
			remaining = 0
		}
		out.ResourceSpans = append(out.ResourceSpans, outRS)
		if len(rs.ScopeSpans) == 0 {
			td.ResourceSpans = td.ResourceSpans[1:]
		}
	}
	return out
}
