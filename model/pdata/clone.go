// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package pdata

// Clone returns a deep copy of the container. Fan-out uses it when a
// downstream consumer mutates the data it receives.
func (td Traces) Clone() Traces {
	out := Traces{ResourceSpans: make([]*ResourceSpans, 0, len(td.ResourceSpans))}
	for _, rs := range td.ResourceSpans {
		outRS := &ResourceSpans{
			Resource:   cloneResource(rs.Resource),
			ScopeSpans: make([]*ScopeSpans, 0, len(rs.ScopeSpans)),
		}
		for _, ss := range rs.ScopeSpans {
			outSS := &ScopeSpans{
				Scope: cloneScope(ss.Scope),
				Spans: make([]Span, len(ss.Spans)),
			}
			copy(outSS.Spans, ss.Spans)
			for i := range outSS.Spans {
				outSS.Spans[i].Attributes = outSS.Spans[i].Attributes.Clone()
				if len(outSS.Spans[i].Events) > 0 {
					events := make([]SpanEvent, len(outSS.Spans[i].Events))
					copy(events, outSS.Spans[i].Events)
					for j := range events {
						events[j].Attributes = events[j].Attributes.Clone()
					}
					outSS.Spans[i].Events = events
				}
			}
			outRS.ScopeSpans = append(outRS.ScopeSpans, outSS)
		}
		out.ResourceSpans = append(out.ResourceSpans, outRS)
	}
	return out
}

// Clone returns a deep copy of the container.
func (md Metrics) Clone() Metrics {
	out := Metrics{ResourceMetrics: make([]*ResourceMetrics, 0, len(md.ResourceMetrics))}
	for _, rm := range md.ResourceMetrics {
		outRM := &ResourceMetrics{
			Resource:     cloneResource(rm.Resource),
			ScopeMetrics: make([]*ScopeMetrics, 0, len(rm.ScopeMetrics)),
		}
		for _, sm := range rm.ScopeMetrics {
			outSM := &ScopeMetrics{
				Scope:      cloneScope(sm.Scope),
				DataPoints: make([]MetricPoint, len(sm.DataPoints)),
			}
			copy(outSM.DataPoints, sm.DataPoints)
			for i := range outSM.DataPoints {
				outSM.DataPoints[i].Attributes = outSM.DataPoints[i].Attributes.Clone()
			}
			outRM.ScopeMetrics = append(outRM.ScopeMetrics, outSM)
		}
		out.ResourceMetrics = append(out.ResourceMetrics, outRM)
	}
	return out
}

// Clone returns a deep copy of the container.
func (ld Logs) Clone() Logs {
	out := Logs{ResourceLogs: make([]*ResourceLogs, 0, len(ld.ResourceLogs))}
	for _, rl := range ld.ResourceLogs {
		outRL := &ResourceLogs{
			Resource:  cloneResource(rl.Resource),
			ScopeLogs: make([]*ScopeLogs, 0, len(rl.ScopeLogs)),
		}
		for _, sl := range rl.ScopeLogs {
			outSL := &ScopeLogs{
				Scope:      cloneScope(sl.Scope),
				LogRecords: make([]LogRecord, len(sl.LogRecords)),
			}
			copy(outSL.LogRecords, sl.LogRecords)
			for i := range outSL.LogRecords {
				outSL.LogRecords[i].Attributes = outSL.LogRecords[i].Attributes.Clone()
			}
			outRL.ScopeLogs = append(outRL.ScopeLogs, outSL)
		}
		out.ResourceLogs = append(out.ResourceLogs, outRL)
	}
	return out
}

func cloneResource(r *Resource) *Resource {
	if r == nil {
		return nil
	}
	return &Resource{Attributes: r.Attributes.Clone()}
}

func cloneScope(s *Scope) *Scope {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
