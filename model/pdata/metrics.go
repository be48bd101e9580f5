// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package pdata

// Metrics is the container for a group of metric points sharing a transport
// origin.
type Metrics struct {
	ResourceMetrics []*ResourceMetrics `json:"resourceMetrics"`
}

// ResourceMetrics groups metric points emitted by one Resource.
type ResourceMetrics struct {
	Resource     *Resource       `json:"resource,omitempty"`
	ScopeMetrics []*ScopeMetrics `json:"scopeMetrics"`
}

// ScopeMetrics groups metric points produced by one instrumentation Scope.
type ScopeMetrics struct {
	Scope      *Scope        `json:"scope,omitempty"`
	DataPoints []MetricPoint `json:"dataPoints"`
}

// MetricPoint is a single measurement of a named metric.
type MetricPoint struct {
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Unit         string  `json:"unit,omitempty"`
	TimeUnixNano uint64  `json:"timeUnixNano"`
	Value        float64 `json:"value"`
	Attributes   Map     `json:"attributes,omitempty"`
}

// NewMetrics returns an empty Metrics container.
func NewMetrics() Metrics { return Metrics{} }

// DataPointCount returns the number of metric points in the container.
func (md Metrics) DataPointCount() int {
	count := 0
	for _, rm := range md.ResourceMetrics {
		for _, sm := range rm.ScopeMetrics {
			count += len(sm.DataPoints)
		}
	}
	return count
}

// MoveAndAppendTo appends all metric points to dest, preserving resource and
// scope grouping, and leaves the receiver empty.
func (md *Metrics) MoveAndAppendTo(dest *Metrics) {
	dest.ResourceMetrics = append(dest.ResourceMetrics, md.ResourceMetrics...)
	md.ResourceMetrics = nil
}

// Split removes up to count metric points from the front of the container and
// returns them as a new container. See Traces.Split.
func (md *Metrics) Split(count int) Metrics {
	var out Metrics
	if count <= 0 {
		return out
	}
	remaining := count
	for len(md.ResourceMetrics) > 0 && remaining > 0 {
		rm := md.ResourceMetrics[0]
		outRM := &ResourceMetrics{Resource: rm.Resource}
		for len(rm.ScopeMetrics) > 0 && remaining > 0 {
			sm := rm.ScopeMetrics[0]
			if len(sm.DataPoints) <= remaining {
				outRM.ScopeMetrics = append(outRM.ScopeMetrics, sm)
				remaining -= len(sm.DataPoints)
				rm.ScopeMetrics = rm.ScopeMetrics[1:]
				continue
			}
			outRM.ScopeMetrics = append(outRM.ScopeMetrics, &ScopeMetrics{
				Scope:      sm.Scope,
				DataPoints: sm.DataPoints[:remaining:remaining],
			})
			sm.DataPoints = sm.DataPoints[remaining:]
			remaining = 0
		}
		out.ResourceMetrics = append(out.ResourceMetrics, outRM)
		if len(rm.ScopeMetrics) == 0 {
			md.ResourceMetrics = md.ResourceMetrics[1:]
		}
	}
	return out
}
