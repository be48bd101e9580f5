// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package consumertest provides consumers used by tests across the repo.
package consumertest

import (
	"context"
	"sync"

	"github.com/telepipe/telepipe/consumer"
	"github.com/telepipe/telepipe/model/pdata"
)

// TracesSink is a consumer.Traces that stores everything it receives.
type TracesSink struct {
	mu        sync.Mutex
	traces    []pdata.Traces
	spanCount int
}

var _ consumer.Traces = (*TracesSink)(nil)

func (s *TracesSink) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (s *TracesSink) ConsumeTraces(_ context.Context, td pdata.Traces) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traces = append(s.traces, td)
	s.spanCount += td.SpanCount()
	return nil
}

// AllTraces returns the containers received so far.
func (s *TracesSink) AllTraces() []pdata.Traces {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pdata.Traces, len(s.traces))
	copy(out, s.traces)
	return out
}

// SpanCount returns the total number of spans received so far.
func (s *TracesSink) SpanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spanCount
}

// MetricsSink is a consumer.Metrics that stores everything it receives.
type MetricsSink struct {
	mu             sync.Mutex
	metrics        []pdata.Metrics
	dataPointCount int
}

var _ consumer.Metrics = (*MetricsSink)(nil)

func (s *MetricsSink) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (s *MetricsSink) ConsumeMetrics(_ context.Context, md pdata.Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, md)
	s.dataPointCount += md.DataPointCount()
	return nil
}

// AllMetrics returns the containers received so far.
func (s *MetricsSink) AllMetrics() []pdata.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pdata.Metrics, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// DataPointCount returns the total number of points received so far.
func (s *MetricsSink) DataPointCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataPointCount
}

// LogsSink is a consumer.Logs that stores everything it receives.
type LogsSink struct {
	mu             sync.Mutex
	logs           []pdata.Logs
	logRecordCount int
}

var _ consumer.Logs = (*LogsSink)(nil)

func (s *LogsSink) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{}
}

func (s *LogsSink) ConsumeLogs(_ context.Context, ld pdata.Logs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, ld)
	s.logRecordCount += ld.LogRecordCount()
	return nil
}

// AllLogs returns the containers received so far.
func (s *LogsSink) AllLogs() []pdata.Logs {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]pdata.Logs, len(s.logs))
	copy(out, s.logs)
	return out
}

// LogRecordCount returns the total number of records received so far.
func (s *LogsSink) LogRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logRecordCount
}
