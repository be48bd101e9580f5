// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package loggingexporter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/internal/testdata"
)

func newObservedExporter(t *testing.T, cfg *Config) (*loggingExporter, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	set := component.TelemetrySettings{Logger: zap.New(core)}
	le, err := newLoggingExporter(set, "logging", cfg)
	require.NoError(t, err)
	return le, logs
}

func TestLogSummaries(t *testing.T) {
	le, logs := newObservedExporter(t, &Config{})

	require.NoError(t, le.ConsumeTraces(context.Background(), testdata.GenerateTraces(3)))
	require.NoError(t, le.ConsumeMetrics(context.Background(), testdata.GenerateMetrics(2)))
	require.NoError(t, le.ConsumeLogs(context.Background(), testdata.GenerateLogs(1)))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "TracesExporter", entries[0].Message)
	assert.Equal(t, int64(3), entries[0].ContextMap()["#spans"])
	assert.Equal(t, "MetricsExporter", entries[1].Message)
	assert.Equal(t, "LogsExporter", entries[2].Message)
}

func TestLogItems(t *testing.T) {
	le, logs := newObservedExporter(t, &Config{LogItems: true})

	require.NoError(t, le.ConsumeTraces(context.Background(), testdata.GenerateTraces(2)))
	// One summary entry plus one per span.
	assert.Equal(t, 3, logs.Len())
}

func TestLifecycle(t *testing.T) {
	le, _ := newObservedExporter(t, &Config{})
	require.NoError(t, le.Start(context.Background(), nil))
	require.NoError(t, le.Shutdown(context.Background()))
	assert.NoError(t, (&Config{}).Validate())
}
