// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package configload

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telepipe/telepipe/exporter/otlphttpexporter"
	"github.com/telepipe/telepipe/processor/batchprocessor"
	"github.com/telepipe/telepipe/processor/probabilisticsamplerprocessor"
	"github.com/telepipe/telepipe/receiver/otlpreceiver"
	"github.com/telepipe/telepipe/service/defaultcomponents"
)

func TestLoadValid(t *testing.T) {
	factories, err := defaultcomponents.Components()
	require.NoError(t, err)

	cfg, err := Load(filepath.Join("testdata", "valid.yaml"), factories)
	require.NoError(t, err)

	rCfg, ok := cfg.Receivers["otlp"].(*otlpreceiver.Config)
	require.True(t, ok)
	assert.Equal(t, "localhost:4318", rCfg.HTTP.Endpoint)
	assert.Equal(t, []string{"https://*.example.com"}, rCfg.HTTP.CORSAllowedOrigins)

	bCfg, ok := cfg.Processors["batch"].(*batchprocessor.Config)
	require.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, bCfg.Timeout)
	assert.Equal(t, 100, bCfg.SendBatchSize)

	sCfg, ok := cfg.Processors["probabilistic_sampler"].(*probabilisticsamplerprocessor.Config)
	require.True(t, ok)
	assert.Equal(t, 25.5, sCfg.SamplingPercentage)
	assert.Equal(t, uint32(22), sCfg.HashSeed)

	eCfg, ok := cfg.Exporters["otlphttp"].(*otlphttpexporter.Config)
	require.True(t, ok)
	assert.Equal(t, "http://backend:4318", eCfg.Endpoint)
	assert.Equal(t, 10*time.Second, eCfg.Timeout)
	assert.Equal(t, "Bearer secret", eCfg.Headers["authorization"])
	assert.Equal(t, time.Second, eCfg.RetrySettings.InitialInterval)
	assert.Equal(t, time.Minute, eCfg.RetrySettings.MaxElapsedTime)
	assert.Equal(t, 4, eCfg.QueueSettings.NumConsumers)
	assert.Equal(t, 50, eCfg.QueueSettings.QueueSize)

	assert.Equal(t, "debug", cfg.Service.Telemetry.Logs.Level)
	assert.Equal(t, "localhost:8888", cfg.Service.Telemetry.Metrics.Address)

	traces := cfg.Service.Pipelines["traces"]
	assert.Equal(t, []string{"otlp"}, traces.Receivers)
	assert.Equal(t, []string{"batch", "attributes/env", "filter", "probabilistic_sampler"}, traces.Processors)
	assert.Equal(t, []string{"otlphttp", "logging"}, traces.Exporters)

	logs := cfg.Service.Pipelines["logs"]
	assert.Equal(t, []string{"batch"}, logs.Processors)
}

func TestLoadDefaultsApplied(t *testing.T) {
	factories, err := defaultcomponents.Components()
	require.NoError(t, err)

	// The logs pipeline's otlphttp section in valid.yaml sets only some
	// fields; unset ones keep factory defaults.
	cfg, err := Load(filepath.Join("testdata", "valid.yaml"), factories)
	require.NoError(t, err)

	eCfg := cfg.Exporters["otlphttp"].(*otlphttpexporter.Config)
	assert.True(t, eCfg.QueueSettings.Enabled)
	assert.True(t, eCfg.RetrySettings.Enabled)
}

func TestLoadErrors(t *testing.T) {
	factories, err := defaultcomponents.Components()
	require.NoError(t, err)

	tests := []struct {
		file     string
		contains string
	}{
		{file: "nosuchfile.yaml", contains: "error loading config file"},
		{file: "unknown_type.yaml", contains: "unknown receiver type"},
		{file: "unused_key.yaml", contains: "batch"},
		{file: "invalid_param.yaml", contains: "sampling_percentage"},
		{file: "dangling_ref.yaml", contains: "otlphttp/missing"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.file), factories)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}
