// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telepipe/telepipe/component"
)

type nopConfig struct {
	validateErr error
}

func (c *nopConfig) Validate() error { return c.validateErr }

func validConfig() *Config {
	return &Config{
		Receivers:  map[string]component.Config{"otlp": &nopConfig{}},
		Processors: map[string]component.Config{"batch": &nopConfig{}},
		Exporters:  map[string]component.Config{"otlphttp": &nopConfig{}, "otlphttp/backup": &nopConfig{}},
		Service: Service{
			Pipelines: map[string]Pipeline{
				"traces": {
					Receivers:  []string{"otlp"},
					Processors: []string{"batch"},
					Exporters:  []string{"otlphttp", "otlphttp/backup"},
				},
			},
		},
	}
}

func TestValidateValid(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateMissingSections(t *testing.T) {
	cfg := validConfig()
	cfg.Receivers = nil
	assert.ErrorIs(t, cfg.Validate(), errMissingReceivers)

	cfg = validConfig()
	cfg.Exporters = nil
	assert.ErrorIs(t, cfg.Validate(), errMissingExporters)

	cfg = validConfig()
	cfg.Service.Pipelines = nil
	assert.ErrorIs(t, cfg.Validate(), errMissingServicePipelines)
}

func TestValidateBadPipelineKey(t *testing.T) {
	cfg := validConfig()
	cfg.Service.Pipelines["spans"] = cfg.Service.Pipelines["traces"]
	assert.Error(t, cfg.Validate())
}

func TestValidatePipelineWithoutReceivers(t *testing.T) {
	cfg := validConfig()
	p := cfg.Service.Pipelines["traces"]
	p.Receivers = nil
	cfg.Service.Pipelines["traces"] = p
	assert.Error(t, cfg.Validate())
}

func TestValidateDanglingReferences(t *testing.T) {
	cfg := validConfig()
	p := cfg.Service.Pipelines["traces"]
	p.Exporters = []string{"otlphttp", "missing"}
	cfg.Service.Pipelines["traces"] = p
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	p = cfg.Service.Pipelines["traces"]
	p.Processors = []string{"missing"}
	cfg.Service.Pipelines["traces"] = p
	assert.Error(t, cfg.Validate())
}

func TestValidateComponentError(t *testing.T) {
	cfg := validConfig()
	cfg.Processors["batch"] = &nopConfig{validateErr: errors.New("bad value")}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `processor "batch"`)
}

func TestTypeFromKey(t *testing.T) {
	typ, err := TypeFromKey("otlp")
	require.NoError(t, err)
	assert.Equal(t, "otlp", typ)

	typ, err = TypeFromKey("otlphttp/backup")
	require.NoError(t, err)
	assert.Equal(t, "otlphttp", typ)

	_, err = TypeFromKey("/name")
	assert.Error(t, err)
}
