// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlpreceiver

import (
	"github.com/telepipe/telepipe/config/confighttp"
)

const defaultEndpoint = "0.0.0.0:4318"

// Config defines configuration for the HTTP receiver.
type Config struct {
	HTTP confighttp.HTTPServerSettings `mapstructure:"http"`
}

// Validate checks the receiver configuration.
func (cfg *Config) Validate() error {
	return cfg.HTTP.Validate()
}

func createDefaultConfig() *Config {
	return &Config{
		HTTP: confighttp.HTTPServerSettings{
			Endpoint: defaultEndpoint,
		},
	}
}
