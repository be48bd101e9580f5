// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlphttpexporter

import (
	"fmt"
	"time"

	"github.com/telepipe/telepipe/config/confighttp"
	"github.com/telepipe/telepipe/exporter/exporterhelper"
)

// Config defines configuration for the HTTP exporter.
type Config struct {
	confighttp.HTTPClientSettings `mapstructure:",squash"`

	// RetrySettings configures backoff on transient delivery failure.
	RetrySettings exporterhelper.RetrySettings `mapstructure:"retry_on_failure"`

	// QueueSettings configures the bounded delivery queue.
	QueueSettings exporterhelper.QueueSettings `mapstructure:"sending_queue"`
}

// Validate checks the exporter configuration.
func (cfg *Config) Validate() error {
	if err := cfg.HTTPClientSettings.Validate(); err != nil {
		return err
	}
	if err := cfg.QueueSettings.Validate(); err != nil {
		return fmt.Errorf("sending_queue: %w", err)
	}
	return nil
}

func createDefaultConfig() *Config {
	return &Config{
		HTTPClientSettings: confighttp.HTTPClientSettings{
			Timeout: 30 * time.Second,
		},
		RetrySettings: exporterhelper.DefaultRetrySettings(),
		QueueSettings: exporterhelper.DefaultQueueSettings(),
	}
}

func (cfg *Config) helperSettings() exporterhelper.Settings {
	return exporterhelper.Settings{
		Queue: cfg.QueueSettings,
		Retry: cfg.RetrySettings,
		// The HTTP client enforces the per-attempt timeout.
		Timeout: exporterhelper.TimeoutSettings{Timeout: 0},
	}
}
