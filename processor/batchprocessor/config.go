// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package batchprocessor

import (
	"errors"
	"time"
)

// Config defines configuration for the batch processor.
type Config struct {
	// Timeout is how long to wait after the first item of a batch before
	// sending regardless of size.
	Timeout time.Duration `mapstructure:"timeout"`

	// SendBatchSize is the number of items at which a batch is sent. A
	// size-triggered batch contains exactly this many items.
	SendBatchSize int `mapstructure:"send_batch_size"`
}

// Validate checks the processor configuration.
func (cfg *Config) Validate() error {
	if cfg.SendBatchSize <= 0 {
		return errors.New("send_batch_size must be positive")
	}
	if cfg.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

func createDefaultConfig() *Config {
	return &Config{
		Timeout:       200 * time.Millisecond,
		SendBatchSize: 8192,
	}
}
