// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package filterprocessor

import "errors"

// MatchProperties is one drop predicate. An item matches when the key is
// present, in the item's own attributes or in its resource attributes, and,
// if Value is set, the attribute equals it.
type MatchProperties struct {
	Key string `mapstructure:"key"`

	// Value is compared as a string; empty means key-presence match.
	Value string `mapstructure:"value"`
}

// Config defines configuration for the filter processor. Items matching any
// of the Exclude predicates are dropped; surviving items are never mutated.
type Config struct {
	Exclude []MatchProperties `mapstructure:"exclude"`
}

// Validate checks the processor configuration.
func (cfg *Config) Validate() error {
	if len(cfg.Exclude) == 0 {
		return errors.New("at least one exclude predicate must be specified")
	}
	for _, mp := range cfg.Exclude {
		if mp.Key == "" {
			return errors.New("exclude predicate must have a key")
		}
	}
	return nil
}

func createDefaultConfig() *Config {
	return &Config{}
}
