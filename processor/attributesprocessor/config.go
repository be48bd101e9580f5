// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package attributesprocessor

import (
	"errors"
	"fmt"
)

// Action is what to do with the configured key.
const (
	// INSERT sets the value only if the key does not exist.
	INSERT = "insert"
	// UPDATE sets the value only if the key exists.
	UPDATE = "update"
	// UPSERT sets the value unconditionally.
	UPSERT = "upsert"
	// DELETE removes the key.
	DELETE = "delete"
)

// ActionKeyValue is one attribute mutation. For non-delete actions exactly
// one of Value and FromAttribute supplies the new value.
type ActionKeyValue struct {
	Key           string      `mapstructure:"key"`
	Action        string      `mapstructure:"action"`
	Value         interface{} `mapstructure:"value"`
	FromAttribute string      `mapstructure:"from_attribute"`
}

// Config defines configuration for the attributes processor. Actions are
// applied in declared order; later actions observe the effect of earlier
// ones.
type Config struct {
	Actions []ActionKeyValue `mapstructure:"actions"`
}

// Validate checks the processor configuration.
func (cfg *Config) Validate() error {
	if len(cfg.Actions) == 0 {
		return errors.New("at least one action must be specified")
	}
	for i, a := range cfg.Actions {
		if a.Key == "" {
			return fmt.Errorf("action %d must have a key", i)
		}
		switch a.Action {
		case DELETE:
			if a.Value != nil || a.FromAttribute != "" {
				return fmt.Errorf("action %d (%q): delete takes no value", i, a.Key)
			}
		case INSERT, UPDATE, UPSERT:
			if (a.Value == nil) == (a.FromAttribute == "") {
				return fmt.Errorf("action %d (%q): exactly one of value or from_attribute must be set", i, a.Key)
			}
		default:
			return fmt.Errorf("action %d (%q): unknown action %q", i, a.Key, a.Action)
		}
	}
	return nil
}

func createDefaultConfig() *Config {
	return &Config{}
}
