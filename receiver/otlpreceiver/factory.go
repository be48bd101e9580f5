// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

package otlpreceiver

import (
	"fmt"

	"github.com/telepipe/telepipe/component"
)

const typeStr = "otlp"

// NewFactory returns the factory for the HTTP receiver.
func NewFactory() component.ReceiverFactory {
	return component.ReceiverFactory{
		Type: typeStr,
		CreateDefaultConfig: func() component.Config {
			return createDefaultConfig()
		},
		CreateReceiver: createReceiver,
	}
}

func createReceiver(set component.TelemetrySettings, name string, cfg component.Config, next component.NextConsumers) (component.Receiver, error) {
	rCfg, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("configuration for %q is not an otlp receiver config", name)
	}
	return newReceiver(rCfg, set, name, next), nil
}
