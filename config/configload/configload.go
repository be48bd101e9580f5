// Copyright The Telepipe Authors
// SPDX-License-Identifier: Apache-2.0

// Package configload reads a YAML configuration file and decodes it into a
// validated config.Config using the factories' default configs as the decode
// targets. Any problem (unreadable file, unknown component type, unused keys,
// invalid parameter values, dangling pipeline references) is returned as an
// error so the service fails fast at startup.
package configload

import (
	"fmt"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/mitchellh/mapstructure"

	"github.com/telepipe/telepipe/component"
	"github.com/telepipe/telepipe/config"
)

// KeyDelimiter is used instead of the default "." so that attribute keys
// like "service.name" survive as single map keys.
const KeyDelimiter = "::"

// Load reads, decodes, defaults and validates the configuration at path.
func Load(path string, factories component.Factories) (*config.Config, error) {
	k := koanf.New(KeyDelimiter)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("error loading config file %q: %w", path, err)
	}
	return unmarshal(k.Raw(), factories)
}

func unmarshal(raw map[string]interface{}, factories component.Factories) (*config.Config, error) {
	cfg := &config.Config{
		Receivers:  map[string]component.Config{},
		Processors: map[string]component.Config{},
		Exporters:  map[string]component.Config{},
	}

	receivers, err := section(raw, "receivers")
	if err != nil {
		return nil, err
	}
	for key, sub := range receivers {
		factory, err := receiverFactory(factories, key)
		if err != nil {
			return nil, err
		}
		rcfg := factory.CreateDefaultConfig()
		if err := decode(sub, rcfg); err != nil {
			return nil, fmt.Errorf("error reading receiver %q configuration: %w", key, err)
		}
		cfg.Receivers[key] = rcfg
	}

	processors, err := section(raw, "processors")
	if err != nil {
		return nil, err
	}
	for key, sub := range processors {
		factory, err := processorFactory(factories, key)
		if err != nil {
			return nil, err
		}
		pcfg := factory.CreateDefaultConfig()
		if err := decode(sub, pcfg); err != nil {
			return nil, fmt.Errorf("error reading processor %q configuration: %w", key, err)
		}
		cfg.Processors[key] = pcfg
	}

	exporters, err := section(raw, "exporters")
	if err != nil {
		return nil, err
	}
	for key, sub := range exporters {
		factory, err := exporterFactory(factories, key)
		if err != nil {
			return nil, err
		}
		ecfg := factory.CreateDefaultConfig()
		if err := decode(sub, ecfg); err != nil {
			return nil, fmt.Errorf("error reading exporter %q configuration: %w", key, err)
		}
		cfg.Exporters[key] = ecfg
	}

	if svc, ok := raw["service"]; ok {
		if err := decode(svc, &cfg.Service); err != nil {
			return nil, fmt.Errorf("error reading service configuration: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func section(raw map[string]interface{}, name string) (map[string]interface{}, error) {
	sub, ok := raw[name]
	if !ok || sub == nil {
		return nil, nil
	}
	m, ok := sub.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%q section must be a map of named components", name)
	}
	return m, nil
}

func receiverFactory(factories component.Factories, key string) (component.ReceiverFactory, error) {
	typ, err := config.TypeFromKey(key)
	if err != nil {
		return component.ReceiverFactory{}, err
	}
	factory, ok := factories.Receivers[typ]
	if !ok {
		return component.ReceiverFactory{}, fmt.Errorf("unknown receiver type %q for %q", typ, key)
	}
	return factory, nil
}

func processorFactory(factories component.Factories, key string) (component.ProcessorFactory, error) {
	typ, err := config.TypeFromKey(key)
	if err != nil {
		return component.ProcessorFactory{}, err
	}
	factory, ok := factories.Processors[typ]
	if !ok {
		return component.ProcessorFactory{}, fmt.Errorf("unknown processor type %q for %q", typ, key)
	}
	return factory, nil
}

func exporterFactory(factories component.Factories, key string) (component.ExporterFactory, error) {
	typ, err := config.TypeFromKey(key)
	if err != nil {
		return component.ExporterFactory{}, err
	}
	factory, ok := factories.Exporters[typ]
	if !ok {
		return component.ExporterFactory{}, fmt.Errorf("unknown exporter type %q for %q", typ, key)
	}
	return factory, nil
}

// decode maps a raw config section onto the typed struct. ErrorUnused makes
// typos fail loudly instead of being silently ignored.
func decode(input interface{}, result interface{}) error {
	if input == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           result,
		TagName:          "mapstructure",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
