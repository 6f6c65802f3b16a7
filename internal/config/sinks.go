// SPDX-License-Identifier: AGPL-3.0-or-later
// pulsewired - a wire-compatible PulseAudio native protocol server
// Copyright (C) 2026 pulsewired contributors

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StaticSink describes one statically provisioned sink, loaded from
// Config.SinksFile (spec.md §4.10) and applied to the sink catalog
// at startup alongside the always-present dummy sink.
type StaticSink struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Channels    uint8    `yaml:"channels"`
	Rate        uint32   `yaml:"rate"`
	Format      string   `yaml:"format"`
	Ports       []string `yaml:"ports"`
}

// StaticSinks is the top-level shape of a SinksFile document.
type StaticSinks struct {
	Sinks []StaticSink `yaml:"sinks"`
}

// LoadSinksFile reads and parses path as a StaticSinks document.
func LoadSinksFile(path string) (StaticSinks, error) {
	var out StaticSinks
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read sinks file: %w", err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse sinks file: %w", err)
	}
	return out, nil
}
