package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/zephyrtronium/calculator"
	"gopkg.in/yaml.v3"
)

// config is the contents of a configuration file.
type config struct {
	// Prompt is printed before reading each line.
	Prompt string `yaml:"prompt"`
	// MaxPowerBits limits the estimated size of results of ^. Zero uses the
	// calculator's default.
	MaxPowerBits uint `yaml:"max_power_bits"`
	// Vars maps variable names to expressions giving their initial values.
	Vars map[string]string `yaml:"vars"`
}

// loadConfig reads a YAML configuration file. Unknown fields are errors. An
// empty file is the zero config.
func loadConfig(name string) (*config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return decodeConfig(f, name)
}

func decodeConfig(r io.Reader, name string) (*config, error) {
	var cfg config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", name, err)
	}
	return &cfg, nil
}

// env creates an environment with the configured limit and variables.
// Variables are evaluated in name order, so each may refer to those before
// it.
func (c *config) env() (*calculator.Env, error) {
	env := calculator.NewEnv(calculator.MaxPowerBits(c.MaxPowerBits))
	names := make([]string, 0, len(c.Vars))
	for k := range c.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := env.AssignLine(k, c.Vars[k]); err != nil {
			return nil, fmt.Errorf("config: variable %s: %w", k, err)
		}
	}
	return env, nil
}
