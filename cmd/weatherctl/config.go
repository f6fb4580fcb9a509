package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level weatherctl configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	NWS    NWSConfig    `yaml:"nws"`
	Demo   DemoConfig   `yaml:"demo"`
}

// ServerConfig identifies the weather MCP server to launch. An empty command
// means the demo serves itself by re-executing the binary with "serve".
type ServerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// NWSConfig holds National Weather Service API settings for the bundled
// server. It only applies when the demo serves itself; an external server
// command is configured with its own arguments instead.
type NWSConfig struct {
	BaseURL string `yaml:"base_url"`
}

// DemoConfig holds the regions the demo walks through.
type DemoConfig struct {
	AlertState string     `yaml:"alert_state"`
	Forecasts  []Location `yaml:"forecasts"`
}

// Location is a named coordinate pair.
type Location struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// defaultConfig mirrors the original demo walkthrough: California alerts,
// then forecasts for New York and Los Angeles.
func defaultConfig() Config {
	return Config{
		Demo: DemoConfig{
			AlertState: "CA",
			Forecasts: []Location{
				{Name: "New York", Latitude: 40.7128, Longitude: -74.0060},
				{Name: "Los Angeles", Latitude: 34.0522, Longitude: -118.2437},
			},
		},
	}
}

// loadConfig reads a YAML file and returns a Config merged over the
// defaults. An empty path returns the defaults unchanged. Environment
// variables referenced as ${VAR} or $VAR in the YAML are expanded before
// parsing.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// validate checks that the configuration is internally consistent.
func (c Config) validate() error {
	if c.Server.Command == "" && len(c.Server.Args) > 0 {
		return fmt.Errorf("config: server args given without a command")
	}

	if c.Server.Command != "" && c.NWS.BaseURL != "" {
		return fmt.Errorf("config: nws.base_url only applies to the bundled server; configure %q directly instead", c.Server.Command)
	}

	if len(c.Demo.AlertState) != 2 {
		return fmt.Errorf("config: alert_state must be a two-letter state code, got %q", c.Demo.AlertState)
	}

	for _, loc := range c.Demo.Forecasts {
		if loc.Latitude < -90 || loc.Latitude > 90 {
			return fmt.Errorf("config: forecast %q: latitude %v out of range", loc.Name, loc.Latitude)
		}
		if loc.Longitude < -180 || loc.Longitude > 180 {
			return fmt.Errorf("config: forecast %q: longitude %v out of range", loc.Name, loc.Longitude)
		}
	}

	return nil
}
