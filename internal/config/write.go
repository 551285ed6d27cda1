package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileHeader is written above the generated YAML.
const fileHeader = "# perimeter dashboard config\n# Docs: perimeter init --help\n"

// Marshal renders cfg as YAML in the on-disk layout.
// Durations are written as strings ("5s") so viper can read them back.
func Marshal(cfg *Config) ([]byte, error) {
	doc := map[string]interface{}{
		"version":         cfg.Version,
		"endpoint":        cfg.Endpoint,
		"poll_interval":   cfg.PollInterval.String(),
		"clock_interval":  cfg.ClockInterval.String(),
		"request_timeout": cfg.RequestTimeout.String(),
		"dashboard":       cfg.Dashboard,
		"lockdown":        cfg.Lockdown,
		"forward":         cfg.Forward,
		"mqtt": map[string]interface{}{
			"broker":         cfg.MQTT.Broker,
			"client_id":      cfg.MQTT.ClientID,
			"lockdown_topic": cfg.MQTT.LockdownTopic,
			"timeout":        cfg.MQTT.Timeout.String(),
		},
		"server": cfg.Server,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte(fileHeader), data...), nil
}

// Write saves cfg to path. It refuses to overwrite an existing file unless force is set.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
