package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".perimeter.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/perimeter"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'perimeter init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .perimeter.yaml in current directory
// 3. .perimeter.yaml in parent directories (stops at git root or home)
// 4. ~/.config/perimeter/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandPath(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if none exists.
// The dashboard works out of the box against the demo server, so a missing
// config file is not an error.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}

	if path == "" {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	setDefaults(v)

	// Viper's default decode hooks turn "5s" into a time.Duration.
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	return cfg, nil
}

// setDefaults registers defaults for keys that must survive a partial config.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("endpoint", d.Endpoint)
	v.SetDefault("poll_interval", d.PollInterval.String())
	v.SetDefault("clock_interval", d.ClockInterval.String())
	v.SetDefault("request_timeout", d.RequestTimeout.String())
	v.SetDefault("dashboard.history_size", d.Dashboard.HistorySize)
	v.SetDefault("dashboard.log_size", d.Dashboard.LogSize)
	v.SetDefault("dashboard.fence_logging", d.Dashboard.FenceLogging)
	v.SetDefault("dashboard.views", d.Dashboard.Views)
	v.SetDefault("lockdown.commander", d.Lockdown.Commander)
	v.SetDefault("lockdown.url", d.Lockdown.URL)
	v.SetDefault("forward.driver", d.Forward.Driver)
	v.SetDefault("forward.topic", d.Forward.Topic)
	v.SetDefault("forward.brokers", d.Forward.Brokers)
	v.SetDefault("forward.queue_size", d.Forward.QueueSize)
	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)
	v.SetDefault("mqtt.lockdown_topic", d.MQTT.LockdownTopic)
	v.SetDefault("mqtt.timeout", d.MQTT.Timeout.String())
	v.SetDefault("server.listen", d.Server.Listen)
}
