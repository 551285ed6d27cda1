package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rileyhilliard/perimeter/internal/errors"
)

// KnownViews are the view names accepted in dashboard.views.
var KnownViews = map[string]bool{
	"overview":     true,
	"control_room": true,
	"patrol_guard": true,
	"event_log":    true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but perimeter only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade perimeter or lower the version field.")
	}

	if err := validateEndpoint(cfg.Endpoint); err != nil {
		return err
	}

	if cfg.PollInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("poll_interval must be positive, got %s", cfg.PollInterval),
			"Try something like 5s.")
	}
	if cfg.ClockInterval <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("clock_interval must be positive, got %s", cfg.ClockInterval),
			"Try something like 1s.")
	}
	if cfg.RequestTimeout < 0 {
		return errors.New(errors.ErrConfig,
			"request_timeout can't be negative",
			"Use 0 to fall back to the poll interval.")
	}

	if err := validateDashboard(cfg.Dashboard); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'dashboard' section in your .perimeter.yaml.")
	}

	if err := validateLockdown(cfg.Lockdown); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'lockdown' section in your .perimeter.yaml.")
	}

	if err := validateForward(cfg.Forward); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'forward' section in your .perimeter.yaml.")
	}

	if usesMQTT(cfg) && strings.TrimSpace(cfg.MQTT.Broker) == "" {
		return errors.New(errors.ErrConfig,
			"mqtt.broker is required when the mqtt commander or forwarder is enabled",
			"Set mqtt.broker, e.g. tcp://localhost:1883.")
	}

	return nil
}

func validateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return errors.New(errors.ErrConfig,
			"endpoint is empty",
			"Point it at your status API, e.g. http://localhost:5000/api/status.")
	}
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a usable http(s) URL", endpoint),
			"Use a full URL like http://localhost:5000/api/status.")
	}
	return nil
}

func validateDashboard(d DashboardConfig) error {
	if d.HistorySize < 1 {
		return fmt.Errorf("history_size must be at least 1, got %d", d.HistorySize)
	}
	if d.LogSize < 1 {
		return fmt.Errorf("log_size must be at least 1, got %d", d.LogSize)
	}
	switch d.FenceLogging {
	case FenceLoggingEveryPoll, FenceLoggingEdge:
	default:
		return fmt.Errorf("fence_logging must be '%s' or '%s', got '%s'", FenceLoggingEveryPoll, FenceLoggingEdge, d.FenceLogging)
	}
	if len(d.Views) == 0 {
		return fmt.Errorf("at least one view must be enabled")
	}
	for _, v := range d.Views {
		if !KnownViews[v] {
			return fmt.Errorf("unknown view '%s'", v)
		}
	}
	return nil
}

func validateLockdown(l LockdownConfig) error {
	switch l.Commander {
	case CommanderNone, "":
	case CommanderHTTP:
		if strings.TrimSpace(l.URL) == "" {
			return fmt.Errorf("lockdown.url is required for the http commander")
		}
	case CommanderMQTT:
	default:
		return fmt.Errorf("unknown lockdown commander '%s'", l.Commander)
	}
	return nil
}

func validateForward(f ForwardConfig) error {
	if !f.Enabled {
		return nil
	}
	if strings.TrimSpace(f.Topic) == "" {
		return fmt.Errorf("forward.topic must not be empty")
	}
	if f.QueueSize < 1 {
		return fmt.Errorf("forward.queue_size must be at least 1, got %d", f.QueueSize)
	}
	switch f.Driver {
	case DriverKafka:
		if len(f.Brokers) == 0 {
			return fmt.Errorf("forward.brokers needs at least one broker for kafka")
		}
	case DriverMQTT:
	default:
		return fmt.Errorf("unknown forward driver '%s'", f.Driver)
	}
	return nil
}

func usesMQTT(cfg *Config) bool {
	return cfg.Lockdown.Commander == CommanderMQTT ||
		(cfg.Forward.Enabled && cfg.Forward.Driver == DriverMQTT)
}
