package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Fence logging modes.
const (
	// FenceLoggingEveryPoll appends a breach entry on every poll while the alert is raised.
	FenceLoggingEveryPoll = "every_poll"
	// FenceLoggingEdge appends a breach entry only when the alert goes from clear to raised.
	FenceLoggingEdge = "edge"
)

// Lockdown commander kinds.
const (
	CommanderNone = "none"
	CommanderHTTP = "http"
	CommanderMQTT = "mqtt"
)

// Forward drivers.
const (
	DriverKafka = "kafka"
	DriverMQTT  = "mqtt"
)

// Config represents the complete .perimeter.yaml configuration file.
type Config struct {
	Version        int             `yaml:"version" mapstructure:"version"`
	Endpoint       string          `yaml:"endpoint" mapstructure:"endpoint"`
	PollInterval   time.Duration   `yaml:"poll_interval" mapstructure:"poll_interval"`
	ClockInterval  time.Duration   `yaml:"clock_interval" mapstructure:"clock_interval"`
	RequestTimeout time.Duration   `yaml:"request_timeout" mapstructure:"request_timeout"`
	Dashboard      DashboardConfig `yaml:"dashboard" mapstructure:"dashboard"`
	Lockdown       LockdownConfig  `yaml:"lockdown" mapstructure:"lockdown"`
	Forward        ForwardConfig   `yaml:"forward" mapstructure:"forward"`
	MQTT           MQTTConfig      `yaml:"mqtt" mapstructure:"mqtt"`
	Server         ServerConfig    `yaml:"server" mapstructure:"server"`
}

// DashboardConfig controls the presenter and the TUI.
type DashboardConfig struct {
	// HistorySize is the capacity of the rolling sample buffer behind the charts.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// LogSize is the capacity of the on-screen event log.
	LogSize int `yaml:"log_size" mapstructure:"log_size"`

	// FenceLogging is "every_poll" or "edge".
	FenceLogging string `yaml:"fence_logging" mapstructure:"fence_logging"`

	// Views lists the views mounted in the dashboard. Regions belonging to
	// views not listed here are absent and skipped by the presenter.
	Views []string `yaml:"views" mapstructure:"views"`
}

// LockdownConfig selects how lockdown toggles are reported upstream.
type LockdownConfig struct {
	// Commander is "none", "http", or "mqtt".
	Commander string `yaml:"commander" mapstructure:"commander"`

	// URL is the base URL for the http commander (POST <url>/api/lockdown).
	URL string `yaml:"url" mapstructure:"url"`
}

// ForwardConfig controls forwarding of event log entries to a broker.
type ForwardConfig struct {
	Enabled   bool     `yaml:"enabled" mapstructure:"enabled"`
	Driver    string   `yaml:"driver" mapstructure:"driver"`
	Topic     string   `yaml:"topic" mapstructure:"topic"`
	Brokers   []string `yaml:"brokers" mapstructure:"brokers"`
	QueueSize int      `yaml:"queue_size" mapstructure:"queue_size"`
}

// MQTTConfig holds the broker connection shared by the mqtt commander and forwarder.
type MQTTConfig struct {
	Broker        string        `yaml:"broker" mapstructure:"broker"`
	ClientID      string        `yaml:"client_id" mapstructure:"client_id"`
	LockdownTopic string        `yaml:"lockdown_topic" mapstructure:"lockdown_topic"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig controls the demo status server.
type ServerConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		Endpoint:       "http://localhost:5000/api/status",
		PollInterval:   5 * time.Second,
		ClockInterval:  time.Second,
		RequestTimeout: 4 * time.Second,
		Dashboard: DashboardConfig{
			HistorySize:  10,
			LogSize:      10,
			FenceLogging: FenceLoggingEveryPoll,
			Views:        []string{"overview", "control_room", "patrol_guard", "event_log"},
		},
		Lockdown: LockdownConfig{
			Commander: CommanderNone,
			URL:       "http://localhost:5000",
		},
		Forward: ForwardConfig{
			Enabled:   false,
			Driver:    DriverKafka,
			Topic:     "perimeter.events",
			Brokers:   []string{"localhost:9092"},
			QueueSize: 64,
		},
		MQTT: MQTTConfig{
			Broker:        "tcp://localhost:1883",
			ClientID:      "perimeter",
			LockdownTopic: "perimeter/lockdown",
			Timeout:       5 * time.Second,
		},
		Server: ServerConfig{
			Listen: ":5000",
		},
	}
}
