package config

import (
	"testing"
	"time"

	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "version too high",
			mutate:  func(c *Config) { c.Version = CurrentConfigVersion + 1 },
			wantErr: true,
			errMsg:  "from the future",
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.Endpoint = "" },
			wantErr: true,
			errMsg:  "endpoint is empty",
		},
		{
			name:    "endpoint without scheme",
			mutate:  func(c *Config) { c.Endpoint = "localhost:5000/api/status" },
			wantErr: true,
			errMsg:  "isn't a usable http(s) URL",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.PollInterval = 0 },
			wantErr: true,
			errMsg:  "poll_interval must be positive",
		},
		{
			name:    "zero clock interval",
			mutate:  func(c *Config) { c.ClockInterval = 0 },
			wantErr: true,
			errMsg:  "clock_interval must be positive",
		},
		{
			name:    "negative request timeout",
			mutate:  func(c *Config) { c.RequestTimeout = -time.Second },
			wantErr: true,
			errMsg:  "request_timeout",
		},
		{
			name:    "history size zero",
			mutate:  func(c *Config) { c.Dashboard.HistorySize = 0 },
			wantErr: true,
			errMsg:  "history_size",
		},
		{
			name:    "bad fence logging mode",
			mutate:  func(c *Config) { c.Dashboard.FenceLogging = "sometimes" },
			wantErr: true,
			errMsg:  "fence_logging",
		},
		{
			name:    "unknown view",
			mutate:  func(c *Config) { c.Dashboard.Views = []string{"overview", "cctv"} },
			wantErr: true,
			errMsg:  "unknown view 'cctv'",
		},
		{
			name:    "no views",
			mutate:  func(c *Config) { c.Dashboard.Views = nil },
			wantErr: true,
			errMsg:  "at least one view",
		},
		{
			name:    "http commander without url",
			mutate:  func(c *Config) { c.Lockdown.Commander = CommanderHTTP; c.Lockdown.URL = "" },
			wantErr: true,
			errMsg:  "lockdown.url",
		},
		{
			name:    "unknown commander",
			mutate:  func(c *Config) { c.Lockdown.Commander = "carrier-pigeon" },
			wantErr: true,
			errMsg:  "unknown lockdown commander",
		},
		{
			name:    "mqtt commander without broker",
			mutate:  func(c *Config) { c.Lockdown.Commander = CommanderMQTT; c.MQTT.Broker = "" },
			wantErr: true,
			errMsg:  "mqtt.broker",
		},
		{
			name:    "disabled forward skips checks",
			mutate:  func(c *Config) { c.Forward.Brokers = nil; c.Forward.Topic = "" },
			wantErr: false,
		},
		{
			name: "kafka forward without brokers",
			mutate: func(c *Config) {
				c.Forward.Enabled = true
				c.Forward.Brokers = nil
			},
			wantErr: true,
			errMsg:  "forward.brokers",
		},
		{
			name: "unknown forward driver",
			mutate: func(c *Config) {
				c.Forward.Enabled = true
				c.Forward.Driver = "nats"
			},
			wantErr: true,
			errMsg:  "unknown forward driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
