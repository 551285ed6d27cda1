package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/dashboard"
	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/logger"
)

func TestApplyWatchFlags(t *testing.T) {
	tests := []struct {
		name      string
		interval  string
		views     string
		wantErr   bool
		wantPoll  time.Duration
		wantViews []string
	}{
		{
			name:      "no flags keeps config",
			wantPoll:  config.DefaultConfig().PollInterval,
			wantViews: config.DefaultConfig().Dashboard.Views,
		},
		{
			name:      "interval and views",
			interval:  "10s",
			views:     " overview, event_log ,",
			wantPoll:  10 * time.Second,
			wantViews: []string{"overview", "event_log"},
		},
		{name: "bad interval", interval: "often", wantErr: true},
		{name: "negative interval", interval: "-5s", wantErr: true},
		{name: "unknown view", views: "lobby", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := applyWatchFlags(cfg, tt.interval, tt.views)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoll, cfg.PollInterval)
			assert.Equal(t, tt.wantViews, cfg.Dashboard.Views)
		})
	}
}

func TestBuildDashboard(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Endpoint = "http://10.0.0.5:5000/api/status"
	cfg.Dashboard.Views = []string{"patrol_guard", "event_log"}

	parts := buildDashboard(cfg, dashboard.NoopCommander{}, logger.Noop())

	assert.Equal(t, []dashboard.View{dashboard.ViewPatrolGuard, dashboard.ViewEventLog}, parts.board.Views())
	assert.Nil(t, parts.board.Region(dashboard.RegionPeopleCount))
	assert.NotNil(t, parts.board.Region(dashboard.RegionTemperature))
	assert.Equal(t, cfg.Endpoint, parts.client.Endpoint())
	assert.Equal(t, dashboard.ViewPatrolGuard, parts.board.Active())
}

func TestRequestTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RequestTimeout = 2 * time.Second
	assert.Equal(t, 2*time.Second, requestTimeout(cfg))

	cfg.RequestTimeout = 0
	cfg.PollInterval = 7 * time.Second
	assert.Equal(t, 7*time.Second, requestTimeout(cfg))
}

func TestWatchPlain(t *testing.T) {
	srv := statusBackend(t, breachPayload)
	cfg := config.DefaultConfig()
	cfg.Endpoint = srv.URL + "/api/status"
	cfg.PollInterval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- watchCommand(ctx, cfg, true, &out) }()

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "people=4") >= 2
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}

	text := out.String()
	assert.Contains(t, text, "door=OPENED")
	assert.Contains(t, text, "fence=BREACH")
	assert.Contains(t, text, "lockdown=armed")
	assert.Contains(t, text, "[DANGER] "+dashboard.MessageBreach)
}
