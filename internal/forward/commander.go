package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rileyhilliard/perimeter/internal/dashboard"
	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/status"
)

// LockdownPath is appended to the commander base URL.
const LockdownPath = "/api/lockdown"

// lockdownQoS is at-least-once; the backend treats repeats as idempotent.
const lockdownQoS byte = 1

func newCommand(state dashboard.LockdownState, now time.Time) status.LockdownCommand {
	return status.LockdownCommand{State: state.String(), RequestedAt: now.UTC()}
}

// HTTPCommander posts lockdown changes to the facility backend.
type HTTPCommander struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewHTTPCommander creates a commander posting to <baseURL>/api/lockdown.
func NewHTTPCommander(baseURL string, timeout time.Duration) *HTTPCommander {
	return &HTTPCommander{
		url:    strings.TrimRight(baseURL, "/") + LockdownPath,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// URL returns the full lockdown endpoint.
func (c *HTTPCommander) URL() string {
	return c.url
}

// Command implements dashboard.Commander.
func (c *HTTPCommander) Command(ctx context.Context, state dashboard.LockdownState) error {
	body, err := json.Marshal(newCommand(state, c.now()))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCommand, "Couldn't encode lockdown command", "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCommand,
			fmt.Sprintf("Couldn't build a request for %s", c.url),
			"Check lockdown.url in your config.")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCommand,
			fmt.Sprintf("Lockdown endpoint %s is unreachable", c.url),
			"Make sure the facility backend is running.")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errors.ErrCommand,
			fmt.Sprintf("Lockdown endpoint returned %s", resp.Status),
			"Check the backend logs.")
	}
	return nil
}

// Publisher is the part of an MQTT client the writers need.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTCommander publishes lockdown changes on an MQTT topic.
type MQTTCommander struct {
	client  Publisher
	topic   string
	timeout time.Duration
	now     func() time.Time
}

// NewMQTTCommander creates a commander publishing to topic.
func NewMQTTCommander(client Publisher, topic string, timeout time.Duration) *MQTTCommander {
	return &MQTTCommander{
		client:  client,
		topic:   topic,
		timeout: timeout,
		now:     time.Now,
	}
}

// Command implements dashboard.Commander.
func (c *MQTTCommander) Command(ctx context.Context, state dashboard.LockdownState) error {
	payload, err := json.Marshal(newCommand(state, c.now()))
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrCommand, "Couldn't encode lockdown command", "")
	}

	token := c.client.Publish(c.topic, lockdownQoS, false, payload)
	if err := waitToken(ctx, token, c.timeout); err != nil {
		return errors.WrapWithCode(err, errors.ErrCommand,
			fmt.Sprintf("Lockdown publish to %s failed", c.topic),
			"Check the MQTT broker in your config.")
	}
	return nil
}

// waitToken blocks until token completes, ctx ends, or timeout passes.
func waitToken(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer:
		return fmt.Errorf("timed out after %s", timeout)
	}
}
