package forward

import (
	"context"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rileyhilliard/perimeter/internal/config"
	"github.com/rileyhilliard/perimeter/internal/dashboard"
	"github.com/rileyhilliard/perimeter/internal/errors"
	"github.com/rileyhilliard/perimeter/internal/logger"
)

// Dialer opens an MQTT connection. Tests replace it.
type Dialer func(cfg config.MQTTConfig) (mqtt.Client, error)

// Stack holds the commander and forwarder built from config, plus any broker
// connection they share.
type Stack struct {
	Commander dashboard.Commander
	Forwarder *Forwarder

	mqtt mqtt.Client
}

// Build wires the lockdown commander and, if enabled, starts the event
// forwarder. A nil dial uses DialMQTT.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger, dial Dialer) (*Stack, error) {
	if dial == nil {
		dial = DialMQTT
	}
	if log == nil {
		log = logger.Noop()
	}
	s := &Stack{Commander: dashboard.NoopCommander{}}

	client := func() (mqtt.Client, error) {
		if s.mqtt != nil {
			return s.mqtt, nil
		}
		c, err := dial(cfg.MQTT)
		if err != nil {
			return nil, err
		}
		s.mqtt = c
		return c, nil
	}

	switch cfg.Lockdown.Commander {
	case config.CommanderHTTP:
		s.Commander = NewHTTPCommander(cfg.Lockdown.URL, cfg.RequestTimeout)
		log.Debug("lockdown commands go to %s", cfg.Lockdown.URL+LockdownPath)
	case config.CommanderMQTT:
		c, err := client()
		if err != nil {
			return nil, err
		}
		s.Commander = NewMQTTCommander(c, cfg.MQTT.LockdownTopic, cfg.MQTT.Timeout)
		log.Debug("lockdown commands go to mqtt topic %s", cfg.MQTT.LockdownTopic)
	}

	if !cfg.Forward.Enabled {
		return s, nil
	}

	var w EventWriter
	switch cfg.Forward.Driver {
	case config.DriverKafka:
		w = NewKafkaWriter(cfg.Forward.Brokers, cfg.Forward.Topic)
	case config.DriverMQTT:
		c, err := client()
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		w = NewMQTTWriter(c, cfg.Forward.Topic, cfg.MQTT.Timeout)
	default:
		_ = s.Close(ctx)
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown forward driver %q", cfg.Forward.Driver),
			"Use kafka or mqtt.")
	}

	s.Forwarder = NewForwarder(w, log, cfg.Forward.QueueSize)
	s.Forwarder.Start(ctx)
	log.Debug("forwarding events via %s to %s", cfg.Forward.Driver, cfg.Forward.Topic)
	return s, nil
}

// Close stops the forwarder and drops the broker connection.
func (s *Stack) Close(ctx context.Context) error {
	var err error
	if s.Forwarder != nil {
		err = s.Forwarder.Stop(ctx)
	}
	if s.mqtt != nil {
		s.mqtt.Disconnect(250)
		s.mqtt = nil
	}
	return err
}

// DialMQTT connects to the configured broker.
func DialMQTT(cfg config.MQTTConfig) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true)

	c := mqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, errors.New(errors.ErrCommand,
			fmt.Sprintf("Timed out connecting to MQTT broker %s", cfg.Broker),
			"Check mqtt.broker in your config.")
	}
	if err := token.Error(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrCommand,
			fmt.Sprintf("Couldn't connect to MQTT broker %s", cfg.Broker),
			"Check mqtt.broker in your config.")
	}
	return c, nil
}
