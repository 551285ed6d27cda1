package forward

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/rileyhilliard/perimeter/internal/dashboard"
	"github.com/rileyhilliard/perimeter/internal/errors"
)

type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaWriter publishes event log entries to a Kafka topic, keyed by entry ID.
type KafkaWriter struct {
	w     kafkaMessageWriter
	topic string
}

// NewKafkaWriter creates a writer for topic on brokers. No connection is made
// until the first write.
func NewKafkaWriter(brokers []string, topic string) *KafkaWriter {
	return newKafkaWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}, topic)
}

func newKafkaWriter(w kafkaMessageWriter, topic string) *KafkaWriter {
	return &KafkaWriter{w: w, topic: topic}
}

// WriteEvent implements EventWriter.
func (k *KafkaWriter) WriteEvent(ctx context.Context, e dashboard.LogEntry) error {
	value, err := json.Marshal(e)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrForward, "Couldn't encode event", "")
	}
	msg := kafka.Message{
		Key:   []byte(e.ID),
		Value: value,
		Time:  e.Time,
		Headers: []kafka.Header{
			{Key: "severity", Value: []byte(e.Severity.String())},
		},
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return errors.WrapWithCode(err, errors.ErrForward,
			fmt.Sprintf("Kafka write to %s failed", k.topic),
			"Check forward.brokers in your config.")
	}
	return nil
}

// Close implements EventWriter.
func (k *KafkaWriter) Close() error {
	return k.w.Close()
}

// MQTTWriter publishes event log entries to an MQTT topic.
type MQTTWriter struct {
	client  Publisher
	topic   string
	timeout time.Duration
}

// NewMQTTWriter creates a writer publishing to topic.
func NewMQTTWriter(client Publisher, topic string, timeout time.Duration) *MQTTWriter {
	return &MQTTWriter{client: client, topic: topic, timeout: timeout}
}

// WriteEvent implements EventWriter.
func (m *MQTTWriter) WriteEvent(ctx context.Context, e dashboard.LogEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrForward, "Couldn't encode event", "")
	}
	if err := waitToken(ctx, m.client.Publish(m.topic, lockdownQoS, false, payload), m.timeout); err != nil {
		return errors.WrapWithCode(err, errors.ErrForward,
			fmt.Sprintf("MQTT publish to %s failed", m.topic),
			"Check mqtt.broker in your config.")
	}
	return nil
}

// Close implements EventWriter. The MQTT connection is owned by the Stack.
func (m *MQTTWriter) Close() error {
	return nil
}
