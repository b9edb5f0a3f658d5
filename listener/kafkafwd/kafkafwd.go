// Package kafkafwd forwards broadcast parameter snapshots to a single
// Kafka topic, keyed by parameter id — adapted from kafka.Producer's
// synchronous WriteMessages shape, trimmed to one fixed topic per node
// instead of a per-PLC topic/writer map.
package kafkafwd

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"paramlink/logging"
	"paramlink/wire"
)

// Config describes the Kafka cluster and topic to forward to.
type Config struct {
	Brokers      []string
	Topic        string
	RequiredAcks kafka.RequiredAcks
}

// Message is the JSON value written for one parameter.
type Message struct {
	ID        wire.ParameterID `json:"id"`
	Type      string           `json:"type"`
	Value     uint64           `json:"value_bits"`
	Timestamp string           `json:"timestamp"`
}

// Forwarder writes parameter snapshots to one Kafka topic.
type Forwarder struct {
	cfg    Config
	writer *kafka.Writer
}

// New creates a forwarder with a writer ready to use; Kafka's client
// connects lazily on first write.
func New(cfg Config) *Forwarder {
	acks := cfg.RequiredAcks
	if acks == 0 {
		acks = kafka.RequireOne
	}
	return &Forwarder{
		cfg: cfg,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: acks,
			Async:        false,
		},
	}
}

// Close closes the underlying writer.
func (f *Forwarder) Close() error {
	return f.writer.Close()
}

// ForwardBroadcast writes one message per parameter, keyed by the
// parameter id's big-endian bytes so the writer's key-hashing balancer keeps
// a given parameter's history on one partition.
func (f *Forwarder) ForwardBroadcast(ctx context.Context, params []wire.Parameter) {
	if len(params) == 0 {
		return
	}
	msgs := make([]kafka.Message, 0, len(params))
	for _, p := range params {
		key := make([]byte, 4)
		binary.BigEndian.PutUint32(key, uint32(p.ID))

		msg := Message{
			ID:        p.ID,
			Type:      wire.TypeName(p.Value.Tag()),
			Value:     p.Value.U64(),
			Timestamp: time.UnixMilli(int64(p.LocalTimeMS)).UTC().Format(time.RFC3339Nano),
		}
		value, err := json.Marshal(msg)
		if err != nil {
			logging.DebugError("kafkafwd", "marshal", err)
			continue
		}
		msgs = append(msgs, kafka.Message{Key: key, Value: value, Time: time.Now()})
	}

	if err := f.writer.WriteMessages(ctx, msgs...); err != nil {
		logging.DebugError("kafkafwd", fmt.Sprintf("write %d messages", len(msgs)), err)
	}
}
