// Package valkeyfwd forwards broadcast parameter snapshots to Valkey: a
// SET of the latest value per parameter plus a pub/sub announce on a
// shared changes channel — adapted from valkey.Publisher's Set+Publish
// shape and namespace.Builder's colon-delimited key convention.
package valkeyfwd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"paramlink/logging"
	"paramlink/wire"
)

// Config describes the Valkey/Redis connection and key namespace.
type Config struct {
	Address        string
	Password       string
	Database       int
	Namespace      string // e.g. "paramlink:node-7"
	KeyTTL         time.Duration
	PublishChanges bool
}

// Message is the JSON value stored/published for one parameter.
type Message struct {
	Namespace string           `json:"namespace"`
	ID        wire.ParameterID `json:"id"`
	Type      string           `json:"type"`
	Value     uint64           `json:"value_bits"`
	Timestamp time.Time        `json:"timestamp"`
}

// Forwarder publishes parameter snapshots to one Valkey server.
type Forwarder struct {
	cfg    Config
	client *redis.Client
}

// New creates a forwarder and opens its client connection lazily (redis.Client
// dials on first command, matching go-redis's own lazy-connect model).
func New(cfg Config) *Forwarder {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	return &Forwarder{cfg: cfg, client: client}
}

// Close closes the underlying client.
func (f *Forwarder) Close() error {
	return f.client.Close()
}

func (f *Forwarder) key(id wire.ParameterID) string {
	return joinKey(f.cfg.Namespace, "params", fmt.Sprintf("%d", id))
}

func (f *Forwarder) changesChannel() string {
	return joinKey(f.cfg.Namespace, "changes")
}

// ForwardBroadcast sets the latest value for each parameter and, if
// configured, announces the snapshot on the namespace's changes channel.
func (f *Forwarder) ForwardBroadcast(params []wire.Parameter) {
	if len(params) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for _, p := range params {
		msg := Message{
			Namespace: f.cfg.Namespace,
			ID:        p.ID,
			Type:      wire.TypeName(p.Value.Tag()),
			Value:     p.Value.U64(),
			Timestamp: time.UnixMilli(int64(p.LocalTimeMS)).UTC(),
		}
		data, err := json.Marshal(msg)
		if err != nil {
			logging.DebugError("valkeyfwd", "marshal", err)
			continue
		}
		if err := f.client.Set(ctx, f.key(p.ID), data, f.cfg.KeyTTL).Err(); err != nil {
			logging.DebugError("valkeyfwd", "set", err)
			continue
		}
		if f.cfg.PublishChanges {
			f.client.Publish(ctx, f.changesChannel(), data)
		}
	}
}

// joinKey joins key segments with colons, trimming empty segments.
func joinKey(segments ...string) string {
	var parts []string
	for _, s := range segments {
		s = strings.Trim(s, ":")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ":")
}
