// Package mqttfwd forwards broadcast parameter snapshots to an MQTT
// broker, one topic per parameter id under a namespace root — adapted
// from mqtt.Publisher's connect/publish shape, trimmed to the
// forward-only direction this protocol needs (no write-back subscription,
// since Set already arrives over the node's own TCP channel).
package mqttfwd

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"paramlink/logging"
	"paramlink/wire"
)

// Config describes one MQTT broker connection.
type Config struct {
	Name      string
	Broker    string
	Port      int
	ClientID  string
	Username  string
	Password  string
	UseTLS    bool
	Namespace string // topic root, e.g. "paramlink/node-7"
}

// Message is the JSON payload published for one parameter.
type Message struct {
	ID        wire.ParameterID `json:"id"`
	Type      string           `json:"type"`
	Value     uint64           `json:"value_bits"`
	Timestamp string           `json:"timestamp"`
}

// Forwarder publishes parameter snapshots to a single MQTT broker.
type Forwarder struct {
	cfg     Config
	client  pahomqtt.Client
	mu      sync.RWMutex
	running bool
}

// New creates an unconnected forwarder.
func New(cfg Config) *Forwarder {
	return &Forwarder{cfg: cfg}
}

// Start connects to the broker.
func (f *Forwarder) Start() error {
	f.mu.RLock()
	if f.running {
		f.mu.RUnlock()
		return nil
	}
	f.mu.RUnlock()

	opts := pahomqtt.NewClientOptions()
	scheme := "tcp"
	if f.cfg.UseTLS {
		scheme = "ssl"
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, f.cfg.Broker, f.cfg.Port))
	opts.SetClientID(f.cfg.ClientID)
	if f.cfg.Username != "" {
		opts.SetUsername(f.cfg.Username)
		opts.SetPassword(f.cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)

	client := pahomqtt.NewClient(opts)
	logging.DebugConnect("mqttfwd", fmt.Sprintf("%s:%d", f.cfg.Broker, f.cfg.Port))

	token := client.Connect()
	if !token.WaitTimeout(5 * time.Second) {
		logging.DebugConnectError("mqttfwd", f.cfg.Broker, fmt.Errorf("connect timeout"))
		return fmt.Errorf("mqttfwd: connect timeout")
	}
	if err := token.Error(); err != nil {
		logging.DebugConnectError("mqttfwd", f.cfg.Broker, err)
		return err
	}

	f.mu.Lock()
	f.client = client
	f.running = true
	f.mu.Unlock()
	logging.DebugConnectSuccess("mqttfwd", f.cfg.Broker, f.cfg.Name)
	return nil
}

// Stop disconnects from the broker.
func (f *Forwarder) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.client != nil && f.running {
		f.client.Disconnect(250)
	}
	f.running = false
}

// Topic returns the topic a parameter id publishes to.
func (f *Forwarder) Topic(id wire.ParameterID) string {
	return fmt.Sprintf("%s/params/%d", f.cfg.Namespace, id)
}

// ForwardBroadcast publishes one message per parameter in the snapshot.
// Publish failures are logged and skipped rather than aborting the batch.
func (f *Forwarder) ForwardBroadcast(params []wire.Parameter) {
	f.mu.RLock()
	client := f.client
	running := f.running
	f.mu.RUnlock()
	if !running || client == nil {
		return
	}

	for _, p := range params {
		msg := Message{
			ID:        p.ID,
			Type:      wire.TypeName(p.Value.Tag()),
			Value:     p.Value.U64(),
			Timestamp: time.UnixMilli(int64(p.LocalTimeMS)).UTC().Format(time.RFC3339Nano),
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			logging.DebugError("mqttfwd", "marshal", err)
			continue
		}
		token := client.Publish(f.Topic(p.ID), 0, false, payload)
		if token.WaitTimeout(2*time.Second) && token.Error() != nil {
			logging.DebugError("mqttfwd", "publish", token.Error())
		}
	}
}
