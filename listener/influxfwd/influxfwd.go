// Package influxfwd writes one point per parameter per broadcast tick to
// InfluxDB: build a client once, accumulate points, WritePoints per batch.
package influxfwd

import (
	"context"
	"fmt"
	"time"

	"github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"

	"paramlink/logging"
	"paramlink/wire"
)

// Config describes the InfluxDB connection.
type Config struct {
	Host       string
	Token      string
	Database   string
	Measurement string // defaults to "parameter" if empty
}

// Forwarder writes parameter snapshots to InfluxDB.
type Forwarder struct {
	cfg    Config
	client *influxdb3.Client
}

// New opens an InfluxDB client.
func New(cfg Config) (*Forwarder, error) {
	if cfg.Measurement == "" {
		cfg.Measurement = "parameter"
	}
	client, err := influxdb3.New(influxdb3.ClientConfig{
		Host:     cfg.Host,
		Token:    cfg.Token,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("influxfwd: create client: %w", err)
	}
	return &Forwarder{cfg: cfg, client: client}, nil
}

// Close closes the underlying client.
func (f *Forwarder) Close() error {
	return f.client.Close()
}

// ForwardBroadcast writes one point per parameter, tagged by node id,
// parameter id and decoded type name, with the raw value bits and the
// parameter's local time as fields.
func (f *Forwarder) ForwardBroadcast(ctx context.Context, nodeID uint32, params []wire.Parameter) {
	if len(params) == 0 {
		return
	}
	now := time.Now()
	points := make([]*influxdb3.Point, 0, len(params))
	for _, p := range params {
		point := influxdb3.NewPoint(
			f.cfg.Measurement,
			map[string]string{
				"node_id":  fmt.Sprintf("%d", nodeID),
				"param_id": fmt.Sprintf("%d", p.ID),
				"type":     wire.TypeName(p.Value.Tag()),
			},
			map[string]any{
				"value_bits":    p.Value.U64(),
				"local_time_ms": p.LocalTimeMS,
			},
			now,
		)
		points = append(points, point)
	}

	if err := f.client.WritePoints(ctx, points); err != nil {
		logging.DebugError("influxfwd", fmt.Sprintf("write %d points", len(points)), err)
	}
}
