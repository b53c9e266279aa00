package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "nexboard"

// Metrics holds all NexBoard metric instruments.
type Metrics struct {
	DeliveriesProcessed metric.Int64Counter
	DeliveriesRejected  metric.Int64Counter
	TasksSynced         metric.Int64Counter
	RefsSkipped         metric.Int64Counter
	SyncDuration        metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.DeliveriesProcessed, err = meter.Int64Counter("nexboard.deliveries.processed",
		metric.WithDescription("Number of webhook deliveries processed"))
	if err != nil {
		return nil, err
	}

	m.DeliveriesRejected, err = meter.Int64Counter("nexboard.deliveries.rejected",
		metric.WithDescription("Number of webhook deliveries rejected"))
	if err != nil {
		return nil, err
	}

	m.TasksSynced, err = meter.Int64Counter("nexboard.tasks.synced",
		metric.WithDescription("Number of task updates applied by commit sync"))
	if err != nil {
		return nil, err
	}

	m.RefsSkipped, err = meter.Int64Counter("nexboard.refs.skipped",
		metric.WithDescription("Number of commit references with no matching task"))
	if err != nil {
		return nil, err
	}

	m.SyncDuration, err = meter.Float64Histogram("nexboard.sync.duration_seconds",
		metric.WithDescription("Delivery synchronization duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
