package workers

import (
	"context"
	"direct-chat/domain"
	"direct-chat/observability"
	"log/slog"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel chan domain.Event
}

// ChannelCapacityWorker periodically reports the length of the delivery queues.
// Reading len and cap is non-blocking, so this won't interfere with the fanout workers.
type ChannelCapacityWorker struct {
	log              *slog.Logger
	channels         []NamedChannel
	metrics          *observability.Metrics
	metricInterval   time.Duration
	warnThresholdPct int
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel, metrics *observability.Metrics,
	metricInterval time.Duration, warnThresholdPct int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:              log,
		channels:         channels,
		metrics:          metrics,
		metricInterval:   metricInterval,
		warnThresholdPct: warnThresholdPct,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping queue sampling")
			return nil
		case <-ticker.C:
			w.Sample()
		}
	}
}

// Sample records every queue once.
func (w *ChannelCapacityWorker) Sample() {
	for _, nc := range w.channels {
		length, capacity := len(nc.Channel), cap(nc.Channel)
		w.metrics.ObserveQueue(nc.Name, length, capacity)
		if capacity > 0 && w.warnThresholdPct > 0 && length*100 >= capacity*w.warnThresholdPct {
			w.log.Warn("Delivery queue is filling up", "queue", nc.Name, "length", length, "capacity", capacity)
		}
	}
}
