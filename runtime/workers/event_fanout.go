package workers

import (
	"context"
	"direct-chat/contract"
	"direct-chat/domain"
	"log/slog"
	"sync/atomic"
	"time"
)

// DeliveryStats counts push outcomes since startup.
type DeliveryStats struct {
	Delivered atomic.Uint64
	Failed    atomic.Uint64
	Offline   atomic.Uint64
	Dropped   atomic.Uint64
}

// EventFanout pushes each event to the receiver's live connection, if any,
// and to every permanent sink.
//
// Delivery is best effort: no retry, no durability. A failing or slow sink
// is bounded by sinkTimeout and never affects the others.
type EventFanout struct {
	log         *slog.Logger
	events      <-chan domain.Event
	presence    contract.IPresenceRegistry
	stats       *DeliveryStats
	sinkTimeout time.Duration
	sinks       []contract.EventSink
}

func NewEventFanout(log *slog.Logger, events <-chan domain.Event, presence contract.IPresenceRegistry,
	stats *DeliveryStats, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{log: log, events: events, presence: presence, stats: stats, sinkTimeout: sinkTimeout}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel closed")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping fanout")
			return nil
		}
	}
}

func (w *EventFanout) Fanout(ctx context.Context, evt domain.Event) {
	for _, sink := range w.sinks {
		if err := w.consume(ctx, sink, evt); err != nil {
			w.log.Warn("Sink failed", "sink", sinkName(sink), "error", err)
		}
	}

	created, ok := evt.Payload.(domain.MessageCreated)
	if !ok {
		return
	}
	receiverID := created.Message.ReceiverID
	conn, online := w.presence.Lookup(receiverID)
	if !online {
		w.stats.Offline.Add(1)
		w.log.Debug("Receiver offline, push skipped", "receiver_id", receiverID)
		return
	}
	if err := w.consume(ctx, conn, evt); err != nil {
		w.stats.Failed.Add(1)
		w.log.Warn("Push failed", "receiver_id", receiverID, "message_id", created.Message.ID, "error", err)
		return
	}
	w.stats.Delivered.Add(1)
}

func (w *EventFanout) consume(ctx context.Context, sink contract.EventSink, evt domain.Event) error {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	return sink.Consume(sinkCtx, evt)
}

func sinkName(sink contract.EventSink) string {
	if named, ok := sink.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "anonymous"
}
