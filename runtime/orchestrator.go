// Package runtime owns the live side of the system: who is connected and how
// committed messages reach them. It holds no business rules.
package runtime

import (
	"context"
	"direct-chat/contract"
	"direct-chat/domain"
	"direct-chat/runtime/workers"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"
)

// Dispatcher routes committed messages to delivery workers.
// Events are sharded by receiver so pushes to one user keep their order
// while different receivers are served in parallel.
type Dispatcher struct {
	log            *slog.Logger
	supervisor     contract.ISupervisor
	presence       contract.IPresenceRegistry
	shards         []chan domain.Event
	permanentSinks []contract.EventSink
	sinkTimeout    time.Duration
	stats          *workers.DeliveryStats
}

func NewDispatcher(log *slog.Logger, supervisor contract.ISupervisor, presence contract.IPresenceRegistry,
	numWorkers, bufferSize int, sinkTimeout time.Duration) *Dispatcher {
	if numWorkers < 1 {
		numWorkers = 1
	}
	shards := make([]chan domain.Event, numWorkers)
	for i := range shards {
		shards[i] = make(chan domain.Event, bufferSize)
	}
	return &Dispatcher{
		log:         log,
		supervisor:  supervisor,
		presence:    presence,
		shards:      shards,
		sinkTimeout: sinkTimeout,
		stats:       &workers.DeliveryStats{},
	}
}

// Add registers sinks that receive every event regardless of presence.
// Must be called before Start.
func (d *Dispatcher) Add(sinks ...contract.EventSink) {
	d.permanentSinks = append(d.permanentSinks, sinks...)
}

// OnMessageCreated never blocks. When the shard buffer is full the event
// is dropped, the message itself is already persisted.
func (d *Dispatcher) OnMessageCreated(message domain.Message) {
	evt := domain.NewMessageCreated(message)
	select {
	case d.shards[d.shardFor(message.ReceiverID)] <- evt:
	default:
		d.stats.Dropped.Add(1)
		d.log.Warn("Delivery buffer full, event dropped",
			"message_id", message.ID, "receiver_id", message.ReceiverID)
	}
}

// Start launches one supervised fanout worker per shard and blocks until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	for _, shard := range d.shards {
		d.supervisor.Add(workers.NewEventFanout(d.log, shard, d.presence, d.stats, d.sinkTimeout).
			Add(d.permanentSinks...))
	}
	d.supervisor.Run(ctx)
}

// Queues exposes the shard buffers for sampling.
func (d *Dispatcher) Queues() []workers.NamedChannel {
	queues := make([]workers.NamedChannel, len(d.shards))
	for i, shard := range d.shards {
		queues[i] = workers.NamedChannel{Name: fmt.Sprintf("shard-%d", i), Channel: shard}
	}
	return queues
}

func (d *Dispatcher) Stats() *workers.DeliveryStats {
	return d.stats
}

func (d *Dispatcher) shardFor(receiverID domain.UserID) int {
	if len(d.shards) == 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(receiverID))
	return int(h.Sum32() % uint32(len(d.shards)))
}
