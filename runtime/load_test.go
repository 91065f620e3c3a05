package runtime_test

import (
	"context"
	"direct-chat/domain"
	"direct-chat/runtime"
	"direct-chat/runtime/workers"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type countingConnection struct {
	received atomic.Uint64
}

func (c *countingConnection) Consume(ctx context.Context, e domain.Event) error {
	c.received.Add(1)
	return nil
}

func (c *countingConnection) Close() error { return nil }

func TestDispatcher_LoadTest(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log := slog.New(slog.DiscardHandler)
	registry := runtime.NewRegistry()

	numClients := 100
	messagesPerClient := 200
	connections := make([]*countingConnection, numClients)
	for i := range connections {
		connections[i] = &countingConnection{}
		registry.Connect(fmt.Sprintf("user-%d", i), connections[i])
	}

	dispatcher := runtime.NewDispatcher(log, workers.NewSupervisor(log), registry, 4, 1000, 100*time.Millisecond)
	go dispatcher.Start(ctx)

	// Every client sends to its neighbour
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(clientID int) {
			defer wg.Done()
			for j := 0; j < messagesPerClient; j++ {
				dispatcher.OnMessageCreated(domain.Message{
					ID:         uuid.New(),
					SenderID:   fmt.Sprintf("user-%d", clientID),
					ReceiverID: fmt.Sprintf("user-%d", (clientID+1)%numClients),
					Text:       "load test message",
					CreatedAt:  time.Now().UTC(),
				})
			}
		}(i)
	}
	wg.Wait()

	total := uint64(numClients * messagesPerClient)
	stats := dispatcher.Stats()
	req.Eventually(func() bool {
		return stats.Delivered.Load()+stats.Dropped.Load() == total
	}, 10*time.Second, 10*time.Millisecond)

	var received uint64
	for _, c := range connections {
		received += c.received.Load()
	}
	req.Equal(stats.Delivered.Load(), received)

	duration := time.Since(start)
	t.Logf("delivered=%d dropped=%d in %v (%.0f msg/sec)",
		stats.Delivered.Load(), stats.Dropped.Load(), duration, float64(total)/duration.Seconds())
}
