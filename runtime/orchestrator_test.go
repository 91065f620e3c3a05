package runtime

import (
	"context"
	"direct-chat/domain"
	"direct-chat/runtime/workers"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type recordingConnection struct {
	mu       sync.Mutex
	received []domain.Event
	notify   chan struct{}
}

func newRecordingConnection() *recordingConnection {
	return &recordingConnection{notify: make(chan struct{}, 16)}
}

func (c *recordingConnection) Consume(ctx context.Context, e domain.Event) error {
	c.mu.Lock()
	c.received = append(c.received, e)
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *recordingConnection) Close() error { return nil }

func (c *recordingConnection) events() []domain.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Event(nil), c.received...)
}

func TestDispatcher_Pushes_To_Online_Receiver(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	bob := newRecordingConnection()
	registry.Connect("bob", bob)

	dispatcher := NewDispatcher(log, workers.NewSupervisor(log), registry, 2, 10, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)

	// When a message for Bob is committed
	message := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Text: "hi"}
	dispatcher.OnMessageCreated(message)

	// Then Bob receives a newMessage event carrying it
	select {
	case <-bob.notify:
	case <-time.After(time.Second):
		req.Fail("push never reached the receiver")
	}
	received := bob.events()
	req.Len(received, 1)
	req.Equal(domain.NewMessageType, received[0].Type)
	req.Equal(message, received[0].Payload.(domain.MessageCreated).Message)
	req.Eventually(func() bool { return dispatcher.Stats().Delivered.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestDispatcher_Preserves_Order_Per_Receiver(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	registry := NewRegistry()
	bob := newRecordingConnection()
	registry.Connect("bob", bob)

	dispatcher := NewDispatcher(log, workers.NewSupervisor(log), registry, 4, 16, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)

	var sent []uuid.UUID
	for range 5 {
		message := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Text: "ping"}
		sent = append(sent, message.ID)
		dispatcher.OnMessageCreated(message)
	}

	for range 5 {
		select {
		case <-bob.notify:
		case <-time.After(time.Second):
			req.FailNow("missing push")
		}
	}
	var got []uuid.UUID
	for _, evt := range bob.events() {
		got = append(got, evt.Payload.(domain.MessageCreated).Message.ID)
	}
	req.Equal(sent, got)
}

func TestDispatcher_Drops_When_Buffer_Is_Full(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelInfo)

	// Given a dispatcher whose workers never started
	dispatcher := NewDispatcher(log, workers.NewSupervisor(log), NewRegistry(), 1, 1, time.Second)

	// When more events arrive than the buffer holds
	done := make(chan struct{})
	go func() {
		for range 3 {
			dispatcher.OnMessageCreated(domain.Message{ID: uuid.New(), SenderID: "a", ReceiverID: "b"})
		}
		close(done)
	}()

	// Then the caller is never blocked and the overflow is counted
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("OnMessageCreated blocked")
	}
	req.Equal(uint64(2), dispatcher.Stats().Dropped.Load())
}

func TestDispatcher_Feeds_Permanent_Sinks_Even_When_Offline(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	sink := newRecordingConnection()

	dispatcher := NewDispatcher(log, workers.NewSupervisor(log), NewRegistry(), 1, 4, time.Second)
	dispatcher.Add(sink)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dispatcher.Start(ctx)

	dispatcher.OnMessageCreated(domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob"})

	select {
	case <-sink.notify:
	case <-time.After(time.Second):
		req.Fail("permanent sink never consumed the event")
	}
	req.Eventually(func() bool { return dispatcher.Stats().Offline.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestDispatcher_Queues_Reflect_Pending_Events(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	dispatcher := NewDispatcher(log, workers.NewSupervisor(log), NewRegistry(), 3, 5, time.Second)

	// Given one queued message and no running worker
	dispatcher.OnMessageCreated(domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Text: "hi"})

	// Then exactly one shard holds it
	queues := dispatcher.Queues()
	req.Len(queues, 3)
	total := 0
	for i, q := range queues {
		req.Equal(fmt.Sprintf("shard-%d", i), q.Name)
		req.Equal(5, cap(q.Channel))
		total += len(q.Channel)
	}
	req.Equal(1, total)
}
