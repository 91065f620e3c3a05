package workers

import (
	"context"
	"direct-chat/domain"
	"direct-chat/mocks"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newEvent() domain.Event {
	return domain.NewMessageCreated(domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Text: "hi"})
}

func TestEventFanout_Pushes_To_Receiver_And_Sinks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	presence := mocks.NewMockIPresenceRegistry(ctrl)
	conn := mocks.NewMockConnection(ctrl)
	sink := mocks.NewMockEventSink(ctrl)
	stats := &DeliveryStats{}

	evt := newEvent()
	// Given Bob is online and one permanent sink is registered
	presence.EXPECT().Lookup("bob").Return(conn, true).Times(1)
	sink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	conn.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	// When the event is fanned out
	NewEventFanout(log, nil, presence, stats, time.Second).Add(sink).Fanout(context.Background(), evt)

	// Then both received it
	req.Equal(uint64(1), stats.Delivered.Load())
	req.Zero(stats.Failed.Load())
}

func TestEventFanout_Receiver_Offline(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	presence := mocks.NewMockIPresenceRegistry(ctrl)
	stats := &DeliveryStats{}

	presence.EXPECT().Lookup("bob").Return(nil, false).Times(1)

	NewEventFanout(log, nil, presence, stats, time.Second).Fanout(context.Background(), newEvent())

	req.Equal(uint64(1), stats.Offline.Load())
	req.Zero(stats.Delivered.Load())
}

func TestEventFanout_Failing_Sink_Does_Not_Stop_Push(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	presence := mocks.NewMockIPresenceRegistry(ctrl)
	conn := mocks.NewMockConnection(ctrl)
	sink := mocks.NewMockEventSink(ctrl)
	stats := &DeliveryStats{}

	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(fmt.Errorf("index unavailable")).Times(1)
	presence.EXPECT().Lookup("bob").Return(conn, true).Times(1)
	conn.EXPECT().Consume(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	NewEventFanout(log, nil, presence, stats, time.Second).Add(sink).Fanout(context.Background(), newEvent())

	req.Equal(uint64(1), stats.Delivered.Load())
}

func TestEventFanout_Push_Timeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	presence := mocks.NewMockIPresenceRegistry(ctrl)
	conn := mocks.NewMockConnection(ctrl)
	stats := &DeliveryStats{}

	// Given a connection that only returns once its context expires
	presence.EXPECT().Lookup("bob").Return(conn, true).Times(1)
	conn.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e domain.Event) error {
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)

	start := time.Now()
	NewEventFanout(log, nil, presence, stats, 50*time.Millisecond).Fanout(context.Background(), newEvent())

	// Then the push is abandoned after the timeout and recorded as failed
	req.Less(time.Since(start), time.Second)
	req.Equal(uint64(1), stats.Failed.Load())
}

func TestEventFanout_Run_Stops_On_Context(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	events := make(chan domain.Event)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- NewEventFanout(log, events, nil, &DeliveryStats{}, time.Second).Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("fanout did not stop")
	}
}
