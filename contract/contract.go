//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"direct-chat/domain"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink consumes events produced after a write has been committed.
type EventSink interface {
	Consume(ctx context.Context, e domain.Event) error
}

// Connection is a live, per-user channel able to receive pushed events.
// Close releases the underlying transport.
type Connection interface {
	EventSink
	Close() error
}

// IPresenceRegistry maps a logged-in user to zero or one live connection.
type IPresenceRegistry interface {
	Connect(userID domain.UserID, conn Connection) (replaced Connection)
	Disconnect(userID domain.UserID, conn Connection) bool
	Lookup(userID domain.UserID) (Connection, bool)
	Count() int
}

// IDispatcher hands committed messages to the delivery pipeline.
// Implementations must never block the caller.
type IDispatcher interface {
	OnMessageCreated(message domain.Message)
}
