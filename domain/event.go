package domain

import "time"

type EventType string

const (
	// NewMessageType is the name clients receive on the live channel.
	NewMessageType EventType = "newMessage"
)

// Event is what flows from the message service to the delivery pipeline.
type Event struct {
	Type      EventType
	CreatedAt time.Time
	Payload   any
}

// MessageCreated is emitted once a message is durably stored.
type MessageCreated struct {
	Message Message
}

func NewMessageCreated(m Message) Event {
	return Event{
		Type:      NewMessageType,
		CreatedAt: time.Now().UTC(),
		Payload:   MessageCreated{Message: m},
	}
}
