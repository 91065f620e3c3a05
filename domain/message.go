// Package domain contains core concepts of the messaging system.
// This file defines direct messages and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"direct-chat/errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable direct message between two users.
type Message struct {
	ID         uuid.UUID `json:"_id"`
	SenderID   UserID    `json:"senderId"`
	ReceiverID UserID    `json:"receiverId"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Draft carries what a sender submits before the message is persisted.
type Draft struct {
	SenderID   UserID
	ReceiverID UserID
	Text       string
	Image      string
}

// Validate checks the invariants every persisted message holds.
func (d Draft) Validate() error {
	if d.SenderID == "" || d.ReceiverID == "" {
		return errors.ErrMissingField
	}
	if strings.TrimSpace(d.Text) == "" && d.Image == "" {
		return errors.ErrInvalidMessage
	}
	if d.SenderID == d.ReceiverID {
		return errors.ErrSelfMessage
	}
	return nil
}

// Partner returns the participant of the message that is not userID.
func (m Message) Partner(userID UserID) UserID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

func (m Message) Involves(userID UserID) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}
