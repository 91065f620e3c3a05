//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"context"
	"direct-chat/domain"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	idField       = "_id"
	textField     = "text"
	senderField   = "sender"
	receiverField = "receiver"
	imageField    = "image"
	createdField  = "created_at"
	langField     = "lang"
)

type IMessageIndex interface {
	Index(message domain.Message, lang string) error
	Search(ctx context.Context, userID domain.UserID, query string, limit int) ([]domain.Message, error)
}

// MessageIndex keeps a full-text copy of every message in bluge.
// Documents carry every message field as stored values so results need no
// round trip to badger.
type MessageIndex struct {
	writer       *bluge.Writer
	log          *slog.Logger
	defaultLimit int
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger, defaultLimit int) MessageIndex {
	return MessageIndex{writer: writer, log: log, defaultLimit: defaultLimit}
}

func (m MessageIndex) Index(message domain.Message, lang string) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField(textField, message.Text).StoreValue()).
		AddField(bluge.NewKeywordField(senderField, message.SenderID).StoreValue()).
		AddField(bluge.NewKeywordField(receiverField, message.ReceiverID).StoreValue()).
		AddField(bluge.NewKeywordField(imageField, message.Image).StoreValue()).
		AddField(bluge.NewKeywordField(createdField, message.CreatedAt.Format(time.RFC3339Nano)).StoreValue()).
		AddField(bluge.NewKeywordField(langField, lang).StoreValue())

	if err := m.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", message.ID, err)
	}
	return nil
}

// Search matches query against the text of messages the user sent or received.
// Results come by relevance. A blank query returns nothing.
func (m MessageIndex) Search(ctx context.Context, userID domain.UserID, query string, limit int) ([]domain.Message, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Message{}, nil
	}
	if limit <= 0 {
		limit = m.defaultLimit
	}

	reader, err := m.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.log.Warn("Unable to close index reader", "error", err)
		}
	}()

	participant := bluge.NewBooleanQuery().
		AddShould(bluge.NewTermQuery(userID).SetField(senderField)).
		AddShould(bluge.NewTermQuery(userID).SetField(receiverField)).
		SetMinShould(1)
	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField(textField)).
		AddMust(participant)

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}

	messages := []domain.Message{}
	match, err := matches.Next()
	for err == nil && match != nil {
		var message domain.Message
		var decodeErr error
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			decodeErr = decodeField(&message, field, value)
			return decodeErr == nil
		})
		if err != nil {
			return nil, err
		}
		if decodeErr != nil {
			return nil, decodeErr
		}
		messages = append(messages, message)
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}
	return messages, nil
}

func decodeField(message *domain.Message, field string, value []byte) error {
	switch field {
	case idField:
		id, err := uuid.ParseBytes(value)
		if err != nil {
			return fmt.Errorf("invalid indexed id %q: %w", value, err)
		}
		message.ID = id
	case textField:
		message.Text = string(value)
	case senderField:
		message.SenderID = string(value)
	case receiverField:
		message.ReceiverID = string(value)
	case imageField:
		message.Image = string(value)
	case createdField:
		createdAt, err := time.Parse(time.RFC3339Nano, string(value))
		if err != nil {
			return fmt.Errorf("invalid indexed timestamp %q: %w", value, err)
		}
		message.CreatedAt = createdAt
	}
	return nil
}
