//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	conversationPrefix = "conv:"
	inboxPrefix        = "inbox:"
)

var errStopIteration = errors.New("iteration stopped by consumer")

type IMessageRepository interface {
	StoreMessage(draft domain.Draft) (domain.Message, error)
	Conversation(userA, userB domain.UserID) iter.Seq2[domain.Message, error]
	GetMessages(userA, userB domain.UserID) ([]domain.Message, error)
	ChatPartners(userID domain.UserID) ([]domain.UserID, error)
}

type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	clock *monotonicClock
}

// NewMessageRepository starts the clock after the newest stored message so
// timestamps keep increasing across restarts, even if the wall clock went back.
func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	clock := &monotonicClock{now: time.Now}
	last, err := latestTimestamp(db)
	if err != nil {
		log.Error("Unable to read the latest message timestamp", "error", err)
	}
	clock.last = last
	return MessageRepository{db: db, log: log, clock: clock}
}

// StoreMessage assigns the identity and the timestamp of the message, then writes
// the conversation entry and one inbox entry per participant atomically.
func (m MessageRepository) StoreMessage(draft domain.Draft) (domain.Message, error) {
	message := domain.Message{
		ID:         uuid.New(),
		SenderID:   draft.SenderID,
		ReceiverID: draft.ReceiverID,
		Text:       draft.Text,
		Image:      draft.Image,
		CreatedAt:  m.clock.Next(),
	}

	data, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(conversationKey(message), data); err != nil {
			return err
		}
		if err := txn.Set(inboxKey(message.SenderID, message), []byte(message.ReceiverID)); err != nil {
			return err
		}
		return txn.Set(inboxKey(message.ReceiverID, message), []byte(message.SenderID))
	})
	if err != nil {
		return domain.Message{}, err
	}

	m.log.Debug("Message stored", "message_id", message.ID, "sender_id", message.SenderID)
	return message, nil
}

// Conversation streams every message exchanged between the two users, oldest first.
// Each range opens its own read transaction so the sequence can be iterated again.
func (m MessageRepository) Conversation(userA, userB domain.UserID) iter.Seq2[domain.Message, error] {
	return func(yield func(domain.Message, error) bool) {
		prefix := []byte(conversationPrefixFor(userA, userB))
		err := m.db.View(func(txn *badger.Txn) error {
			options := badger.DefaultIteratorOptions
			options.Prefix = prefix
			it := txn.NewIterator(options)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				var message domain.Message
				if err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &message)
				}); err != nil {
					return err
				}
				if !yield(message, nil) {
					return errStopIteration
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIteration) {
			yield(domain.Message{}, err)
		}
	}
}

func (m MessageRepository) GetMessages(userA, userB domain.UserID) ([]domain.Message, error) {
	messages := []domain.Message{}
	for message, err := range m.Conversation(userA, userB) {
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// ChatPartners lists every user that exchanged at least one message with userID,
// each id once, in order of the first exchange.
func (m MessageRepository) ChatPartners(userID domain.UserID) ([]domain.UserID, error) {
	var partners []domain.UserID
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(inboxPrefix + userID + ":")
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			partner, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			partners = append(partners, string(partner))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.Uniq(partners), nil
}

// The pair is ordered so both participants share the same prefix.
func conversationPrefixFor(userA, userB domain.UserID) string {
	low, high := userA, userB
	if high < low {
		low, high = high, low
	}
	return fmt.Sprintf("%s%s:%s:", conversationPrefix, low, high)
}

func conversationKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s",
		conversationPrefixFor(message.SenderID, message.ReceiverID),
		message.CreatedAt.UnixNano(),
		message.ID))
}

// latestTimestamp scans conversation keys only, values are never loaded.
func latestTimestamp(db *badger.DB) (time.Time, error) {
	var latest int64
	err := db.View(func(txn *badger.Txn) error {
		prefix := []byte(conversationPrefix)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			nanos, err := keyTimestamp(it.Item().Key())
			if err != nil {
				return err
			}
			latest = max(latest, nanos)
		}
		return nil
	})
	if err != nil || latest == 0 {
		return time.Time{}, err
	}
	return time.Unix(0, latest).UTC(), nil
}

// keyTimestamp reads the nanos segment of conv:{low}:{high}:{nanos}:{id}.
func keyTimestamp(key []byte) (int64, error) {
	parts := strings.Split(string(key), ":")
	if len(parts) < 5 {
		return 0, fmt.Errorf("malformed conversation key %q", key)
	}
	nanos, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed conversation key %q: %w", key, err)
	}
	return nanos, nil
}

func inboxKey(owner domain.UserID, message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s", inboxPrefix, owner, message.CreatedAt.UnixNano(), message.ID))
}

// monotonicClock never returns the same instant twice, even when the wall clock
// stalls or steps backwards.
type monotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func (c *monotonicClock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Nanosecond)
	}
	c.last = t
	return t
}
