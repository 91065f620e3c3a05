//go:generate go run go.uber.org/mock/mockgen -source=message_service.go -destination=../mocks/mock_message_service.go -package=mocks
package services

import (
	"context"
	"direct-chat/contract"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/moderation"
	"direct-chat/repositories"
	"direct-chat/storage"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

type IMessageService interface {
	Send(ctx context.Context, draft domain.Draft) (domain.Message, error)
	Conversation(ctx context.Context, userID, otherUserID domain.UserID) ([]domain.Message, error)
	ChatPartners(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error)
	Search(ctx context.Context, userID domain.UserID, query string) ([]domain.Message, error)
}

type ITextModerator interface {
	Review(text string) moderation.Verdict
}

type MessageService struct {
	users         repositories.IUserRepository
	messages      repositories.IMessageRepository
	index         repositories.IMessageIndex
	images        storage.IImageStore
	dispatcher    contract.IDispatcher
	moderator     ITextModerator
	maxTextLength int
	log           *slog.Logger
}

func NewMessageService(users repositories.IUserRepository, messages repositories.IMessageRepository,
	index repositories.IMessageIndex, images storage.IImageStore, dispatcher contract.IDispatcher,
	log *slog.Logger, maxTextLength int) *MessageService {
	return &MessageService{
		users:         users,
		messages:      messages,
		index:         index,
		images:        images,
		dispatcher:    dispatcher,
		maxTextLength: maxTextLength,
		log:           log,
	}
}

// WithModerator masks censored words before messages are persisted.
func (s *MessageService) WithModerator(moderator ITextModerator) *MessageService {
	s.moderator = moderator
	return s
}

// Send validates, stores, indexes and hands the message to live delivery.
// Once stored, the message is returned whatever happens to indexing or delivery.
func (s *MessageService) Send(ctx context.Context, draft domain.Draft) (domain.Message, error) {
	if err := draft.Validate(); err != nil {
		return domain.Message{}, err
	}
	if s.maxTextLength > 0 && utf8.RuneCountInString(draft.Text) > s.maxTextLength {
		return domain.Message{}, fmt.Errorf("%w: at most %d characters", errors.ErrTextTooLong, s.maxTextLength)
	}
	if _, err := s.users.GetUser(draft.ReceiverID); err != nil {
		return domain.Message{}, err
	}

	if draft.Image != "" {
		reference, err := s.images.Save(ctx, draft.Image)
		if err != nil {
			return domain.Message{}, err
		}
		draft.Image = reference
	}
	if s.moderator != nil && draft.Text != "" {
		draft.Text = s.moderator.Review(draft.Text).Text
	}

	message, err := s.messages.StoreMessage(draft)
	if err != nil {
		s.discardImage(ctx, draft.Image)
		return domain.Message{}, err
	}
	s.indexMessage(message)
	s.dispatcher.OnMessageCreated(message)
	return message, nil
}

func (s *MessageService) indexMessage(message domain.Message) {
	if message.Text == "" {
		return
	}
	lang := moderation.DetectLanguage(message.Text)
	if err := s.index.Index(message, lang); err != nil {
		s.log.Error("Unable to index message", "message_id", message.ID, "error", err)
		return
	}
	s.log.Debug("Message indexed", "message_id", message.ID, "lang", lang)
}

// discardImage removes an image saved for a message that was never stored.
func (s *MessageService) discardImage(ctx context.Context, reference string) {
	if reference == "" {
		return
	}
	if err := s.images.Delete(ctx, reference); err != nil {
		s.log.Warn("Unable to remove orphan image", "reference", reference, "error", err)
	}
}

func (s *MessageService) Conversation(ctx context.Context, userID, otherUserID domain.UserID) ([]domain.Message, error) {
	return s.messages.GetMessages(userID, otherUserID)
}

func (s *MessageService) ChatPartners(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error) {
	partnerIDs, err := s.messages.ChatPartners(userID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.GetUsers(partnerIDs)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func (s *MessageService) Search(ctx context.Context, userID domain.UserID, query string) ([]domain.Message, error) {
	return s.index.Search(ctx, userID, query, 0)
}
