//go:generate go run go.uber.org/mock/mockgen -source=social_graph_service.go -destination=../mocks/mock_social_graph_service.go -package=mocks
package services

import (
	"cmp"
	"context"
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/repositories"
	"fmt"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

type ISocialGraphService interface {
	Invite(ctx context.Context, fromUserID domain.UserID, toEmail string) error
	Accept(ctx context.Context, acceptingUserID, requestingUserID domain.UserID) error
	ListPendingRequests(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error)
	ListFriends(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error)
	ListContacts(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error)
}

// SocialGraphService drives the friend request lifecycle:
// NONE -> PENDING(A->B) on invite by A, PENDING(A->B) -> FRIENDS on accept by B.
type SocialGraphService struct {
	users repositories.IUserRepository
	log   *slog.Logger
}

func NewSocialGraphService(users repositories.IUserRepository, log *slog.Logger) *SocialGraphService {
	return &SocialGraphService{users: users, log: log}
}

// Invite records a pending request from fromUserID on the invitee.
// The checks and the write run inside one read-modify-write of the invitee,
// so two concurrent invites cannot both pass the duplicate check.
func (s *SocialGraphService) Invite(ctx context.Context, fromUserID domain.UserID, toEmail string) error {
	if err := auth.ValidateEmail(toEmail); err != nil {
		return err
	}

	invitee, err := s.users.GetUserByEmail(toEmail)
	if err != nil {
		return err
	}
	if invitee.ID == fromUserID {
		return errors.ErrSelfReference
	}

	_, err = s.users.UpdateUser(invitee.ID, func(user *domain.User) error {
		if user.IsFriend(fromUserID) {
			return errors.ErrAlreadyFriends
		}
		if user.HasRequestFrom(fromUserID) {
			return errors.ErrDuplicateRequest
		}
		user.AddRequest(fromUserID)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Debug("Friend request sent", "from", fromUserID, "to", invitee.ID)
	return nil
}

// Accept turns a pending request into a mutual friendship.
// The two users are separate documents: the accepting side is written first,
// and rolled back if the requester side cannot be written.
func (s *SocialGraphService) Accept(ctx context.Context, acceptingUserID, requestingUserID domain.UserID) error {
	if requestingUserID == "" {
		return fmt.Errorf("%w: userToAcceptId", errors.ErrMissingField)
	}
	if _, err := s.users.GetUser(requestingUserID); err != nil {
		return err
	}

	_, err := s.users.UpdateUser(acceptingUserID, func(user *domain.User) error {
		if !user.HasRequestFrom(requestingUserID) {
			return errors.ErrRequestNotFound
		}
		user.AddFriend(requestingUserID)
		return nil
	})
	if err != nil {
		return err
	}

	_, err = s.users.UpdateUser(requestingUserID, func(user *domain.User) error {
		user.AddFriend(acceptingUserID)
		return nil
	})
	if err == nil {
		s.log.Debug("Friend request accepted", "accepting", acceptingUserID, "requesting", requestingUserID)
		return nil
	}

	_, compensationErr := s.users.UpdateUser(acceptingUserID, func(user *domain.User) error {
		user.RemoveFriend(requestingUserID)
		user.AddRequest(requestingUserID)
		return nil
	})
	if compensationErr != nil {
		s.log.Error("Friendship left asymmetric",
			"accepting", acceptingUserID, "requesting", requestingUserID,
			"error", err, "compensation_error", compensationErr)
		return fmt.Errorf("%w: %v", errors.ErrFriendshipInconsistent, compensationErr)
	}

	s.log.Warn("Accept rolled back", "accepting", acceptingUserID, "requesting", requestingUserID, "error", err)
	return err
}

func (s *SocialGraphService) ListPendingRequests(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return s.summaries(user.FriendRequests)
}

func (s *SocialGraphService) ListFriends(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error) {
	user, err := s.users.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return s.summaries(user.Friends)
}

// ListContacts returns every user except the caller, oldest account first.
func (s *SocialGraphService) ListContacts(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}
	others := lo.Filter(users, func(user domain.User, _ int) bool {
		return user.ID != userID
	})
	slices.SortFunc(others, func(a, b domain.User) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return toSummaries(others), nil
}

func (s *SocialGraphService) summaries(ids []domain.UserID) ([]domain.UserSummary, error) {
	users, err := s.users.GetUsers(ids)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func toSummaries(users []domain.User) []domain.UserSummary {
	return lo.Map(users, func(user domain.User, _ int) domain.UserSummary {
		return user.Summary()
	})
}
