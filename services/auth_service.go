//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/repositories"
	"direct-chat/storage"
	"fmt"
	"log/slog"
	"strings"
)

type IAuthService interface {
	Signup(ctx context.Context, fullName, email, password string) (domain.User, auth.Token, error)
	Login(ctx context.Context, email, password string) (domain.User, auth.Token, error)
	CurrentUser(ctx context.Context, userID domain.UserID) (domain.User, error)
	UpdateProfilePic(ctx context.Context, userID domain.UserID, payload string) (domain.User, error)
}

type AuthService struct {
	userRepository repositories.IUserRepository
	images         storage.IImageStore
	tokens         *auth.TokenManager
	log            *slog.Logger
}

func NewAuthService(repo repositories.IUserRepository, images storage.IImageStore,
	tokens *auth.TokenManager, log *slog.Logger) *AuthService {
	return &AuthService{userRepository: repo, images: images, tokens: tokens, log: log}
}

func (s *AuthService) Signup(ctx context.Context, fullName, email, password string) (domain.User, auth.Token, error) {
	// Validation happens before any expensive hashing
	if err := auth.ValidateSignup(auth.SignupRequest{FullName: fullName, Email: email, Password: password}); err != nil {
		return domain.User{}, "", err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.userRepository.CreateUser(domain.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, []string{"user"})
	if err != nil {
		return domain.User{}, "", err
	}
	s.log.Info("User signed up", "user_id", user.ID)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, auth.Token, error) {
	if err := auth.ValidateLogin(auth.LoginRequest{Email: email, Password: password}); err != nil {
		return domain.User{}, "", err
	}

	user, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			// Same answer as a wrong password, no user enumeration
			return domain.User{}, "", errors.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return domain.User{}, "", errors.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, []string{"user"})
	if err != nil {
		return domain.User{}, "", err
	}
	return user, token, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID domain.UserID) (domain.User, error) {
	return s.userRepository.GetUser(userID)
}

// UpdateProfilePic stores the image first, then points the user at it.
func (s *AuthService) UpdateProfilePic(ctx context.Context, userID domain.UserID, payload string) (domain.User, error) {
	if strings.TrimSpace(payload) == "" {
		return domain.User{}, fmt.Errorf("%w: profilePic", errors.ErrMissingField)
	}

	reference, err := s.images.Save(ctx, payload)
	if err != nil {
		return domain.User{}, err
	}

	return s.userRepository.UpdateUser(userID, func(user *domain.User) error {
		user.ProfilePic = reference
		return nil
	})
}
