//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	userPrefix  = "user:"
	emailPrefix = "email:"

	maxConflictRetries = 5
)

type IUserRepository interface {
	CreateUser(user domain.User) (domain.User, error)
	GetUser(id domain.UserID) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	GetUsers(ids []domain.UserID) ([]domain.User, error)
	ListUsers() ([]domain.User, error)
	UpdateUser(id domain.UserID, fn func(user *domain.User) error) (domain.User, error)
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) UserRepository {
	return UserRepository{db: db, log: log}
}

// CreateUser persists a new user and reserves its email.
// The email index and the record are written in the same transaction,
// so two concurrent signups with the same email cannot both succeed.
func (u UserRepository) CreateUser(user domain.User) (domain.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = NormalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if user.Friends == nil {
		user.Friends = []domain.UserID{}
	}
	if user.FriendRequests == nil {
		user.FriendRequests = []domain.UserID{}
	}

	err := u.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte(emailPrefix + user.Email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrUserAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(emailKey, []byte(user.ID)); err != nil {
			return err
		}
		return setUser(txn, user)
	})
	if errors.Is(err, badger.ErrConflict) {
		// Another transaction touched the same email concurrently.
		return domain.User{}, errors.ErrUserAlreadyExists
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (u UserRepository) GetUser(id domain.UserID) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, id)
		return err
	})
	return user, err
}

func (u UserRepository) GetUserByEmail(email string) (domain.User, error) {
	var user domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(emailPrefix + NormalizeEmail(email)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		user, err = getUser(txn, string(id))
		return err
	})
	return user, err
}

// GetUsers resolves ids in order inside a single read transaction.
// Ids that no longer resolve are skipped.
func (u UserRepository) GetUsers(ids []domain.UserID) ([]domain.User, error) {
	users := make([]domain.User, 0, len(ids))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			user, err := getUser(txn, id)
			if errors.Is(err, errors.ErrUserNotFound) {
				u.log.Debug("Dangling user reference", "user_id", id)
				continue
			}
			if err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

func (u UserRepository) ListUsers() ([]domain.User, error) {
	var users []domain.User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte(userPrefix)
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var user domain.User
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &user)
			}); err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	return users, err
}

// UpdateUser is a single-document read-modify-write.
// fn runs inside the transaction and may abort it by returning an error,
// which is handed back untouched. Conflicting writers are retried.
func (u UserRepository) UpdateUser(id domain.UserID, fn func(user *domain.User) error) (domain.User, error) {
	var updated domain.User
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		err := u.db.Update(func(txn *badger.Txn) error {
			user, err := getUser(txn, id)
			if err != nil {
				return err
			}
			if err = fn(&user); err != nil {
				return err
			}
			updated = user
			return setUser(txn, user)
		})
		if errors.Is(err, badger.ErrConflict) {
			u.log.Debug("Conflict while updating user, retrying", "user_id", id, "attempt", attempt)
			continue
		}
		return updated, err
	}
	return domain.User{}, fmt.Errorf("%w: too many conflicts on user %s", errors.ErrStorage, id)
}

func getUser(txn *badger.Txn, id domain.UserID) (domain.User, error) {
	var user domain.User
	item, err := txn.Get([]byte(userPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return user, errors.ErrUserNotFound
	}
	if err != nil {
		return user, err
	}
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &user)
	})
	return user, err
}

func setUser(txn *badger.Txn, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set([]byte(userPrefix+user.ID), data)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
