package repositories

import (
	"direct-chat/domain"
	"direct-chat/errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_And_Get_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	// Given a new user with a mixed case email
	created, err := repository.CreateUser(domain.User{
		FullName:     "Alice Liddell",
		Email:        " Alice@Example.com ",
		PasswordHash: "hash",
	})
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal("alice@example.com", created.Email)
	req.NotNil(created.Friends)
	req.NotNil(created.FriendRequests)

	// When fetching by id and by email
	byID, err := repository.GetUser(created.ID)
	req.NoError(err)
	byEmail, err := repository.GetUserByEmail("ALICE@example.com")
	req.NoError(err)

	// Then the same record comes back
	req.Equal(created.ID, byID.ID)
	req.Equal(created.ID, byEmail.ID)
	req.Equal("Alice Liddell", byEmail.FullName)
}

func Test_Create_User_Rejects_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	_, err := repository.CreateUser(domain.User{FullName: "Alice", Email: "alice@example.com"})
	req.NoError(err)

	_, err = repository.CreateUser(domain.User{FullName: "Impostor", Email: "ALICE@example.com"})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	users, err := repository.ListUsers()
	req.NoError(err)
	req.Len(users, 1)
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	_, err := repository.GetUser("missing")
	req.ErrorIs(err, errors.ErrUserNotFound)
	_, err = repository.GetUserByEmail("nobody@example.com")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func Test_Get_Users_Skips_Missing_And_Keeps_Order(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	bob, err := repository.CreateUser(domain.User{FullName: "Bob", Email: "bob@example.com"})
	req.NoError(err)
	alice, err := repository.CreateUser(domain.User{FullName: "Alice", Email: "alice@example.com"})
	req.NoError(err)

	users, err := repository.GetUsers([]domain.UserID{alice.ID, "ghost", bob.ID})
	req.NoError(err)
	req.Len(users, 2)
	req.Equal(alice.ID, users[0].ID)
	req.Equal(bob.ID, users[1].ID)
}

func Test_Update_User_Aborts_On_Closure_Error(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	alice, err := repository.CreateUser(domain.User{FullName: "Alice", Email: "alice@example.com"})
	req.NoError(err)

	// When the closure mutates then fails
	_, err = repository.UpdateUser(alice.ID, func(user *domain.User) error {
		user.AddRequest("bob")
		return errors.ErrDuplicateRequest
	})

	// Then the error is returned untouched and nothing is persisted
	req.ErrorIs(err, errors.ErrDuplicateRequest)
	stored, err := repository.GetUser(alice.ID)
	req.NoError(err)
	req.Empty(stored.FriendRequests)
}

func Test_Update_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	_, err := repository.UpdateUser("missing", func(user *domain.User) error { return nil })
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func Test_Concurrent_Updates_Are_Not_Lost(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openDB(t), slog.Default())

	alice, err := repository.CreateUser(domain.User{FullName: "Alice", Email: "alice@example.com"})
	req.NoError(err)

	// Given several writers adding distinct requests at once
	const writers = 4
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repository.UpdateUser(alice.ID, func(user *domain.User) error {
				user.AddRequest(fmt.Sprintf("user-%d", i))
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Then every write that succeeded is visible
	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}
	stored, err := repository.GetUser(alice.ID)
	req.NoError(err)
	req.Len(stored.FriendRequests, succeeded)
}
