package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUser_AddFriendClearsPendingRequest(t *testing.T) {
	req := require.New(t)

	// Given bob holds a pending request from alice
	bob := User{ID: "bob"}
	bob.AddRequest("alice")
	bob.AddRequest("alice")
	req.Equal([]UserID{"alice"}, bob.FriendRequests)

	// When alice becomes a friend
	bob.AddFriend("alice")
	bob.AddFriend("alice")

	// Then the id lives in exactly one set
	req.True(bob.IsFriend("alice"))
	req.False(bob.HasRequestFrom("alice"))
	req.Equal([]UserID{"alice"}, bob.Friends)
	req.Empty(bob.FriendRequests)
}

func TestUser_RemoveIsNoOpWhenAbsent(t *testing.T) {
	req := require.New(t)
	u := User{ID: "u", Friends: []UserID{"a", "b"}, FriendRequests: []UserID{"c"}}

	u.RemoveFriend("z")
	u.RemoveRequest("z")
	req.Equal([]UserID{"a", "b"}, u.Friends)
	req.Equal([]UserID{"c"}, u.FriendRequests)

	u.RemoveFriend("a")
	u.RemoveRequest("c")
	req.Equal([]UserID{"b"}, u.Friends)
	req.Empty(u.FriendRequests)
}

func TestUser_SummaryDropsCredentials(t *testing.T) {
	req := require.New(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	u := User{ID: "u", FullName: "Ursula", Email: "u@example.com", PasswordHash: "hash",
		ProfilePic: "/images/u.png", Friends: []UserID{"a"}, CreatedAt: created}

	req.Equal(UserSummary{ID: "u", FullName: "Ursula", Email: "u@example.com",
		ProfilePic: "/images/u.png", CreatedAt: created}, u.Summary())
}
