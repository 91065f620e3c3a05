// Package domain contains core concepts of the messaging system.
// This file defines users and the friend-graph sets they own.
// No runtime, network, or storage logic should be added here.
package domain

import (
	"slices"
	"time"
)

type UserID = string

// User is the stored identity. Friends is symmetric across users,
// FriendRequests holds inbound pending invites.
type User struct {
	ID             UserID    `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"passwordHash"`
	ProfilePic     string    `json:"profilePic,omitempty"`
	Friends        []UserID  `json:"friends"`
	FriendRequests []UserID  `json:"friendRequests"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UserSummary is what leaves the service: no credential fields.
type UserSummary struct {
	ID         UserID    `json:"_id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

func (u User) IsFriend(id UserID) bool {
	return slices.Contains(u.Friends, id)
}

func (u User) HasRequestFrom(id UserID) bool {
	return slices.Contains(u.FriendRequests, id)
}

// AddFriend is an idempotent set-add. It also drops a pending request
// from the same counterpart so both sets never hold the same id.
func (u *User) AddFriend(id UserID) {
	u.FriendRequests = remove(u.FriendRequests, id)
	if !u.IsFriend(id) {
		u.Friends = append(u.Friends, id)
	}
}

func (u *User) RemoveFriend(id UserID) {
	u.Friends = remove(u.Friends, id)
}

// AddRequest is an idempotent set-add of an inbound invite.
func (u *User) AddRequest(from UserID) {
	if !u.HasRequestFrom(from) {
		u.FriendRequests = append(u.FriendRequests, from)
	}
}

func (u *User) RemoveRequest(from UserID) {
	u.FriendRequests = remove(u.FriendRequests, from)
}

func remove(ids []UserID, id UserID) []UserID {
	return slices.DeleteFunc(ids, func(v UserID) bool { return v == id })
}
