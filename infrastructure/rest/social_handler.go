package rest

import (
	"context"
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/services"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

type SocialHandler struct {
	service services.ISocialGraphService
	log     *slog.Logger
}

func NewSocialHandler(service services.ISocialGraphService, log *slog.Logger) *SocialHandler {
	return &SocialHandler{service: service, log: log}
}

type inviteRequest struct {
	Email string `json:"email"`
}

type acceptRequest struct {
	UserToAcceptID string `json:"userToAcceptId"`
}

// Invite handles POST /api/messages/invite
func (h *SocialHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var body inviteRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.service.Invite(r.Context(), auth.UserIDFromContext(r.Context()), body.Email); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Invitation sent successfully")
}

// Accept handles POST /api/messages/accept
func (h *SocialHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var body acceptRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	requester := strings.TrimSpace(body.UserToAcceptID)
	if requester == "" {
		writeError(w, r, h.log, fmt.Errorf("%w: userToAcceptId", errors.ErrMissingField))
		return
	}

	if err := h.service.Accept(r.Context(), auth.UserIDFromContext(r.Context()), requester); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeMessage(w, http.StatusOK, "Invitation accepted")
}

// PendingRequests handles GET /api/messages/requests
func (h *SocialHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListPendingRequests)
}

// Friends handles GET /api/messages/friends
func (h *SocialHandler) Friends(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListFriends)
}

// Contacts handles GET /api/messages/contacts
func (h *SocialHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.service.ListContacts)
}

type summaryLister func(ctx context.Context, userID domain.UserID) ([]domain.UserSummary, error)

func (h *SocialHandler) list(w http.ResponseWriter, r *http.Request, fn summaryLister) {
	users, err := fn(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
