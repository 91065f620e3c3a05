package rest

import (
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/services"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	service services.IMessageService
	log     *slog.Logger
}

func NewMessageHandler(service services.IMessageService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{service: service, log: log}
}

type sendRequest struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// ChatPartners handles GET /api/messages/chats
func (h *MessageHandler) ChatPartners(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ChatPartners(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(users))
}

// Conversation handles GET /api/messages/{otherUserId}
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	other := chi.URLParam(r, "otherUserId")
	messages, err := h.service.Conversation(r.Context(), auth.UserIDFromContext(r.Context()), other)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(messages))
}

// Search handles GET /api/messages/search?q=
func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.Search(r.Context(), auth.UserIDFromContext(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(messages))
}

// Send handles POST /api/messages/send/{receiverId}
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var body sendRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	message, err := h.service.Send(r.Context(), domain.Draft{
		SenderID:   auth.UserIDFromContext(r.Context()),
		ReceiverID: chi.URLParam(r, "receiverId"),
		Text:       body.Text,
		Image:      body.Image,
	})
	if err != nil {
		// An unknown receiver is a bad request on this endpoint
		if errors.Is(err, errors.ErrUserNotFound) {
			writeMessage(w, http.StatusBadRequest, errors.ErrUserNotFound.Error())
			return
		}
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}
