package rest

import (
	"direct-chat/auth"
	"direct-chat/services"
	"log/slog"
	"net/http"
	"time"
)

type AuthHandler struct {
	service      services.IAuthService
	tokens       *auth.TokenManager
	secureCookie bool
	log          *slog.Logger
}

func NewAuthHandler(service services.IAuthService, tokens *auth.TokenManager, secureCookie bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, secureCookie: secureCookie, log: log}
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body signupRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, token, err := h.service.Signup(r.Context(), body.FullName, body.Email, body.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.setSessionCookie(w, token.String(), h.tokens.Duration())
	writeJSON(w, http.StatusCreated, user.Summary())
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, token, err := h.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.setSessionCookie(w, token.String(), h.tokens.Duration())
	writeJSON(w, http.StatusOK, user.Summary())
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.setSessionCookie(w, "", 0)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Check handles GET /api/auth/check
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Summary())
}

// UpdateProfile handles PUT /api/auth/update-profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body updateProfileRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	user, err := h.service.UpdateProfilePic(r.Context(), auth.UserIDFromContext(r.Context()), body.ProfilePic)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Summary())
}

// setSessionCookie writes the jwt cookie. A zero lifetime expires it.
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, lifetime time.Duration) {
	maxAge := int(lifetime.Seconds())
	if lifetime <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
