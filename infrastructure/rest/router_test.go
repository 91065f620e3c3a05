package rest

import (
	"direct-chat/auth"
	"direct-chat/domain"
	"direct-chat/errors"
	"direct-chat/mocks"
	"direct-chat/observability"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	authService *mocks.MockIAuthService
	social      *mocks.MockISocialGraphService
	messages    *mocks.MockIMessageService
	presence    *mocks.MockIPresenceRegistry
	tokens      *auth.TokenManager
	metrics     *observability.Metrics
	handler     http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		authService: mocks.NewMockIAuthService(ctrl),
		social:      mocks.NewMockISocialGraphService(ctrl),
		messages:    mocks.NewMockIMessageService(ctrl),
		presence:    mocks.NewMockIPresenceRegistry(ctrl),
		tokens:      auth.NewTokenManager("test-secret", time.Hour),
		metrics:     observability.NewMetrics(),
	}
	f.handler = NewRouter(Dependencies{
		Auth:           f.authService,
		Social:         f.social,
		Messages:       f.messages,
		Presence:       f.presence,
		Tokens:         f.tokens,
		Metrics:        f.metrics,
		ImageDir:       t.TempDir(),
		AllowedOrigins: []string{"http://localhost:5173"},
	}, slog.Default()).Setup()
	return f
}

// do sends a request, authenticated as userID when it is not empty.
func (f *fixture) do(t *testing.T, method, path, body string, userID domain.UserID) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := f.tokens.GenerateToken(userID, []string{"user"})
		require.NoError(t, err)
		r.Header.Set("Authorization", "Bearer "+token.String())
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, r)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestRouter_Health(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", "")

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "healthy")
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)
	paths := []string{"/api/auth/check", "/api/messages/requests", "/api/messages/chats", "/api/messages/bob", "/ws"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, path, "", "")
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	user := domain.User{ID: "alice", FullName: "Alice", Email: "alice@example.com", PasswordHash: "secret-hash"}

	// Given the service creates the user
	f.authService.EXPECT().Signup(gomock.Any(), "Alice", "alice@example.com", "hunter22").
		Return(user, auth.Token("signed"), nil)

	// When signing up
	rec := f.do(t, http.MethodPost, "/api/auth/signup",
		`{"fullName":"Alice","email":"alice@example.com","password":"hunter22"}`, "")

	// Then the summary is returned without credentials and the session cookie is set
	req.Equal(http.StatusCreated, rec.Code)
	req.NotContains(rec.Body.String(), "secret-hash")
	var summary domain.UserSummary
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &summary))
	req.Equal("alice", summary.ID)

	cookies := rec.Result().Cookies()
	req.Len(cookies, 1)
	req.Equal(auth.CookieName, cookies[0].Name)
	req.Equal("signed", cookies[0].Value)
	req.True(cookies[0].HttpOnly)
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.authService.EXPECT().Login(gomock.Any(), "alice@example.com", "wrong").
		Return(domain.User{}, auth.Token(""), errors.ErrInvalidCredentials)

	rec := f.do(t, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"wrong"}`, "")

	req.Equal(http.StatusBadRequest, rec.Code)
	req.Equal("invalid credentials", decodeMessage(t, rec))
	req.Empty(rec.Result().Cookies())
}

func TestAuthHandler_MalformedBody(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/login", `{"email":`, "")

	req.Equal(http.StatusBadRequest, rec.Code)
	req.Equal("invalid request body", decodeMessage(t, rec))
}

func TestAuthHandler_LogoutExpiresCookie(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/logout", "", "")

	req.Equal(http.StatusOK, rec.Code)
	req.Equal("Logged out successfully", decodeMessage(t, rec))
	cookies := rec.Result().Cookies()
	req.Len(cookies, 1)
	req.Empty(cookies[0].Value)
	req.Negative(cookies[0].MaxAge)
}

func TestAuthHandler_CheckReadsIdentityFromToken(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.authService.EXPECT().CurrentUser(gomock.Any(), "alice").
		Return(domain.User{ID: "alice", FullName: "Alice"}, nil)

	rec := f.do(t, http.MethodGet, "/api/auth/check", "", "alice")

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"_id":"alice"`)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)

	f.authService.EXPECT().UpdateProfilePic(gomock.Any(), "alice", "data:image/png;base64,AAAA").
		Return(domain.User{ID: "alice", ProfilePic: "/images/a.png"}, nil)

	rec := f.do(t, http.MethodPut, "/api/auth/update-profile", `{"profilePic":"data:image/png;base64,AAAA"}`, "alice")

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "/images/a.png")
}

func TestSocialHandler_Invite(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{"sent", nil, http.StatusOK, "Invitation sent successfully"},
		{"invalid email", errors.ErrInvalidEmail, http.StatusBadRequest, "invalid email format"},
		{"self", errors.ErrSelfReference, http.StatusBadRequest, "you cannot add yourself"},
		{"already friends", errors.ErrAlreadyFriends, http.StatusBadRequest, "you are already friends"},
		{"duplicate", errors.ErrDuplicateRequest, http.StatusBadRequest, "invitation already sent previously"},
		{"unknown", errors.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"storage", fmt.Errorf("%w: disk full", errors.ErrStorage), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)
			f.social.EXPECT().Invite(gomock.Any(), "alice", "bob@example.com").Return(tt.serviceErr)

			rec := f.do(t, http.MethodPost, "/api/messages/invite", `{"email":"bob@example.com"}`, "alice")

			req.Equal(tt.wantStatus, rec.Code)
			req.Equal(tt.wantMsg, decodeMessage(t, rec))
		})
	}
}

func TestSocialHandler_Accept(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.social.EXPECT().Accept(gomock.Any(), "bob", "alice").Return(nil)

		rec := f.do(t, http.MethodPost, "/api/messages/accept", `{"userToAcceptId":"alice"}`, "bob")

		req.Equal(http.StatusOK, rec.Code)
		req.Equal("Invitation accepted", decodeMessage(t, rec))
	})

	t.Run("missing id never reaches the service", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)

		rec := f.do(t, http.MethodPost, "/api/messages/accept", `{"userToAcceptId":"  "}`, "bob")

		req.Equal(http.StatusBadRequest, rec.Code)
	})

	t.Run("not pending", func(t *testing.T) {
		req := require.New(t)
		f := newFixture(t)
		f.social.EXPECT().Accept(gomock.Any(), "bob", "carol").Return(errors.ErrRequestNotFound)

		rec := f.do(t, http.MethodPost, "/api/messages/accept", `{"userToAcceptId":"carol"}`, "bob")

		req.Equal(http.StatusNotFound, rec.Code)
		req.Equal("invitation not found", decodeMessage(t, rec))
	})
}

func TestSocialHandler_ListsEncodeEmptyAsArray(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.social.EXPECT().ListPendingRequests(gomock.Any(), "bob").Return(nil, nil)
	f.social.EXPECT().ListFriends(gomock.Any(), "bob").
		Return([]domain.UserSummary{{ID: "alice", FullName: "Alice"}}, nil)
	f.social.EXPECT().ListContacts(gomock.Any(), "bob").
		Return([]domain.UserSummary{{ID: "alice"}, {ID: "carol"}}, nil)

	rec := f.do(t, http.MethodGet, "/api/messages/requests", "", "bob")
	req.Equal(http.StatusOK, rec.Code)
	req.JSONEq(`[]`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/messages/friends", "", "bob")
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"fullName":"Alice"`)

	rec = f.do(t, http.MethodGet, "/api/messages/contacts", "", "bob")
	var contacts []domain.UserSummary
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &contacts))
	req.Len(contacts, 2)
}

func TestMessageHandler_Send(t *testing.T) {
	message := domain.Message{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Text: "hi", CreatedAt: time.Now().UTC()}

	tests := []struct {
		name       string
		result     domain.Message
		serviceErr error
		wantStatus int
	}{
		{"created", message, nil, http.StatusCreated},
		{"empty", domain.Message{}, errors.ErrInvalidMessage, http.StatusBadRequest},
		{"self", domain.Message{}, errors.ErrSelfMessage, http.StatusBadRequest},
		{"unknown receiver", domain.Message{}, errors.ErrUserNotFound, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			f := newFixture(t)
			f.messages.EXPECT().Send(gomock.Any(), domain.Draft{SenderID: "alice", ReceiverID: "bob", Text: "hi"}).
				Return(tt.result, tt.serviceErr)

			rec := f.do(t, http.MethodPost, "/api/messages/send/bob", `{"text":"hi"}`, "alice")

			req.Equal(tt.wantStatus, rec.Code)
			if tt.serviceErr == nil {
				var got domain.Message
				req.NoError(json.Unmarshal(rec.Body.Bytes(), &got))
				req.Equal(message.ID, got.ID)
				req.Equal("hi", got.Text)
			}
		})
	}
}

func TestMessageHandler_ConversationAndStaticRoutes(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	conversation := []domain.Message{
		{ID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Text: "one"},
		{ID: uuid.New(), SenderID: "bob", ReceiverID: "alice", Text: "two"},
	}

	// Given static routes next to the conversation parameter
	f.messages.EXPECT().Conversation(gomock.Any(), "alice", "bob").Return(conversation, nil)
	f.messages.EXPECT().ChatPartners(gomock.Any(), "alice").Return([]domain.UserSummary{{ID: "bob"}}, nil)
	f.messages.EXPECT().Search(gomock.Any(), "alice", "two").Return(conversation[1:], nil)

	// Then each path reaches its own handler
	rec := f.do(t, http.MethodGet, "/api/messages/bob", "", "alice")
	req.Equal(http.StatusOK, rec.Code)
	var got []domain.Message
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &got))
	req.Equal([]string{"one", "two"}, []string{got[0].Text, got[1].Text})

	rec = f.do(t, http.MethodGet, "/api/messages/chats", "", "alice")
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"_id":"bob"`)

	rec = f.do(t, http.MethodGet, "/api/messages/search?q=two", "", "alice")
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `"text":"two"`)
}

func TestRouter_MetricsUseRoutePatterns(t *testing.T) {
	req := require.New(t)
	f := newFixture(t)
	f.messages.EXPECT().Conversation(gomock.Any(), "alice", gomock.Any()).Return(nil, nil).Times(2)

	f.do(t, http.MethodGet, "/api/messages/bob", "", "alice")
	f.do(t, http.MethodGet, "/api/messages/carol", "", "alice")

	rec := f.do(t, http.MethodGet, "/metrics", "", "")
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `route="/api/messages/{otherUserId}"`)
	req.NotContains(rec.Body.String(), `route="/api/messages/bob"`)
}
