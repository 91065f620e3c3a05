package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://localhost:8080", "ws://localhost:8080/ws"},
		{"https://chat.example.com/", "wss://chat.example.com/ws"},
		{"http://proxy/chat", "ws://proxy/chat/ws"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := websocketURL(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "signed"})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("returns the session cookie", func(t *testing.T) {
		req := require.New(t)
		cookie, err := login(context.Background(), Config{ServerURL: server.URL, Email: "a@b.c", Password: "secret"})
		req.NoError(err)
		req.Equal("signed", cookie.Value)
	})

	t.Run("reports rejections", func(t *testing.T) {
		req := require.New(t)
		_, err := login(context.Background(), Config{ServerURL: server.URL + "/nope", Email: "a@b.c", Password: "x"})
		req.Error(err)
	})
}
