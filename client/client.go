package main

import (
	"bytes"
	"context"
	"direct-chat/domain"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=http://localhost:8080"`
	Email     string `env:"CHAT_EMAIL,required=true"`
	Password  string `env:"CHAT_PASSWORD,required=true"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
}

type frame struct {
	Type    string         `json:"type"`
	Payload domain.Message `json:"payload"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in, opens the live channel and prints every pushed message until interrupted.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Authenticate to obtain the session cookie.
	cookie, err := login(ctx, config)
	if err != nil {
		return exitRuntime, err
	}

	// 4. Open the websocket with the session cookie.
	wsURL, err := websocketURL(config.ServerURL)
	if err != nil {
		return exitConfig, err
	}
	header := http.Header{}
	header.Add("Cookie", cookie.String())
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", wsURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	// Unblocks ReadMessage on Ctrl+C.
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	log.Info(fmt.Sprintf(">>> Connected to %s as %s (Ctrl+C to quit)...", config.ServerURL, config.Email))

	// 5. Message reception loop.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			log.Warn("Unreadable frame", "error", err)
			continue
		}
		if f.Type != string(domain.NewMessageType) {
			continue
		}
		content := f.Payload.Text
		if f.Payload.Image != "" {
			content = strings.TrimSpace(content + " [image " + f.Payload.Image + "]")
		}
		log.Info(fmt.Sprintf("[%s] %s: %s",
			f.Payload.CreatedAt.Local().Format(time.TimeOnly),
			f.Payload.SenderID,
			content,
		))
	}
}

func login(ctx context.Context, config Config) (*http.Cookie, error) {
	body, err := json.Marshal(map[string]string{"email": config.Email, "password": config.Password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(config.ServerURL, "/")+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&failure)
		return nil, fmt.Errorf("login rejected (%d): %s", resp.StatusCode, failure.Message)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "jwt" {
			return cookie, nil
		}
	}
	return nil, fmt.Errorf("login succeeded without a session cookie")
}

// websocketURL maps http(s)://host to ws(s)://host/ws.
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid CHAT_SERVER_URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}
