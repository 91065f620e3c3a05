package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration and skips without a target server.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerURL == "" {
		s.T().Skip("E2E_SERVER_URL is not set")
	}
}

// Session is one logged-in user, the cookie jar carries the jwt cookie.
type Session struct {
	s      *BaseHTTPSuite
	name   string
	client *http.Client
	ID     string
}

func (s *BaseHTTPSuite) NewSession(name string) *Session {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &Session{s: s, name: name, client: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

// Step prints a colorized header for a scenario step.
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Do sends a JSON request and decodes the JSON answer into out when out is not nil.
func (u *Session) Do(method, path string, body any, out any) int {
	var reader io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		u.s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, strings.TrimRight(u.s.Config.ServerURL, "/")+path, reader)
	u.s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := u.client.Do(req)
	u.s.Require().NoError(err)
	defer resp.Body.Close()
	answer, err := io.ReadAll(resp.Body)
	u.s.Require().NoError(err)

	line := fmt.Sprintf("[%s] %s %s -> %d in %v", u.name, method, path, resp.StatusCode, time.Since(start))
	if u.s.Config.DebugJSON {
		line += fmt.Sprintf("\nREQUEST: %s\nRESPONSE: %s", raw, answer)
	}
	u.s.T().Log(line)

	if out != nil && len(answer) > 0 {
		u.s.Require().NoError(json.Unmarshal(answer, out), string(answer))
	}
	return resp.StatusCode
}

// Dial opens the live channel with the session cookie.
func (u *Session) Dial() *websocket.Conn {
	base, err := url.Parse(u.s.Config.ServerURL)
	u.s.Require().NoError(err)

	header := http.Header{}
	for _, cookie := range u.client.Jar.Cookies(base) {
		header.Add("Cookie", cookie.String())
	}
	wsURL := *base
	wsURL.Scheme = "ws"
	if base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path = strings.TrimRight(base.Path, "/") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), header)
	u.s.Require().NoError(err, "Failed to open websocket for "+u.name)
	return conn
}

// CheckHealth asks the gRPC health service for its status.
func (s *BaseHTTPSuite) CheckHealth() grpc_health_v1.HealthCheckResponse_ServingStatus {
	conn, err := grpc.NewClient(s.Config.HealthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err, "Failed to connect to health server at "+s.Config.HealthAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{})
	s.Require().NoError(err)
	return resp.GetStatus()
}
