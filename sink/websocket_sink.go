package sink

import (
	"context"
	"direct-chat/domain"
	"direct-chat/errors"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames
	maxMessageSize = 4 * 1024
)

// Frame is the JSON document pushed to clients.
type Frame struct {
	Type    domain.EventType `json:"type"`
	Payload any              `json:"payload"`
}

// WebsocketSink is the live connection of one user.
// Consume only enqueues, the write pump owns the socket.
type WebsocketSink struct {
	id        string
	userID    domain.UserID
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
	log       *slog.Logger
}

func NewWebsocketSink(userID domain.UserID, conn *websocket.Conn, bufferSize int, log *slog.Logger) *WebsocketSink {
	id := uuid.NewString()
	return &WebsocketSink{
		id:     id,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		done:   make(chan struct{}),
		log:    log.With("user_id", userID, "connection_id", id),
	}
}

func (s *WebsocketSink) ID() string { return s.id }

func (s *WebsocketSink) Consume(ctx context.Context, e domain.Event) error {
	frame, ok := ToFrame(e)
	if !ok {
		return nil
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case <-s.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case s.send <- data:
		return nil
	case <-s.done:
		return errors.ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close asks the write pump to say goodbye and release the socket. Idempotent.
func (s *WebsocketSink) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

// Serve runs both pumps and blocks until the client goes away or Close is called.
func (s *WebsocketSink) Serve() {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writePump()
	}()
	s.readPump()
	_ = s.Close()
	<-writerDone
}

// readPump drains the socket so control frames are processed.
func (s *WebsocketSink) readPump() {
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("Websocket read error", "error", err)
			}
			return
		}
	}
}

func (s *WebsocketSink) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
		s.log.Debug("Write pump stopped")
	}()

	for {
		select {
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.log.Debug("Failed to write message", "error", err)
				_ = s.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.log.Debug("Failed to send ping", "error", err)
				_ = s.Close()
				return
			}
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// ToFrame maps a domain event to its wire form.
func ToFrame(e domain.Event) (Frame, bool) {
	switch payload := e.Payload.(type) {
	case domain.MessageCreated:
		return Frame{Type: domain.NewMessageType, Payload: payload.Message}, true
	default:
		return Frame{}, false
	}
}
