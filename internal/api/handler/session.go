package handler

import (
	"net/http"
	"time"

	"github.com/Rrens/doggy-date/internal/api/response"
	"github.com/Rrens/doggy-date/internal/domain"
	"github.com/Rrens/doggy-date/internal/session"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// SessionHandler exposes the signed-in user
type SessionHandler struct {
	session  *session.Broadcaster
	upgrader websocket.Upgrader
}

// UserEvent is pushed over the events socket whenever the current user changes
type UserEvent struct {
	Type string      `json:"type"`
	User domain.User `json:"user"`
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(b *session.Broadcaster, allowedOrigins []string) *SessionHandler {
	return &SessionHandler{
		session: b,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// CurrentUser returns the signed-in user
func (h *SessionHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.session.CurrentUser()
	if !ok {
		response.NotFound(w, "no user signed in")
		return
	}
	response.OK(w, user)
}

// Events streams current-user changes over a websocket
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.session.Subscribe()
	defer cancel()

	if user, ok := h.session.CurrentUser(); ok {
		if err := writeEvent(conn, user); err != nil {
			return
		}
	}

	// drain client frames so pongs and close messages are processed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case user, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := writeEvent(conn, user); err != nil {
				log.Debug().Err(err).Msg("Session event write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, user domain.User) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(UserEvent{Type: "user", User: user})
}
