package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/meetscribe/meetscribe/internal/session"
)

// events streams state changes for one session over a websocket so the
// browser can render progress without polling. The long stages block the
// pipeline, never this connection.
func (s *Server) events(c *gin.Context) {
	sess, err := s.ctrl.Store().Get(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", "meeting session not found")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		s.logger.Warn(c.Request.Context(), "websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := sess.Subscribe()
	defer cancel()

	// Snapshot first so late subscribers see where the run already is.
	current := session.Event{SessionID: sess.ID, State: sess.State()}
	if runErr := sess.Err(); runErr != nil {
		current.Error = runErr.Error()
	}
	if err := conn.WriteJSON(current); err != nil {
		return
	}
	if current.State.Terminal() {
		return
	}

	// Detect client disconnects; the reader returns when the peer goes away.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				return
			}
			if event.State.Terminal() {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-clientGone:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
