package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/SaadAmawi/VocalFlow/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleSessionEvents streams orchestrator state transitions to the client
// as JSON messages until the session reaches a terminal state or the
// client disconnects.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	o, ok := s.getSession(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan session.Event, 16)
	o.OnTransition(func(ev session.Event) {
		select {
		case events <- ev:
		default:
			// A slow client drops events rather than stalling the session.
		}
	})

	// Send the current state first so late subscribers see where they are.
	first := session.Event{State: o.State(), QuestionIndex: o.QuestionIndex(), Warning: o.Warning()}
	if err := conn.WriteJSON(first); err != nil {
		return
	}
	if first.State.Terminal() {
		return
	}

	for ev := range events {
		if err := conn.WriteJSON(ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket write: %v", err)
			}
			return
		}
		if ev.State.Terminal() {
			return
		}
	}
}
