package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"chess-ai/game"
)

const wsIdlePingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type wsMovePayload struct {
	Move string `json:"move"`
}

type wsResetPayload struct {
	FEN string `json:"fen"`
}

// serveWS streams one session. Clients send "move", "reset" and "state";
// every change is broadcast as "state" to all watchers of the session.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{session: sess.ID, send: make(chan []byte, 16)}
	s.hub.Register(client)
	s.log.Debug().Str("session", sess.ID).Int("watchers", s.hub.Watchers(sess.ID)).Msg("websocket watcher joined")

	client.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(sess.State())})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			return
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "state":
			client.sendJSON(wsMessage{Type: "state", Payload: mustMarshal(sess.State())})
		case "move":
			var p wsMovePayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorResponse{Error: "invalid payload"})})
				continue
			}
			resp, err := sess.Play(r.Context(), s.selector, p.Move)
			if errors.Is(err, game.ErrIllegalMove) {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorResponse{Error: "invalid move"})})
				continue
			}
			if err != nil {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorResponse{Error: err.Error()})})
				continue
			}
			client.sendJSON(wsMessage{Type: "move", Payload: mustMarshal(resp)})
			s.hub.Publish(sess.ID, "state", sess.State())
		case "reset":
			var p wsResetPayload
			if len(msg.Payload) > 0 {
				if err := json.Unmarshal(msg.Payload, &p); err != nil {
					client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorResponse{Error: "invalid payload"})})
					continue
				}
			}
			if err := sess.Reset(p.FEN); err != nil {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(errorResponse{Error: "invalid fen"})})
				continue
			}
			s.hub.Publish(sess.ID, "state", sess.State())
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
