// Package server exposes game sessions over HTTP and websockets. Each
// session owns its own position; the engine Selector is shared.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"chess-ai/engine"
	"chess-ai/game"
)

type Server struct {
	selector *engine.Selector
	sessions *SessionStore
	hub      *Hub
	log      zerolog.Logger

	staticDir string
	accessLog bool
}

type Option func(*Server)

// WithStaticDir serves a front end from dir at "/".
func WithStaticDir(dir string) Option {
	return func(s *Server) { s.staticDir = dir }
}

// WithAccessLog turns on chi's request logger.
func WithAccessLog(on bool) Option {
	return func(s *Server) { s.accessLog = on }
}

func New(selector *engine.Selector, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		selector: selector,
		sessions: NewSessionStore(),
		hub:      NewHub(),
		log:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Sessions() *SessionStore { return s.sessions }

// Start runs the websocket hub until ctx ends.
func (s *Server) Start(ctx context.Context) {
	go s.hub.Run(ctx.Done())
}

type errorResponse struct {
	Error string `json:"error"`
}

type moveRequest struct {
	Move string `json:"move"`
}

type resetRequest struct {
	FEN string `json:"fen"`
}

type resetResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	FEN    string `json:"fen"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if s.accessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Post("/move", func(w http.ResponseWriter, r *http.Request) {
		s.handleMove(w, r, s.sessions.GetOrCreate(DefaultSessionID))
	})
	r.Post("/reset", func(w http.ResponseWriter, r *http.Request) {
		s.handleReset(w, r, s.sessions.GetOrCreate(DefaultSessionID))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Post("/sessions", s.handleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.withSession(func(w http.ResponseWriter, r *http.Request, sess *Session) {
				writeJSON(w, http.StatusOK, sess.State())
			}))
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				id := chi.URLParam(r, "id")
				if err := s.sessions.Delete(id); err != nil {
					writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
					return
				}
				s.log.Info().Str("session", id).Msg("session deleted")
				writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
			})
			r.Post("/move", s.withSession(s.handleMove))
			r.Post("/engine", s.withSession(s.handleEngineMove))
			r.Post("/reset", s.withSession(s.handleReset))
			r.Get("/pgn", s.withSession(s.handlePGN))
		})
	})

	r.Get("/ws/{id}", s.serveWS)

	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
		} else {
			s.log.Warn().Err(err).Str("dir", s.staticDir).Msg("static directory unavailable")
		}
	}
	return r
}

func (s *Server) withSession(h func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	sess, err := s.sessions.Create(req.FEN)
	if errors.Is(err, game.ErrInvalidFEN) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid fen"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.log.Info().Str("session", sess.ID).Msg("session created")
	writeJSON(w, http.StatusCreated, sess.State())
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, sess *Session) {
	// A malformed body is an empty move: a finished game still reports
	// its result, anything else is rejected as an invalid move.
	var req moveRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	resp, err := sess.Play(r.Context(), s.selector, req.Move)
	s.respondMove(w, sess, resp, err)
}

func (s *Server) handleEngineMove(w http.ResponseWriter, r *http.Request, sess *Session) {
	resp, err := sess.EngineMove(r.Context(), s.selector)
	s.respondMove(w, sess, resp, err)
}

func (s *Server) respondMove(w http.ResponseWriter, sess *Session, resp MoveResponse, err error) {
	if errors.Is(err, game.ErrIllegalMove) {
		s.log.Debug().Err(err).Str("session", sess.ID).Msg("rejected move")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid move"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("session", sess.ID).Msg("engine move failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	s.hub.Publish(sess.ID, "state", sess.State())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sess *Session) {
	var req resetRequest
	if err := decodeOptional(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}
	if err := sess.Reset(req.FEN); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid fen"})
		return
	}
	state := sess.State()
	s.hub.Publish(sess.ID, "state", state)
	writeJSON(w, http.StatusOK, resetResponse{Status: "reset", ID: sess.ID, FEN: state.FEN})
}

func (s *Server) handlePGN(w http.ResponseWriter, r *http.Request, sess *Session) {
	pgn, err := sess.PGN()
	if err != nil {
		s.log.Error().Err(err).Str("session", sess.ID).Msg("pgn export failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(pgn))
}

// decodeOptional decodes a JSON body; an empty body leaves v untouched.
func decodeOptional(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
