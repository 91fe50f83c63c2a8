package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"chess-ai/engine"
	"chess-ai/game"
)

var ErrSessionNotFound = errors.New("session not found")

// DefaultSessionID is the session behind the plain /move and /reset routes.
const DefaultSessionID = "default"

// Session is one game. Its Position is only touched with mu held, so a
// search never races with a human move on the same board.
type Session struct {
	ID      string
	Created time.Time

	mu  sync.Mutex
	pos *game.Position
}

func newSession(id, fen string) (*Session, error) {
	pos := game.NewPosition()
	if fen != "" {
		var err error
		if pos, err = game.NewPositionFromFEN(fen); err != nil {
			return nil, err
		}
	}
	return &Session{ID: id, Created: time.Now(), pos: pos}, nil
}

// MoveResponse reports the board after a human move and, unless the game
// ended, the engine reply.
type MoveResponse struct {
	Check     bool     `json:"check"`
	Checkmate bool     `json:"checkmate"`
	GameOver  bool     `json:"game_over"`
	Result    *string  `json:"result"`
	FEN       string   `json:"fen"`
	Move      string   `json:"move,omitempty"`
	Source    string   `json:"source,omitempty"`
	Score     *float64 `json:"score,omitempty"`
	Depth     int      `json:"depth,omitempty"`
	Nodes     uint64   `json:"nodes,omitempty"`
}

func moveResponse(pos *game.Position) MoveResponse {
	resp := MoveResponse{
		Check:     pos.IsCheck(),
		Checkmate: pos.IsCheckmate(),
		GameOver:  pos.IsGameOver(),
		FEN:       pos.FEN(),
	}
	if resp.GameOver {
		result := pos.Result()
		resp.Result = &result
	}
	return resp
}

func (resp *MoveResponse) setSelection(sel engine.Selection) {
	resp.Move = sel.Move.String()
	resp.Source = string(sel.Source)
	resp.Depth = sel.Depth
	resp.Nodes = sel.Stats.Nodes
	// JSON has no infinity; mates show up as checkmate instead.
	if sel.Source == engine.SourceSearch && !math.IsInf(float64(sel.Score), 0) {
		score := float64(sel.Score)
		resp.Score = &score
	}
}

// Play applies a human move and answers with the engine. An illegal move
// leaves the position unchanged. A finished game is reported, not an error.
func (s *Session) Play(ctx context.Context, sel *engine.Selector, uci string) (MoveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos.IsGameOver() {
		return moveResponse(s.pos), nil
	}
	if _, err := s.pos.Apply(uci); err != nil {
		return MoveResponse{}, err
	}
	if s.pos.IsGameOver() {
		return moveResponse(s.pos), nil
	}
	return s.reply(ctx, sel)
}

// EngineMove lets the engine move for the side to move.
func (s *Session) EngineMove(ctx context.Context, sel *engine.Selector) (MoveResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos.IsGameOver() {
		return moveResponse(s.pos), nil
	}
	return s.reply(ctx, sel)
}

func (s *Session) reply(ctx context.Context, sel *engine.Selector) (MoveResponse, error) {
	choice, err := sel.SelectMove(ctx, s.pos)
	if err != nil {
		return MoveResponse{}, fmt.Errorf("session %s: %w", s.ID, err)
	}
	s.pos.Push(choice.Move)
	resp := moveResponse(s.pos)
	resp.setSelection(choice)
	return resp, nil
}

// Reset starts a new game, from fen when given.
func (s *Session) Reset(fen string) error {
	pos := game.NewPosition()
	if fen != "" {
		var err error
		if pos, err = game.NewPositionFromFEN(fen); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.pos = pos
	s.mu.Unlock()
	return nil
}

// State is a snapshot of a session.
type State struct {
	ID          string   `json:"id"`
	StartFEN    string   `json:"start_fen"`
	FEN         string   `json:"fen"`
	Fullmove    int      `json:"fullmove"`
	Turn        string   `json:"turn"`
	Moves       []string `json:"moves"`
	LegalMoves  []string `json:"legal_moves"`
	Check       bool     `json:"check"`
	Checkmate   bool     `json:"checkmate"`
	GameOver    bool     `json:"game_over"`
	Result      string   `json:"result"`
	Termination string   `json:"termination,omitempty"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		ID:          s.ID,
		StartFEN:    s.pos.StartFEN(),
		FEN:         s.pos.FEN(),
		Fullmove:    s.pos.FullmoveNumber(),
		Turn:        s.pos.Turn().String(),
		Moves:       moveStrings(s.pos.Moves()),
		LegalMoves:  moveStrings(s.pos.LegalMoves()),
		Check:       s.pos.IsCheck(),
		Checkmate:   s.pos.IsCheckmate(),
		GameOver:    s.pos.IsGameOver(),
		Result:      s.pos.Result(),
		Termination: s.pos.Termination(),
	}
}

// PGN exports the game played so far.
func (s *Session) PGN() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos.PGN(map[string]string{
		"Event": "chess-ai " + s.ID,
		"Date":  s.Created.Format("2006.01.02"),
	})
}

func moveStrings(moves []game.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// SessionStore owns every live session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create starts a session with a fresh random id.
func (st *SessionStore) Create(fen string) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	sess, err := newSession(id, fen)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	st.sessions[id] = sess
	st.mu.Unlock()
	return sess, nil
}

func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// GetOrCreate returns the session called id, starting it if needed.
func (st *SessionStore) GetOrCreate(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		sess, _ = newSession(id, "")
		st.sessions[id] = sess
	}
	return sess
}

func (st *SessionStore) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(st.sessions, id)
	return nil
}

func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func newSessionID() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
