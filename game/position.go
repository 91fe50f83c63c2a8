package game

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Position is a chess position that is mutated in place by Push and Pop.
// A Position is not safe for concurrent use; every session owns its own.
type Position struct {
	board    dragontoothmg.Board
	startFEN string

	// Parallel stacks, one entry per pushed move.
	undo  []func()
	moves []Move

	// states holds one entry per position reached, including the start.
	states []State

	// Legal moves of the current position, cleared on every Push/Pop.
	legal      []Move
	legalValid bool
}

// State captures the information needed to reason about repetitions.
type State struct {
	Hash   uint64
	Rule50 int
}

// NewPosition returns the standard initial position.
func NewPosition() *Position {
	p, err := NewPositionFromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// NewPositionFromFEN parses fen into a fresh Position.
func NewPositionFromFEN(fen string) (*Position, error) {
	norm, err := normalizeFEN(fen)
	if err != nil {
		return nil, err
	}
	board := dragontoothmg.ParseFen(norm)
	// The side that just moved may not be left in check; the generator
	// would otherwise offer a king capture.
	waiting := board
	waiting.Wtomove = !waiting.Wtomove
	if waiting.OurKingInCheck() {
		return nil, fmt.Errorf("%w: side not to move is in check", ErrInvalidFEN)
	}
	p := &Position{
		board:    board,
		startFEN: norm,
	}
	p.resetStates()
	return p, nil
}

func (p *Position) resetStates() {
	p.states = p.states[:0]
	p.pushState()
}

func (p *Position) pushState() {
	p.states = append(p.states, State{
		Hash:   p.board.Hash(),
		Rule50: int(p.board.Halfmoveclock),
	})
}

func (p *Position) popState() {
	if len(p.states) <= 1 {
		return
	}
	p.states = p.states[:len(p.states)-1]
}

// Clone returns an independent copy of the position. The copy cannot pop
// past the moves already played; its history starts at the current position
// but keeps the repetition states.
func (p *Position) Clone() *Position {
	c := &Position{
		board:    p.board,
		startFEN: p.FEN(),
		states:   append([]State(nil), p.states...),
	}
	return c
}

// StartFEN is the FEN the position was created from.
func (p *Position) StartFEN() string { return p.startFEN }

// Turn returns the side to move.
func (p *Position) Turn() Color {
	if p.board.Wtomove {
		return White
	}
	return Black
}

// Ply is the number of moves pushed since the position was created.
func (p *Position) Ply() int { return len(p.moves) }

// HalfmoveClock returns the number of plies since the last capture or pawn move.
func (p *Position) HalfmoveClock() int { return int(p.board.Halfmoveclock) }

// FullmoveNumber returns the FEN fullmove counter.
func (p *Position) FullmoveNumber() int { return int(p.board.Fullmoveno) }

// Hash returns the move generator's Zobrist hash of the position.
func (p *Position) Hash() uint64 { return p.board.Hash() }

// FEN serializes the position.
func (p *Position) FEN() string { return p.board.ToFen() }

// Moves returns the moves pushed since the position was created, oldest first.
func (p *Position) Moves() []Move {
	return append([]Move(nil), p.moves...)
}

// LastMove returns the most recently pushed move, NoMove if none.
func (p *Position) LastMove() Move {
	if len(p.moves) == 0 {
		return NoMove
	}
	return p.moves[len(p.moves)-1]
}

// LegalMoves enumerates the legal moves in generator order. The returned
// slice must not be modified; it stays valid across later Push/Pop calls.
func (p *Position) LegalMoves() []Move {
	if p.legalValid {
		return p.legal
	}
	raw := p.board.GenerateLegalMoves()
	moves := make([]Move, len(raw))
	for i, m := range raw {
		moves[i] = Move{raw: m}
	}
	p.legal = moves
	p.legalValid = true
	return moves
}

// Push plays m, which must come from LegalMoves of the current position.
func (p *Position) Push(m Move) {
	unapply := p.board.Apply(m.raw)
	p.undo = append(p.undo, unapply)
	p.moves = append(p.moves, m)
	p.pushState()
	p.legal, p.legalValid = nil, false
}

// Pop takes back the last pushed move. It reports false when there is
// nothing to take back.
func (p *Position) Pop() bool {
	n := len(p.undo)
	if n == 0 {
		return false
	}
	p.undo[n-1]()
	p.undo[n-1] = nil
	p.undo = p.undo[:n-1]
	p.moves = p.moves[:n-1]
	p.popState()
	p.legal, p.legalValid = nil, false
	return true
}

// PieceAt returns the piece on sq, if any.
func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if pt, ok := pieceTypeAt(uint8(sq), &p.board.White); ok {
		return Piece{Type: pt, Color: White}, true
	}
	if pt, ok := pieceTypeAt(uint8(sq), &p.board.Black); ok {
		return Piece{Type: pt, Color: Black}, true
	}
	return Piece{}, false
}

func pieceTypeAt(position uint8, bitboards *dragontoothmg.Bitboards) (PieceType, bool) {
	mask := uint64(1) << position
	switch {
	case bitboards.Pawns&mask != 0:
		return Pawn, true
	case bitboards.Knights&mask != 0:
		return Knight, true
	case bitboards.Bishops&mask != 0:
		return Bishop, true
	case bitboards.Rooks&mask != 0:
		return Rook, true
	case bitboards.Queens&mask != 0:
		return Queen, true
	case bitboards.Kings&mask != 0:
		return King, true
	}
	return NoPieceType, false
}

// String draws the board from White's side, rank 8 first.
func (p *Position) String() string {
	buf := make([]byte, 0, 8*17)
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if file > 0 {
				buf = append(buf, ' ')
			}
			if pc, ok := p.PieceAt(NewSquare(file, rank)); ok {
				buf = append(buf, pc.Symbol()...)
			} else {
				buf = append(buf, '.')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
