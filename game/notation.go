package game

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrIllegalMove is wrapped by every MoveError.
var ErrIllegalMove = errors.New("illegal move")

// MoveError describes a rejected move string.
type MoveError struct {
	Input  string
	Reason string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("illegal move %q: %s", e.Input, e.Reason)
}

func (e *MoveError) Unwrap() error { return ErrIllegalMove }

// ParseMove resolves a UCI move string ("e2e4", "a7a8q") against the legal
// moves of the current position. Unparseable and illegal input both return
// a *MoveError.
func (p *Position) ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return NoMove, &MoveError{Input: s, Reason: "expected 4 or 5 characters"}
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, &MoveError{Input: s, Reason: err.Error()}
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, &MoveError{Input: s, Reason: err.Error()}
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, &MoveError{Input: s, Reason: fmt.Sprintf("bad promotion piece %q", s[4])}
		}
	}

	m, ok := p.FindMove(from, to, promo)
	if !ok {
		return NoMove, &MoveError{Input: s, Reason: "not legal in " + p.FEN()}
	}
	return m, nil
}

// FindMove looks up the legal move with the given squares and promotion.
func (p *Position) FindMove(from, to Square, promo PieceType) (Move, bool) {
	legal := p.LegalMoves()
	i := slices.IndexFunc(legal, func(m Move) bool {
		return m.From() == from && m.To() == to && m.Promotion() == promo
	})
	if i < 0 {
		return NoMove, false
	}
	return legal[i], true
}

// IsLegal reports whether m is a member of the current legal-move set.
func (p *Position) IsLegal(m Move) bool {
	return !m.IsZero() && slices.Contains(p.LegalMoves(), m)
}

// Apply parses and pushes a UCI move string. On error the position is
// unchanged.
func (p *Position) Apply(s string) (Move, error) {
	m, err := p.ParseMove(s)
	if err != nil {
		return NoMove, err
	}
	p.Push(m)
	return m, nil
}
