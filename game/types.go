package game

import (
	"fmt"

	"github.com/dylhunn/dragontoothmg"
)

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType follows dragontoothmg's numbering so conversions are plain casts.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = PieceType(dragontoothmg.Pawn)
	Knight      PieceType = PieceType(dragontoothmg.Knight)
	Bishop      PieceType = PieceType(dragontoothmg.Bishop)
	Rook        PieceType = PieceType(dragontoothmg.Rook)
	Queen       PieceType = PieceType(dragontoothmg.Queen)
	King        PieceType = PieceType(dragontoothmg.King)
)

var pieceLetters = [...]byte{'?', 'p', 'n', 'b', 'r', 'q', 'k'}

func (pt PieceType) String() string {
	if int(pt) >= len(pieceLetters) {
		return "?"
	}
	return string(pieceLetters[pt])
}

// Piece is a (type, color) pair.
type Piece struct {
	Type  PieceType
	Color Color
}

// Symbol returns the FEN letter of the piece, upper case for White.
func (p Piece) Symbol() string {
	s := p.Type.String()
	if p.Color == White {
		return string(s[0] - 'a' + 'A')
	}
	return s
}

// Square indexes the board a1=0, b1=1 ... h8=63.
type Square uint8

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	if sq > 63 {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// Move is an immutable move produced by the move generator. The zero Move
// is NoMove and is never legal.
type Move struct {
	raw dragontoothmg.Move
}

var NoMove Move

func (m Move) IsZero() bool { return m.raw == 0 }

func (m Move) From() Square {
	r := m.raw
	return Square(r.From())
}

func (m Move) To() Square {
	r := m.raw
	return Square(r.To())
}

// Promotion returns the promotion piece type, NoPieceType for ordinary moves.
func (m Move) Promotion() PieceType {
	r := m.raw
	return PieceType(r.Promote())
}

// String renders the move in UCI long algebraic notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsZero() {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPieceType {
		s += p.String()
	}
	return s
}
