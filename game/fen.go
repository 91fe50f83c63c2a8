package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("invalid fen")

// normalizeFEN checks a FEN string before it reaches dragontoothmg, which
// indexes fields without bounds checks. Four-field FENs get default clocks.
func normalizeFEN(fen string) (string, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return "", fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	var board [64]rune
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return "", fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	kings := map[rune]int{}
	for i, rank := range ranks {
		width := 0
		for _, ch := range rank {
			switch {
			case ch >= '1' && ch <= '8':
				width += int(ch - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", ch):
				if width < 8 {
					board[NewSquare(width, 7-i)] = ch
				}
				width++
				if ch == 'k' || ch == 'K' {
					kings[ch]++
				}
			default:
				return "", fmt.Errorf("%w: bad character %q in rank %d", ErrInvalidFEN, ch, 8-i)
			}
		}
		if width != 8 {
			return "", fmt.Errorf("%w: rank %d has width %d", ErrInvalidFEN, 8-i, width)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return "", fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	if fields[1] != "w" && fields[1] != "b" {
		return "", fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			if !strings.ContainsRune("KQkq", ch) {
				return "", fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, fields[2])
			}
		}
	}
	fields[2] = castlingRights(&board, fields[2])

	if fields[3] != "-" {
		if err := checkEnPassant(&board, fields[1] == "w", fields[3]); err != nil {
			return "", err
		}
	}
	// the halfmove clock is stored in a uint8
	if n, err := strconv.Atoi(fields[4]); err != nil || n < 0 || n > 255 {
		return "", fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
	}
	if n, err := strconv.Atoi(fields[5]); err != nil || n < 1 {
		return "", fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
	}
	return strings.Join(fields, " "), nil
}

// Castling rights the pieces no longer support are dropped: the king and
// the rook must still stand on their home squares.
var castlingHomes = []struct {
	right      rune
	king, rook rune
	kingSq     Square
	rookSq     Square
}{
	{'K', 'K', 'R', 4, 7},
	{'Q', 'K', 'R', 4, 0},
	{'k', 'k', 'r', 60, 63},
	{'q', 'k', 'r', 60, 56},
}

func castlingRights(board *[64]rune, rights string) string {
	var kept []rune
	for _, h := range castlingHomes {
		if strings.ContainsRune(rights, h.right) && board[h.kingSq] == h.king && board[h.rookSq] == h.rook {
			kept = append(kept, h.right)
		}
	}
	if len(kept) == 0 {
		return "-"
	}
	return string(kept)
}

// checkEnPassant requires the square to be empty, on the capturing side's
// sixth rank, with the double-pushed pawn in front of it and its start
// square empty.
func checkEnPassant(board *[64]rune, whiteToMove bool, field string) error {
	sq, err := ParseSquare(field)
	if err != nil {
		return fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, field)
	}
	rank, step, pawn := 5, -1, 'p'
	if !whiteToMove {
		rank, step, pawn = 2, 1, 'P'
	}
	pushed := NewSquare(sq.File(), rank+step)
	origin := NewSquare(sq.File(), rank-step)
	if sq.Rank() != rank || board[sq] != 0 || board[origin] != 0 || board[pushed] != pawn {
		return fmt.Errorf("%w: en passant square %q does not follow a double pawn push", ErrInvalidFEN, field)
	}
	return nil
}

// fenFields returns the castling and en passant fields of a FEN string.
func fenFields(fen string) (castling, enPassant string) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return "-", "-"
	}
	return fields[2], fields[3]
}
