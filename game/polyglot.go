package game

import "strings"

const (
	polyglotCastleOffset    = 768
	polyglotEnPassantOffset = 772
	polyglotTurnOffset      = 780
)

// Key returns the Polyglot Zobrist key of the position, the index used by
// .bin opening books.
func (p *Position) Key() uint64 {
	var key uint64

	for sq := Square(0); sq < 64; sq++ {
		pc, ok := p.PieceAt(sq)
		if !ok {
			continue
		}
		// black pawn = 0, white pawn = 1, black knight = 2 ... white king = 11
		kind := 2 * (int(pc.Type) - 1)
		if pc.Color == White {
			kind++
		}
		key ^= polyglotRandom[64*kind+8*sq.Rank()+sq.File()]
	}

	castling, enPassant := fenFields(p.FEN())
	for i, right := range "KQkq" {
		if strings.ContainsRune(castling, right) {
			key ^= polyglotRandom[polyglotCastleOffset+i]
		}
	}

	// The en passant file only counts when a pawn of the side to move
	// stands next to the double-pushed pawn.
	if ep, err := ParseSquare(enPassant); err == nil && p.canCaptureEnPassant(ep) {
		key ^= polyglotRandom[polyglotEnPassantOffset+ep.File()]
	}

	if p.Turn() == White {
		key ^= polyglotRandom[polyglotTurnOffset]
	}
	return key
}

func (p *Position) canCaptureEnPassant(ep Square) bool {
	pawns, rank := p.board.White.Pawns, 4
	if p.Turn() == Black {
		pawns, rank = p.board.Black.Pawns, 3
	}
	for _, df := range []int{-1, 1} {
		file := ep.File() + df
		if file < 0 || file > 7 {
			continue
		}
		if pawns&(uint64(1)<<uint(NewSquare(file, rank))) != 0 {
			return true
		}
	}
	return false
}
