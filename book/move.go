package book

import "chess-ai/game"

// Promotion codes in bits 12-14 of a raw book move.
var promotions = [...]game.PieceType{game.NoPieceType, game.Knight, game.Bishop, game.Rook, game.Queen}

// EncodeMove packs a move the way Polyglot stores it. Castling is written as
// king takes rook.
func EncodeMove(from, to game.Square, promo game.PieceType) uint16 {
	var code uint16
	for i, pt := range promotions {
		if pt == promo {
			code = uint16(i)
		}
	}
	return uint16(to.File()) |
		uint16(to.Rank())<<3 |
		uint16(from.File())<<6 |
		uint16(from.Rank())<<9 |
		code<<12
}

func (e Entry) squares() (from, to game.Square, promo game.PieceType, ok bool) {
	to = game.NewSquare(int(e.Raw&7), int(e.Raw>>3&7))
	from = game.NewSquare(int(e.Raw>>6&7), int(e.Raw>>9&7))
	code := int(e.Raw >> 12 & 7)
	if code >= len(promotions) {
		return 0, 0, game.NoPieceType, false
	}
	return from, to, promotions[code], true
}

// Decode resolves the entry to a legal move in pos.
func (e Entry) Decode(pos *game.Position) (game.Move, bool) {
	from, to, promo, ok := e.squares()
	if !ok {
		return game.NoMove, false
	}
	if pc, ok := pos.PieceAt(from); ok && pc.Type == game.King {
		to = castlingTarget(from, to)
	}
	return pos.FindMove(from, to, promo)
}

// castlingTarget maps king-takes-rook castling onto the king's destination.
func castlingTarget(from, to game.Square) game.Square {
	if from.File() != 4 || (from.Rank() != 0 && from.Rank() != 7) || to.Rank() != from.Rank() {
		return to
	}
	switch to.File() {
	case 7:
		return game.NewSquare(6, from.Rank())
	case 0:
		return game.NewSquare(2, from.Rank())
	}
	return to
}
