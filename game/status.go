package game

import "math/bits"

const (
	seventyFiveMoveLimit = 150
	fivefoldLimit        = 5

	lightSquares uint64 = 0x55AA55AA55AA55AA
	darkSquares  uint64 = 0xAA55AA55AA55AA55
)

// IsCheck reports whether the side to move is in check.
func (p *Position) IsCheck() bool {
	return p.board.OurKingInCheck()
}

func (p *Position) IsCheckmate() bool {
	return p.IsCheck() && len(p.LegalMoves()) == 0
}

func (p *Position) IsStalemate() bool {
	return !p.IsCheck() && len(p.LegalMoves()) == 0
}

// IsSeventyFiveMoves reports a draw by the 75-move rule. A mate delivered on
// the 150th ply still counts as mate.
func (p *Position) IsSeventyFiveMoves() bool {
	return int(p.board.Halfmoveclock) >= seventyFiveMoveLimit && !p.IsCheckmate()
}

// IsFivefoldRepetition reports whether the current position occurred at
// least five times.
func (p *Position) IsFivefoldRepetition() bool {
	count, _ := p.repetitionInfo()
	return count+1 >= fivefoldLimit
}

// IsThreefoldRepetition is the claimable repetition draw; it does not end
// the game on its own.
func (p *Position) IsThreefoldRepetition() bool {
	count, _ := p.repetitionInfo()
	return count+1 >= 3
}

// repetitionInfo counts earlier occurrences of the current position within
// the reversible part of the history.
func (p *Position) repetitionInfo() (count int, firstIdx int) {
	firstIdx = -1
	if len(p.states) <= 1 {
		return 0, firstIdx
	}
	curr := p.states[len(p.states)-1]
	start := len(p.states) - 1 - curr.Rule50
	if start < 0 {
		start = 0
	}
	for i := start; i <= len(p.states)-2; i++ {
		if p.states[i].Hash == curr.Hash {
			count++
			if firstIdx == -1 {
				firstIdx = i
			}
		}
	}
	return count, firstIdx
}

// IsInsufficientMaterial reports whether neither side can possibly mate.
func (p *Position) IsInsufficientMaterial() bool {
	return p.HasInsufficientMaterial(White) && p.HasInsufficientMaterial(Black)
}

// HasInsufficientMaterial reports whether c cannot mate by any sequence of
// legal moves.
func (p *Position) HasInsufficientMaterial(c Color) bool {
	own, opp := &p.board.White, &p.board.Black
	if c == Black {
		own, opp = opp, own
	}
	if own.Pawns|own.Rooks|own.Queens != 0 {
		return false
	}
	if own.Knights != 0 {
		return bits.OnesCount64(own.All) <= 2 && opp.All&^opp.Kings&^opp.Queens == 0
	}
	if own.Bishops != 0 {
		allBishops := own.Bishops | opp.Bishops
		sameColor := allBishops&darkSquares == 0 || allBishops&lightSquares == 0
		return sameColor && own.Pawns|opp.Pawns == 0 && own.Knights|opp.Knights == 0
	}
	return true
}

// IsGameOver reports checkmate, stalemate, insufficient material, the
// 75-move rule or fivefold repetition.
func (p *Position) IsGameOver() bool {
	if len(p.LegalMoves()) == 0 {
		return true
	}
	return p.IsInsufficientMaterial() || p.IsSeventyFiveMoves() || p.IsFivefoldRepetition()
}

// Result returns "1-0", "0-1", "1/2-1/2", or "*" while the game goes on.
func (p *Position) Result() string {
	if p.IsCheckmate() {
		if p.Turn() == White {
			return "0-1"
		}
		return "1-0"
	}
	if p.IsGameOver() {
		return "1/2-1/2"
	}
	return "*"
}

// Termination names the reason the game ended, empty while it goes on.
func (p *Position) Termination() string {
	switch {
	case p.IsCheckmate():
		return "checkmate"
	case p.IsStalemate():
		return "stalemate"
	case p.IsInsufficientMaterial():
		return "insufficient_material"
	case p.IsSeventyFiveMoves():
		return "seventyfive_moves"
	case p.IsFivefoldRepetition():
		return "fivefold_repetition"
	}
	return ""
}
