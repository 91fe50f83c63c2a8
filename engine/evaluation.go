package engine

import (
	"math"

	"chess-ai/game"
)

// Score is a position score in pawns. Positive favors White.
type Score float64

var (
	// WhiteMates and BlackMates are the checkmate sentinels; they compare
	// beyond every finite score.
	WhiteMates = Score(math.Inf(1))
	BlackMates = Score(math.Inf(-1))
)

const DrawScore Score = 0

// IsMate reports whether s is one of the checkmate sentinels.
func (s Score) IsMate() bool {
	return math.IsInf(float64(s), 0)
}

// An Evaluator scores a position without mutating it.
type Evaluator func(p *game.Position) Score

// PieceValues holds the material value of each piece type, indexed by game.PieceType.
var PieceValues = [7]Score{
	game.Pawn:   1,
	game.Knight: 3,
	game.Bishop: 3,
	game.Rook:   5,
	game.Queen:  9,
	game.King:   0,
}

// Evaluate is the mate-aware evaluator: a mated side scores the opposite
// sentinel, stalemate is a draw, and everything else is material.
func Evaluate(p *game.Position) Score {
	if p.IsCheckmate() {
		if p.Turn() == game.Black {
			return WhiteMates
		}
		return BlackMates
	}
	if p.IsStalemate() {
		return DrawScore
	}
	return EvaluateMaterial(p)
}

// EvaluateMaterial sums piece values over the board, White minus Black.
func EvaluateMaterial(p *game.Position) Score {
	var score Score
	for sq := game.Square(0); sq < 64; sq++ {
		pc, ok := p.PieceAt(sq)
		if !ok {
			continue
		}
		if pc.Color == game.White {
			score += PieceValues[pc.Type]
		} else {
			score -= PieceValues[pc.Type]
		}
	}
	return score
}
