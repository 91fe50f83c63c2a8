package engine

import (
	"context"

	"chess-ai/game"
)

// Nodes between cancellation polls, minus one.
const pollMask = 2047

// Result is the outcome of searching a subtree. Move is game.NoMove at
// leaves and when no move improved on the initial bound.
type Result struct {
	Score Score
	Move  game.Move
}

// Searcher runs depth-limited minimax with alpha-beta pruning over a
// Position it mutates in place. Every Push is paired with a Pop before the
// searcher looks at the child score, so no exit path leaves the position
// changed.
type Searcher struct {
	pos         *game.Position
	eval        Evaluator
	timeHandler TimeHandler
	stats       Stats
}

func NewSearcher(ctx context.Context, pos *game.Position, eval Evaluator) *Searcher {
	if eval == nil {
		eval = Evaluate
	}
	s := &Searcher{pos: pos, eval: eval}
	s.timeHandler.StartTime(ctx)
	return s
}

// Search explores depth plies from the current position. maximizing is
// true when the side to move is trying to raise the score (White).
func (s *Searcher) Search(depth int, alpha, beta Score, maximizing bool) Result {
	s.stats.Nodes++
	if s.stats.Nodes&pollMask == 0 {
		s.timeHandler.TimeStatus()
	}

	if depth <= 0 || s.pos.IsGameOver() {
		s.stats.Leaves++
		return Result{Score: s.eval(s.pos)}
	}

	if maximizing {
		best := Result{Score: BlackMates}
		for _, move := range s.pos.LegalMoves() {
			s.pos.Push(move)
			child := s.Search(depth-1, alpha, beta, false)
			s.pos.Pop()

			// A child cut short by cancellation only holds a bound.
			if s.timeHandler.stopped {
				break
			}
			// Strictly greater: the first move reaching a score keeps it.
			if child.Score > best.Score {
				best = Result{Score: child.Score, Move: move}
			}
			if best.Score > alpha {
				alpha = best.Score
			}
			if beta <= alpha {
				s.stats.BetaCutoffs++
				break
			}
		}
		return best
	}

	best := Result{Score: WhiteMates}
	for _, move := range s.pos.LegalMoves() {
		s.pos.Push(move)
		child := s.Search(depth-1, alpha, beta, true)
		s.pos.Pop()

		if s.timeHandler.stopped {
			break
		}
		if child.Score < best.Score {
			best = Result{Score: child.Score, Move: move}
		}
		if best.Score < beta {
			beta = best.Score
		}
		if beta <= alpha {
			s.stats.BetaCutoffs++
			break
		}
	}
	return best
}

// Aborted reports whether the search stopped early because its context ended.
func (s *Searcher) Aborted() bool { return s.timeHandler.stopped }

func (s *Searcher) Stats() Stats { return s.stats }

// Search is the one-shot form of Searcher.Search without cancellation.
func Search(pos *game.Position, eval Evaluator, depth int, alpha, beta Score, maximizing bool) Result {
	return NewSearcher(context.Background(), pos, eval).Search(depth, alpha, beta, maximizing)
}
