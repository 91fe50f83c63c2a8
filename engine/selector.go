package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"chess-ai/game"
)

// ErrGameOver is returned when a move is requested for a finished game.
var ErrGameOver = errors.New("game is over")

// OpeningBook maps a position to a book move. A miss, or an unavailable
// book, reports false.
type OpeningBook interface {
	Lookup(p *game.Position) (game.Move, bool)
}

// Source tells where a selected move came from.
type Source string

const (
	SourceBook   Source = "book"
	SourceSearch Source = "search"
	SourceRandom Source = "random"
)

// Selection is the move chosen for the side to move.
type Selection struct {
	Move    game.Move
	Source  Source
	Score   Score
	Depth   int
	Stats   Stats
	Aborted bool
	Elapsed time.Duration
}

// Selector picks moves: opening book first, then alpha-beta search, then a
// uniform random legal move. One Selector may serve many sessions; each call
// only touches the Position it is given.
type Selector struct {
	opts Options
	book OpeningBook
	log  zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSelector(opts Options, book OpeningBook, logger zerolog.Logger) *Selector {
	return &Selector{
		opts: opts,
		book: book,
		log:  logger,
		rng:  rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
	}
}

// Seed makes the random fallback reproducible.
func (s *Selector) Seed(seed uint64) {
	s.mu.Lock()
	s.rng = rand.New(rand.NewSource(seed))
	s.mu.Unlock()
}

func (s *Selector) Options() Options { return s.opts }

// SelectMove chooses a move for pos. The position is searched in place but
// is left exactly as it was; applying the move is up to the caller.
func (s *Selector) SelectMove(ctx context.Context, pos *game.Position) (Selection, error) {
	if pos.IsGameOver() {
		return Selection{}, ErrGameOver
	}
	start := time.Now()

	if s.opts.UseOpeningBook && s.book != nil {
		if m, ok := s.book.Lookup(pos); ok && pos.IsLegal(m) {
			s.log.Debug().Str("move", m.String()).Str("fen", pos.FEN()).Msg("book move")
			return Selection{Move: m, Source: SourceBook, Elapsed: time.Since(start)}, nil
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if s.opts.MoveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.MoveTimeout)
		defer cancel()
	}

	searcher := NewSearcher(ctx, pos, s.opts.Evaluator())
	res := searcher.Search(s.opts.MaxDepth, BlackMates, WhiteMates, pos.Turn() == game.White)

	sel := Selection{
		Move:    res.Move,
		Source:  SourceSearch,
		Score:   res.Score,
		Depth:   s.opts.MaxDepth,
		Stats:   searcher.Stats(),
		Aborted: searcher.Aborted(),
	}
	if sel.Move.IsZero() {
		sel.Move = s.randomMove(pos)
		sel.Source = SourceRandom
		s.log.Debug().Str("fen", pos.FEN()).Msg("search found no move, playing a random one")
	}
	sel.Elapsed = time.Since(start)

	s.log.Debug().
		Str("move", sel.Move.String()).
		Str("source", string(sel.Source)).
		Float64("score", float64(sel.Score)).
		Int("depth", sel.Depth).
		Uint64("nodes", sel.Stats.Nodes).
		Uint64("cutoffs", sel.Stats.BetaCutoffs).
		Bool("aborted", sel.Aborted).
		Dur("elapsed", sel.Elapsed).
		Msg("move selected")
	return sel, nil
}

func (s *Selector) randomMove(pos *game.Position) game.Move {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return game.NoMove
	}
	s.mu.Lock()
	i := s.rng.Intn(len(moves))
	s.mu.Unlock()
	return moves[i]
}
