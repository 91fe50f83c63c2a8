package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chess-ai/game"
)

type fakeBook struct {
	move  string
	calls int
}

func (b *fakeBook) Lookup(p *game.Position) (game.Move, bool) {
	b.calls++
	if b.move == "" {
		return game.NoMove, false
	}
	m, err := p.ParseMove(b.move)
	if err != nil {
		return game.NoMove, false
	}
	return m, true
}

func newSelector(opts Options, book OpeningBook) *Selector {
	s := NewSelector(opts, book, zerolog.Nop())
	s.Seed(1)
	return s
}

func TestSelectorUsesBook(t *testing.T) {
	book := &fakeBook{move: "g1f3"}
	s := newSelector(DefaultOptions(), book)
	p := game.NewPosition()
	sel, err := s.SelectMove(context.Background(), p)
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if sel.Source != SourceBook || sel.Move.String() != "g1f3" {
		t.Fatalf("got %s from %s, want g1f3 from book", sel.Move, sel.Source)
	}
	if sel.Stats.Nodes != 0 {
		t.Fatalf("book hit should not search, visited %d nodes", sel.Stats.Nodes)
	}
	if p.Ply() != 0 {
		t.Fatalf("SelectMove must not apply the move")
	}
}

func TestSelectorBookDisabled(t *testing.T) {
	book := &fakeBook{move: "g1f3"}
	opts := DefaultOptions()
	opts.UseOpeningBook = false
	opts.MaxDepth = 1
	sel, err := newSelector(opts, book).SelectMove(context.Background(), game.NewPosition())
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if book.calls != 0 || sel.Source != SourceSearch {
		t.Fatalf("book consulted %d times, source %s", book.calls, sel.Source)
	}
}

func TestSelectorBookMissFallsThrough(t *testing.T) {
	for _, move := range []string{"", "a1a8"} {
		book := &fakeBook{move: move}
		opts := DefaultOptions()
		opts.MaxDepth = 2
		p := position(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
		sel, err := newSelector(opts, book).SelectMove(context.Background(), p)
		if err != nil {
			t.Fatalf("SelectMove: %v", err)
		}
		if book.calls != 1 {
			t.Fatalf("book consulted %d times", book.calls)
		}
		if sel.Source != SourceSearch || sel.Move.String() != "d2d5" {
			t.Fatalf("book %q: got %s from %s, want d2d5 from search", move, sel.Move, sel.Source)
		}
	}
}

func TestSelectorRejectsIllegalBookMove(t *testing.T) {
	book := &bookFromOtherPosition{}
	opts := DefaultOptions()
	opts.MaxDepth = 1
	p := position(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	sel, err := newSelector(opts, book).SelectMove(context.Background(), p)
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if sel.Source != SourceSearch || !p.IsLegal(sel.Move) {
		t.Fatalf("got %s from %s", sel.Move, sel.Source)
	}
}

type bookFromOtherPosition struct{}

func (bookFromOtherPosition) Lookup(*game.Position) (game.Move, bool) {
	m, _ := game.NewPosition().ParseMove("b1c3")
	return m, true
}

func TestSelectorRandomFallback(t *testing.T) {
	// Both White moves allow Rb1#, so every line scores -Inf and search
	// improves on nothing.
	opts := DefaultOptions()
	opts.UseOpeningBook = false
	opts.MaxDepth = 2
	p := position(t, "6k1/8/8/8/8/Pr6/r7/7K w - - 0 1")
	sel, err := newSelector(opts, nil).SelectMove(context.Background(), p)
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if sel.Source != SourceRandom {
		t.Fatalf("source = %s, want random", sel.Source)
	}
	if !p.IsLegal(sel.Move) {
		t.Fatalf("random fallback %s is not legal", sel.Move)
	}
	if sel.Score != BlackMates {
		t.Fatalf("score = %v, want -Inf", sel.Score)
	}
}

func TestSelectorGameOver(t *testing.T) {
	s := newSelector(DefaultOptions(), &fakeBook{move: "e2e4"})
	for _, fen := range []string{
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1",
	} {
		_, err := s.SelectMove(context.Background(), position(t, fen))
		if !errors.Is(err, ErrGameOver) {
			t.Errorf("%q: error = %v, want ErrGameOver", fen, err)
		}
	}
}

func TestSelectorLeavesPositionUnchanged(t *testing.T) {
	opts := DefaultOptions()
	opts.UseOpeningBook = false
	opts.MaxDepth = 3
	s := newSelector(opts, nil)
	for _, fen := range tacticalFENs[:5] {
		p := position(t, fen)
		before := p.FEN()
		sel, err := s.SelectMove(context.Background(), p)
		if err != nil {
			t.Fatalf("%q: %v", fen, err)
		}
		if p.FEN() != before || p.Ply() != 0 {
			t.Fatalf("%q: position changed to %s", fen, p.FEN())
		}
		if !p.IsLegal(sel.Move) {
			t.Fatalf("%q: illegal move %s", fen, sel.Move)
		}
		p.Push(sel.Move)
		p.Pop()
		if p.FEN() != before {
			t.Fatalf("%q: push/pop of %s did not round trip", fen, sel.Move)
		}
	}
}

func TestSelectorGreedy(t *testing.T) {
	s := newSelector(GreedyOptions(), &fakeBook{move: "d2d3"})
	p := position(t, "4k3/3r4/8/8/3Q4/8/8/4K3 b - - 0 1")
	sel, err := s.SelectMove(context.Background(), p)
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if sel.Source != SourceSearch || sel.Move.String() != "d7d4" || sel.Depth != 1 {
		t.Fatalf("got %s from %s at depth %d", sel.Move, sel.Source, sel.Depth)
	}

	sel, err = s.SelectMove(context.Background(), game.NewPosition())
	if err != nil || !game.NewPosition().IsLegal(sel.Move) {
		t.Fatalf("start position: %s, %v", sel.Move, err)
	}
}

func TestSelectorTimeout(t *testing.T) {
	opts := DefaultOptions()
	opts.UseOpeningBook = false
	opts.MaxDepth = MaxSearchDepth
	opts.MoveTimeout = time.Millisecond
	p := position(t, tacticalFENs[3])
	before := p.FEN()

	start := time.Now()
	sel, err := newSelector(opts, nil).SelectMove(context.Background(), p)
	if err != nil {
		t.Fatalf("SelectMove: %v", err)
	}
	if !sel.Aborted {
		t.Fatalf("expected the search to be aborted")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not honoured: %s", time.Since(start))
	}
	if !p.IsLegal(sel.Move) || p.FEN() != before {
		t.Fatalf("aborted selection %s from %s left %s", sel.Move, sel.Source, p.FEN())
	}
}

func TestOptions(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("default options: %v", err)
	}
	g, err := OptionsForVariant("greedy")
	if err != nil || g != GreedyOptions() {
		t.Fatalf("greedy variant: %+v, %v", g, err)
	}
	if g.UseOpeningBook || g.MateAwareEvaluation || g.MaxDepth != 1 {
		t.Fatalf("greedy preset: %+v", g)
	}
	if _, err := OptionsForVariant("stockfish"); err == nil {
		t.Fatalf("unknown variant accepted")
	}
	for _, bad := range []Options{{MaxDepth: -1}, {MaxDepth: MaxSearchDepth + 1}, {MaxDepth: 2, MoveTimeout: -time.Second}} {
		if bad.Validate() == nil {
			t.Errorf("Validate accepted %+v", bad)
		}
	}
	if GreedyOptions().Evaluator() == nil || DefaultOptions().Evaluator() == nil {
		t.Fatalf("nil evaluator")
	}
}
