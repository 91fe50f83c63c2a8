package engine

import (
	"testing"

	"chess-ai/game"
)

func TestEvaluateStartIsBalanced(t *testing.T) {
	p := game.NewPosition()
	if got := Evaluate(p); got != 0 {
		t.Fatalf("Evaluate(start) = %v, want 0", got)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want Score
	}{
		{"4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1", -4},
		{"4k3/8/8/8/8/8/PPPP4/RNB1K3 w - - 0 1", 15},
		{"rnbqkbnr/pppppppp/8/8/8/8/8/4K3 w - - 0 1", -39},
	}
	for _, c := range cases {
		p := position(t, c.fen)
		if got := EvaluateMaterial(p); got != c.want {
			t.Errorf("EvaluateMaterial(%q) = %v, want %v", c.fen, got, c.want)
		}
		if got := Evaluate(p); got != c.want {
			t.Errorf("Evaluate(%q) = %v, want %v", c.fen, got, c.want)
		}
	}
}

func TestEvaluateMateSentinels(t *testing.T) {
	// White to move and mated.
	p := position(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if got := Evaluate(p); got != BlackMates || !got.IsMate() {
		t.Fatalf("fool's mate = %v, want -Inf", got)
	}
	// Black to move and mated, despite being up material.
	p = position(t, "R5k1/5ppp/8/8/8/pppp4/8/6K1 b - - 0 1")
	if got := Evaluate(p); got != WhiteMates {
		t.Fatalf("back rank mate = %v, want +Inf", got)
	}
	if WhiteMates <= 1e300 || BlackMates >= -1e300 {
		t.Fatalf("sentinels must dominate finite scores")
	}
	// Material-only scoring ignores the mate.
	if got := EvaluateMaterial(p); got != -2 {
		t.Fatalf("EvaluateMaterial = %v, want -2", got)
	}
}

func TestEvaluateStalemate(t *testing.T) {
	p := position(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if got := Evaluate(p); got != DrawScore {
		t.Fatalf("stalemate = %v, want 0", got)
	}
	if got := EvaluateMaterial(p); got != 9 {
		t.Fatalf("material-only stalemate = %v, want 9", got)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	for _, fen := range tacticalFENs {
		p := position(t, fen)
		before, key := p.FEN(), p.Key()
		a, b := Evaluate(p), Evaluate(p)
		if a != b {
			t.Errorf("%q: Evaluate not deterministic: %v vs %v", fen, a, b)
		}
		if p.FEN() != before || p.Key() != key || p.Ply() != 0 {
			t.Errorf("%q: Evaluate mutated the position", fen)
		}
	}
}
