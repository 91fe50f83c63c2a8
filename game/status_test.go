package game

import "testing"

func TestCheckmate_FoolsMate(t *testing.T) {
	// Black just played Qh4#, White to move and is checkmated.
	p := mustFEN(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if !p.IsCheck() {
		t.Fatalf("expected White to be in check")
	}
	if !p.IsCheckmate() || p.IsStalemate() {
		t.Fatalf("expected checkmate, not stalemate")
	}
	if !p.IsGameOver() || p.Result() != "0-1" || p.Termination() != "checkmate" {
		t.Fatalf("game over=%v result=%s termination=%s", p.IsGameOver(), p.Result(), p.Termination())
	}
}

func TestCheckmate_BackRank(t *testing.T) {
	p := mustFEN(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	if !p.IsCheckmate() {
		t.Fatalf("expected Black to be mated")
	}
	if p.Result() != "1-0" {
		t.Fatalf("Result() = %s, want 1-0", p.Result())
	}
}

func TestStalemate_Basic(t *testing.T) {
	p := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if p.IsCheck() || p.IsCheckmate() {
		t.Fatalf("expected Black not in check")
	}
	if !p.IsStalemate() || !p.IsGameOver() {
		t.Fatalf("expected stalemate")
	}
	if p.Result() != "1/2-1/2" {
		t.Fatalf("Result() = %s", p.Result())
	}
}

func TestMateInOne_MakeAndDetect(t *testing.T) {
	p := mustFEN(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	if p.IsGameOver() {
		t.Fatalf("position should still be playable")
	}
	if _, err := p.Apply("g6g7"); err != nil {
		t.Fatalf("Apply(g6g7): %v", err)
	}
	if !p.IsCheckmate() {
		t.Fatalf("expected Qxg7 to mate")
	}
	p.Pop()
	if p.IsCheckmate() || p.Turn() != White {
		t.Fatalf("pop did not restore the pre-mate position")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KN2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KB2 w - - 0 1", true},
		{"4kb2/8/8/8/8/8/8/4KB2 w - - 0 1", false},
		{"2b5/4k3/8/8/8/8/8/4KB2 w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/3NKN2 w - - 0 1", false},
		{"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1", false},
		{"4k3/8/8/8/8/8/8/4KR2 w - - 0 1", false},
	}
	for _, c := range cases {
		p := mustFEN(t, c.fen)
		if got := p.IsInsufficientMaterial(); got != c.want {
			t.Errorf("IsInsufficientMaterial(%q) = %v, want %v", c.fen, got, c.want)
		}
		if c.want && p.Result() != "1/2-1/2" {
			t.Errorf("dead position %q should be drawn, got %s", c.fen, p.Result())
		}
	}
}

func TestFivefoldRepetition(t *testing.T) {
	p := NewPosition()
	cycle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for i := 0; i < 4; i++ {
		if p.IsFivefoldRepetition() {
			t.Fatalf("fivefold reported after %d cycles", i)
		}
		if i == 2 && !p.IsThreefoldRepetition() {
			t.Fatalf("expected threefold after two cycles")
		}
		for _, s := range cycle {
			if _, err := p.Apply(s); err != nil {
				t.Fatalf("Apply(%s): %v", s, err)
			}
		}
	}
	if !p.IsFivefoldRepetition() || !p.IsGameOver() {
		t.Fatalf("expected fivefold repetition after four cycles")
	}
	if p.Result() != "1/2-1/2" || p.Termination() != "fivefold_repetition" {
		t.Fatalf("result=%s termination=%s", p.Result(), p.Termination())
	}
	p.Pop()
	if p.IsFivefoldRepetition() {
		t.Fatalf("pop should undo the repetition")
	}
}

func TestSeventyFiveMoveRule(t *testing.T) {
	p := mustFEN(t, "4k3/8/8/8/8/8/8/R3K3 w - - 149 120")
	if p.IsSeventyFiveMoves() {
		t.Fatalf("149 plies is not yet a draw")
	}
	if _, err := p.Apply("a1a2"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !p.IsSeventyFiveMoves() || !p.IsGameOver() {
		t.Fatalf("expected a 75-move draw at halfmove clock %d", p.HalfmoveClock())
	}
}
