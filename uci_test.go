package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chess-ai/engine"
)

func runUCI(t testing.TB, script string) (*uci, string) {
	t.Helper()
	var out bytes.Buffer
	u := newUCI(&out, zerolog.Nop())
	u.loop(strings.NewReader(script))
	return u, out.String()
}

func TestUCIHandshake(t *testing.T) {
	_, out := runUCI(t, "uci\nisready\nquit\n")
	for _, want := range []string{"id name chess-ai", "option name Depth", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestUCIGoCapturesQueen(t *testing.T) {
	_, out := runUCI(t, "position fen 4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1\ngo depth 2\n")
	if !strings.Contains(out, "bestmove d2d5") {
		t.Fatalf("expected Rxd5:\n%s", out)
	}
	if !strings.Contains(out, "score cp 500") {
		t.Fatalf("expected a +5 pawn score:\n%s", out)
	}
}

func TestUCIPositionMoves(t *testing.T) {
	u, out := runUCI(t, "position startpos moves e2e4 e7e5 g1f3\n")
	if u.pos.Ply() != 3 || len(u.pos.Moves()) != 3 {
		t.Fatalf("ply = %d, output:\n%s", u.pos.Ply(), out)
	}

	u, out = runUCI(t, "position startpos moves e2e4 e2e4\n")
	if u.pos.Ply() != 1 || !strings.Contains(out, "info string") {
		t.Fatalf("illegal move should stop the move list: ply %d\n%s", u.pos.Ply(), out)
	}

	u, out = runUCI(t, "position fen not a fen\n")
	if u.pos.Ply() != 0 || !strings.Contains(out, "Invalid fen") {
		t.Fatalf("bad fen accepted:\n%s", out)
	}
}

func TestUCIMateScore(t *testing.T) {
	_, out := runUCI(t, "position fen r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1\ngo depth 1\n")
	if !strings.Contains(out, "bestmove a8a1") || !strings.Contains(out, "score mate 1") {
		t.Fatalf("expected a mating move from Black's side:\n%s", out)
	}
}

func TestUCIGameOver(t *testing.T) {
	_, out := runUCI(t, "position fen 7k/5Q2/6K1/8/8/8/8/8 b - - 0 1\ngo\n")
	if !strings.Contains(out, "bestmove 0000") {
		t.Fatalf("expected a null move on stalemate:\n%s", out)
	}
}

func TestUCISetOption(t *testing.T) {
	u, out := runUCI(t, strings.Join([]string{
		"setoption name Depth value 3",
		"setoption name OwnBook value false",
		"setoption name MateAware value false",
		"setoption name MoveTime value 100",
		"setoption name Depth value 99",
		"setoption name Hash value 16",
	}, "\n"))
	want := engine.Options{MaxDepth: 3, MoveTimeout: 100 * time.Millisecond}
	if u.opts != want {
		t.Fatalf("options = %+v, want %+v", u.opts, want)
	}
	if !strings.Contains(out, "Unknown option hash") || !strings.Contains(out, "out of range") {
		t.Fatalf("expected rejections:\n%s", out)
	}
}

func BenchmarkUCIGo(b *testing.B) {
	for i := 0; i < b.N; i++ {
		runUCI(b, "position startpos moves e2e4\ngo depth 3\n")
	}
}
