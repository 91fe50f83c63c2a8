// Package bench holds throughput benchmarks across the move generator
// wrapper, the search and the book.
package bench

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"chess-ai/book"
	"chess-ai/engine"
	"chess-ai/game"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func position(b *testing.B, fen string) *game.Position {
	p, err := game.NewPositionFromFEN(fen)
	if err != nil {
		b.Fatalf("NewPositionFromFEN: %v", err)
	}
	return p
}

func benchPerft(b *testing.B, fen string, depth int) {
	p := position(b, fen)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Perft(depth)
	}
}

func BenchmarkPerft_Initial_D4(b *testing.B)  { benchPerft(b, game.StartFEN, 4) }
func BenchmarkPerft_Kiwipete_D3(b *testing.B) { benchPerft(b, kiwipete, 3) }

func BenchmarkPushPop(b *testing.B) {
	p := position(b, kiwipete)
	moves := append([]game.Move(nil), p.LegalMoves()...)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		p.Push(m)
		p.Pop()
	}
}

func BenchmarkGameOverCheck(b *testing.B) {
	p := position(b, kiwipete)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Push(p.LegalMoves()[0])
		_ = p.IsGameOver()
		p.Pop()
	}
}

func BenchmarkEvaluate(b *testing.B) {
	p := position(b, kiwipete)
	for i := 0; i < b.N; i++ {
		_ = engine.Evaluate(p)
	}
}

func benchSearch(b *testing.B, fen string, depth int) {
	p := position(b, fen)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.Search(p, engine.Evaluate, depth, engine.BlackMates, engine.WhiteMates, p.Turn() == game.White)
	}
}

func BenchmarkSearch_Initial_D3(b *testing.B)  { benchSearch(b, game.StartFEN, 3) }
func BenchmarkSearch_Kiwipete_D3(b *testing.B) { benchSearch(b, kiwipete, 3) }

func BenchmarkSelectMove_Book(b *testing.B) {
	p := game.NewPosition()
	e2, _ := game.ParseSquare("e2")
	e4, _ := game.ParseSquare("e4")
	bk := book.New([]book.Entry{{Key: p.Key(), Raw: book.EncodeMove(e2, e4, game.NoPieceType), Weight: 1}})
	sel := engine.NewSelector(engine.DefaultOptions(), bk, zerolog.Nop())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sel.SelectMove(context.Background(), p); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPolyglotKey(b *testing.B) {
	p := position(b, kiwipete)
	for i := 0; i < b.N; i++ {
		_ = p.Key()
	}
}
