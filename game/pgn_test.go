package game

import (
	"strings"
	"testing"
)

func TestPGNExport(t *testing.T) {
	p := NewPosition()
	for _, s := range []string{"e2e4", "e7e5", "g1f3"} {
		if _, err := p.Apply(s); err != nil {
			t.Fatalf("Apply(%s): %v", s, err)
		}
	}
	pgn, err := p.PGN(map[string]string{"Event": "casual"})
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	for _, want := range []string{`[Event "casual"]`, "e4", "e5", "Nf3"} {
		if !strings.Contains(pgn, want) {
			t.Errorf("PGN missing %q:\n%s", want, pgn)
		}
	}
}

func TestPGNExportFromFEN(t *testing.T) {
	p := mustFEN(t, "7k/6pp/6Q1/8/8/2B5/8/6K1 w - - 0 1")
	if _, err := p.Apply("g6g7"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	pgn, err := p.PGN(nil)
	if err != nil {
		t.Fatalf("PGN: %v", err)
	}
	if !strings.Contains(pgn, "Qxg7#") {
		t.Errorf("expected mating SAN in PGN:\n%s", pgn)
	}
	if !strings.Contains(pgn, "1-0") {
		t.Errorf("expected 1-0 result in PGN:\n%s", pgn)
	}
}
