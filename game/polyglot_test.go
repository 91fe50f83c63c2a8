package game

import "testing"

// Reference keys from the Polyglot book format description.
func TestPolyglotKey(t *testing.T) {
	cases := []struct {
		moves []string
		key   uint64
	}{
		{nil, 0x463b96181691fc9c},
		{[]string{"e2e4"}, 0x823c9b50fd114196},
		{[]string{"e2e4", "d7d5"}, 0x0756b94461c50fb0},
		{[]string{"e2e4", "d7d5", "e4e5"}, 0x662fafb965db29d4},
		{[]string{"e2e4", "d7d5", "e4e5", "f7f5"}, 0x22a48b5a8e47ff78},
		{[]string{"e2e4", "d7d5", "e4e5", "f7f5", "e1e2"}, 0x652a607ca3f242c1},
		{[]string{"e2e4", "d7d5", "e4e5", "f7f5", "e1e2", "e8f7"}, 0x00fdd303c946bdd9},
		{[]string{"a2a4", "b7b5", "h2h4", "b5b4", "c2c4"}, 0x3c8123ea7b067637},
		{[]string{"a2a4", "b7b5", "h2h4", "b5b4", "c2c4", "b4c3", "a1a3"}, 0x5c3f9b829b279560},
	}
	for _, c := range cases {
		p := NewPosition()
		for _, s := range c.moves {
			if _, err := p.Apply(s); err != nil {
				t.Fatalf("Apply(%s): %v", s, err)
			}
		}
		if got := p.Key(); got != c.key {
			t.Errorf("key after %v = %016x, want %016x", c.moves, got, c.key)
		}
	}
}

func TestPolyglotKeyIsPure(t *testing.T) {
	p := mustFEN(t, kiwipete)
	fen := p.FEN()
	if p.Key() != p.Key() {
		t.Fatalf("Key is not deterministic")
	}
	if p.FEN() != fen {
		t.Fatalf("Key mutated the position")
	}
}
