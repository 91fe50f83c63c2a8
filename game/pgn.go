package game

import (
	"fmt"
	"sort"

	"github.com/notnil/chess"
)

// PGN exports the moves played since the position was created, adding tags
// in key order.
func (p *Position) PGN(tags map[string]string) (string, error) {
	var opts []func(*chess.Game)
	if p.startFEN != StartFEN {
		fenOpt, err := chess.FEN(p.startFEN)
		if err != nil {
			return "", fmt.Errorf("pgn: start position: %w", err)
		}
		opts = append(opts, fenOpt)
	}
	g := chess.NewGame(opts...)

	for i, m := range p.moves {
		mv, err := chess.UCINotation{}.Decode(g.Position(), m.String())
		if err != nil {
			return "", fmt.Errorf("pgn: move %d %s: %w", i+1, m, err)
		}
		if err := g.Move(mv); err != nil {
			return "", fmt.Errorf("pgn: move %d %s: %w", i+1, m, err)
		}
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		g.AddTagPair(k, tags[k])
	}
	return g.String(), nil
}
