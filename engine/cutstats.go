package engine

import "fmt"

// Stats collects node and cutoff counts for one search.
type Stats struct {
	Nodes       uint64
	Leaves      uint64
	BetaCutoffs uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes %d leaves %d cutoffs %d", s.Nodes, s.Leaves, s.BetaCutoffs)
}
