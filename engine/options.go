package engine

import (
	"fmt"
	"time"
)

// MaxSearchDepth bounds Options.MaxDepth; the search has no pruning beyond
// alpha-beta, so deeper settings never finish in practice.
const MaxSearchDepth = 12

// Options selects between the engine variants: the full engine (book,
// mate-aware evaluation, deeper search) and the greedy one-ply material player.
type Options struct {
	MaxDepth            int
	UseOpeningBook      bool
	MateAwareEvaluation bool

	// MoveTimeout caps a single move selection; zero means no limit.
	MoveTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxDepth:            5,
		UseOpeningBook:      true,
		MateAwareEvaluation: true,
	}
}

// GreedyOptions picks the best immediate material outcome, without book.
func GreedyOptions() Options {
	return Options{MaxDepth: 1}
}

// OptionsForVariant maps a variant name ("full" or "greedy") to its preset.
func OptionsForVariant(name string) (Options, error) {
	switch name {
	case "", "full":
		return DefaultOptions(), nil
	case "greedy":
		return GreedyOptions(), nil
	}
	return Options{}, fmt.Errorf("unknown engine variant %q", name)
}

func (o Options) Validate() error {
	if o.MaxDepth < 0 || o.MaxDepth > MaxSearchDepth {
		return fmt.Errorf("max depth %d out of range [0, %d]", o.MaxDepth, MaxSearchDepth)
	}
	if o.MoveTimeout < 0 {
		return fmt.Errorf("negative move timeout %s", o.MoveTimeout)
	}
	return nil
}

// Evaluator returns the leaf evaluator the options ask for.
func (o Options) Evaluator() Evaluator {
	if o.MateAwareEvaluation {
		return Evaluate
	}
	return EvaluateMaterial
}
