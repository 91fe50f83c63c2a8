package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	"chess-ai/engine"
	"chess-ai/game"
)

func main() {
	depthFlag := flag.Int("depth", 4, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	material := flag.Bool("material", false, "use the material-only evaluator")
	timeout := flag.Duration("timeout", 0, "per-search time limit (0 = none)")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	verbose := flag.Bool("v", false, "log every selection")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !*verbose {
		logger = logger.Level(zerolog.InfoLevel)
	}

	opts := engine.Options{
		MaxDepth:            *depthFlag,
		MateAwareEvaluation: !*material,
		MoveTimeout:         *timeout,
	}
	if err := opts.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid options")
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
		}()
	}

	fen := game.StartFEN
	if *fenFlag != "" {
		fen = *fenFlag
	}
	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, opts.MaxDepth, *repeatFlag)

	selector := engine.NewSelector(opts, nil, logger)
	var nodes uint64
	startAll := time.Now()
	for i := 0; i < *repeatFlag; i++ {
		pos, err := game.NewPositionFromFEN(fen)
		if err != nil {
			logger.Fatal().Err(err).Msg("bad FEN")
		}
		sel, err := selector.SelectMove(context.Background(), pos)
		if err != nil {
			logger.Fatal().Err(err).Msg("no move")
		}
		nodes += sel.Stats.Nodes
		fmt.Printf("iteration %d: bestmove %s score %v %s time=%v aborted=%v\n",
			i+1, sel.Move, sel.Score, sel.Stats, sel.Elapsed, sel.Aborted)
	}
	total := time.Since(startAll)
	fmt.Printf("total time: %v nodes: %d nps: %.0f\n", total, nodes, float64(nodes)/total.Seconds())
}
