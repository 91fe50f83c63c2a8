package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chess-ai/book"
	"chess-ai/engine"
	"chess-ai/game"
)

func main() {
	bookPath := flag.String("book", "book.bin", "Polyglot opening book")
	debug := flag.Bool("debug", false, "log engine decisions to stderr")
	flag.Parse()

	level := zerolog.WarnLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	u := newUCI(os.Stdout, logger)
	if b, err := book.Open(*bookPath); err != nil {
		logger.Warn().Err(err).Msg("opening book unavailable")
	} else {
		u.book = b
	}
	u.loop(os.Stdin)
}

type uci struct {
	out  io.Writer
	log  zerolog.Logger
	pos  *game.Position
	opts engine.Options
	book *book.Book
}

func newUCI(out io.Writer, logger zerolog.Logger) *uci {
	return &uci{
		out:  out,
		log:  logger,
		pos:  game.NewPosition(),
		opts: engine.DefaultOptions(),
	}
}

func (u *uci) println(a ...any) { fmt.Fprintln(u.out, a...) }

func (u *uci) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "uci":
			u.println("id name chess-ai")
			u.println("id author chess-ai")
			u.println(fmt.Sprintf("option name Depth type spin default %d min 0 max %d", u.opts.MaxDepth, engine.MaxSearchDepth))
			u.println(fmt.Sprintf("option name OwnBook type check default %t", u.opts.UseOpeningBook))
			u.println(fmt.Sprintf("option name MateAware type check default %t", u.opts.MateAwareEvaluation))
			u.println("option name MoveTime type spin default 0 min 0 max 3600000")
			u.println("uciok")
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.pos = game.NewPosition()
		case "quit":
			return
		case "stop":
			// Searches run synchronously; nothing is in flight.
		case "position":
			u.position(tokens[1:])
		case "go":
			u.goCmd(tokens[1:])
		case "setoption":
			u.setOption(tokens[1:])
		case "eval":
			u.println(fmt.Sprintf("info string eval %v material %v", engine.Evaluate(u.pos), engine.EvaluateMaterial(u.pos)))
		case "d":
			u.println(u.pos.String())
			u.println("Fen:", u.pos.FEN())
			u.println(fmt.Sprintf("Key: %016X", u.pos.Key()))
		default:
			u.println("info string Unknown command", tokens[0])
		}
	}
}

func (u *uci) position(args []string) {
	if len(args) == 0 {
		u.println("info string Malformed position command")
		return
	}
	var pos *game.Position
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		pos = game.NewPosition()
	case "fen":
		end := len(rest)
		for i, tok := range rest {
			if strings.ToLower(tok) == "moves" {
				end = i
				break
			}
		}
		p, err := game.NewPositionFromFEN(strings.Join(rest[:end], " "))
		if err != nil {
			u.println("info string Invalid fen position:", err)
			return
		}
		pos = p
		rest = rest[end:]
	default:
		u.println("info string Invalid position subcommand")
		return
	}
	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, s := range rest[1:] {
			if _, err := pos.Apply(s); err != nil {
				u.println("info string", err)
				break
			}
		}
	}
	u.pos = pos
}

func (u *uci) goCmd(args []string) {
	opts := u.opts
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "depth", "movetime":
			if i+1 >= len(args) {
				u.println("info string Malformed go command option", args[i])
				continue
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil || n < 0 {
				u.println("info string Malformed go command option; could not convert", args[i])
				i++
				continue
			}
			if strings.ToLower(args[i]) == "depth" {
				opts.MaxDepth = min(n, engine.MaxSearchDepth)
			} else {
				opts.MoveTimeout = time.Duration(n) * time.Millisecond
			}
			i++
		case "wtime", "btime", "winc", "binc", "movestogo":
			// Fixed-depth engine: clock information is ignored.
			i++
		case "infinite":
		default:
			u.println("info string Unknown go subcommand", args[i])
		}
	}

	var openings engine.OpeningBook
	if u.book != nil {
		openings = u.book
	}
	selector := engine.NewSelector(opts, openings, u.log)
	sel, err := selector.SelectMove(context.Background(), u.pos)
	if err != nil {
		u.println("info string", err)
		u.println("bestmove", game.NoMove)
		return
	}
	if sel.Source != engine.SourceBook {
		u.println(fmt.Sprintf("info depth %d score %s nodes %d time %d string %s",
			sel.Depth, uciScore(sel.Score, u.pos.Turn()), sel.Stats.Nodes, sel.Elapsed.Milliseconds(), sel.Source))
	} else {
		u.println("info string book move")
	}
	u.println("bestmove", sel.Move)
}

// uciScore converts a White-positive score in pawns to the side-to-move
// perspective UCI expects. The search does not track mate distance.
func uciScore(s engine.Score, turn game.Color) string {
	if turn == game.Black {
		s = -s
	}
	if math.IsInf(float64(s), 1) {
		return "mate 1"
	}
	if math.IsInf(float64(s), -1) {
		return "mate -1"
	}
	return fmt.Sprintf("cp %d", int(math.Round(float64(s)*100)))
}

// setOption handles "setoption name <id> value <x>".
func (u *uci) setOption(args []string) {
	var name, value string
	for i := 0; i+1 < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "name":
			name = strings.ToLower(args[i+1])
		case "value":
			value = strings.ToLower(args[i+1])
		}
	}
	opts := u.opts
	switch name {
	case "depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			u.println("info string Invalid Depth", value)
			return
		}
		opts.MaxDepth = n
	case "ownbook":
		opts.UseOpeningBook = value == "true"
	case "mateaware":
		opts.MateAwareEvaluation = value == "true"
	case "movetime":
		n, err := strconv.Atoi(value)
		if err != nil {
			u.println("info string Invalid MoveTime", value)
			return
		}
		opts.MoveTimeout = time.Duration(n) * time.Millisecond
	default:
		u.println("info string Unknown option", name)
		return
	}
	if err := opts.Validate(); err != nil {
		u.println("info string", err)
		return
	}
	u.opts = opts
}
