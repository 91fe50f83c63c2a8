package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"chess-ai/book"
	"chess-ai/config"
	"chess-ai/engine"
	"chess-ai/server"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	bookPath := flag.String("book", "", "Polyglot book file (overrides config)")
	staticDir := flag.String("static", "", "directory with the web front end")
	variant := flag.String("variant", "", `engine variant, "full" or "greedy" (overrides config)`)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("loading config")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *bookPath != "" {
		cfg.BookPath = *bookPath
	}
	if *staticDir != "" {
		cfg.Static = *staticDir
	}
	if *variant != "" {
		cfg.Engine.Variant = *variant
	}
	// flags bypass Load's validation
	if err := cfg.Validate(); err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("invalid config")
	}

	log := newLogger(cfg)

	opts, _ := cfg.EngineOptions()
	var openings engine.OpeningBook
	if opts.UseOpeningBook {
		b, err := book.Open(cfg.BookPath)
		if err != nil {
			log.Warn().Err(err).Msg("opening book unavailable, searching from move one")
		} else {
			log.Info().Str("path", cfg.BookPath).Int("entries", b.Len()).Msg("opening book loaded")
			openings = b
		}
	}
	selector := engine.NewSelector(opts, openings, log.With().Str("component", "engine").Logger())

	srv := server.New(selector, log.With().Str("component", "server").Logger(),
		server.WithStaticDir(cfg.Static),
		server.WithAccessLog(log.GetLevel() <= zerolog.DebugLevel),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Routes(),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().
		Str("addr", cfg.Addr).
		Str("variant", cfg.Engine.Variant).
		Int("depth", opts.MaxDepth).
		Bool("book", openings != nil).
		Msg("listening")

	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, _ := cfg.Level()
	var logger zerolog.Logger
	if cfg.LogJSON {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
