package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/safar/artprint/internal/config"
	"github.com/safar/artprint/internal/errs"
	"github.com/safar/artprint/internal/tracing"
)

const usage = `usage: artprint <command> [flags]

commands:
  signin -token T          store the bearer token
  signout                  forget the token
  nav [-path P]            show navigation for the current session
  products list|show|create|update|delete|form
  orders                   show your orders
  buy -product ID -qty N   place an order
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errs.Message(err, "something went wrong"))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return errs.Validation("expected a subcommand")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log, stderr)
	log.Logger = logger

	tp, err := tracing.InitTracing(ctx, cfg.Tracing.CollectorHost)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("tracer shutdown")
			}
		}()
	}

	a, err := newApp(ctx, cfg, logger, stdout)
	if err != nil {
		return err
	}
	defer a.close()

	return a.dispatch(ctx, args)
}

func newLogger(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(w)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
