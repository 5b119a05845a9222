package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/logging"
	"github.com/i474232898/city-weather/internal/render"
	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	mock := flag.Bool("mock", cfg.Mode == config.ModeMock, "use the offline mock generator instead of wttr.in")
	flag.Parse()

	opts := cfg.FetcherOptions()
	if *mock {
		opts.Mode = providers.ModeMock
	}

	// Keep diagnostics off stdout, which carries the rendered blocks.
	log := logging.New(os.Stderr, cfg.Env, cfg.LogLevel)

	fetcher, err := providers.New(opts)
	if err != nil {
		log.Error("failed to build weather fetcher", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, fetcher, log, os.Stdin, os.Stdout, os.Stderr); err != nil {
		log.Error("read input", "error", err)
		os.Exit(1)
	}
}

// run reads one city per line from in and prints every state the session
// goes through to out. Validation alerts go to alerts.
func run(ctx context.Context, fetcher weather.Fetcher, log *slog.Logger, in io.Reader, out, alerts io.Writer) error {
	ctrl := session.NewController(fetcher,
		session.WithLogger(log),
		session.WithObserver(func(st session.State) {
			fmt.Fprint(out, render.Text(render.Project(st)))
		}),
	)

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "City: ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		ctrl.SetInput(scanner.Text())
		if _, err := ctrl.Submit(ctx); errors.Is(err, session.ErrEmptyCity) {
			fmt.Fprintln(alerts, session.ValidationMessage)
		}
		fmt.Fprint(out, "City: ")
	}
	fmt.Fprintln(out)
	return scanner.Err()
}
