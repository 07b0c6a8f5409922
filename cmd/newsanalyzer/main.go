package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"NewsAnalyzer/internal/app"
	"NewsAnalyzer/internal/batch"
	"NewsAnalyzer/internal/config"
	"NewsAnalyzer/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	triggerPath := flag.String("trigger", "trigger.json", "path to the batch trigger file")
	flag.Parse()

	// Local credentials live in .env; absence is fine in deployed environments.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.Logging.Level)

	trigger, err := batch.Load(*triggerPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx, trigger)
}
