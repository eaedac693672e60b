package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/config"
	fitmcp "github.com/meltforce/fitcart/internal/mcp"
	"github.com/meltforce/fitcart/internal/profile"
	"github.com/meltforce/fitcart/internal/storage"
	"github.com/meltforce/fitcart/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "FitCart server URL for remote mode (e.g. https://fitcart.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("FITCART_AUTH_API_KEY"), "API key for remote mode")
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitcart-mcp", Version)
		return
	}

	// stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var backend fitmcp.Backend
	if *serverURL != "" {
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: -api-key (or FITCART_AUTH_API_KEY) is required with -server\n")
			os.Exit(1)
		}
		backend = fitmcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "server", *serverURL)
	} else {
		local, cleanup, err := openLocal(ctx, *configPath, log)
		if err != nil {
			log.Error("failed to start local backend", "error", err)
			os.Exit(1)
		}
		defer cleanup()
		backend = local
		log.Info("local mode", "config", *configPath)
	}

	stdio := server.NewStdioServer(fitmcp.New(backend, Version, log))
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// openLocal builds an in-process backend from the server config.
func openLocal(ctx context.Context, configPath string, log *slog.Logger) (*fitmcp.Local, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	profiles, err := profile.Open(cfg.Profile.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening profile store: %w", err)
	}
	cleanup := func() { _ = profiles.Close() }

	var recorder workout.Recorder
	var history fitmcp.HistoryQuerier
	if cfg.Database.Enabled() {
		db, err := storage.New(ctx, cfg.Database.DSN())
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connecting database: %w", err)
		}
		recorder, history = db, db
		cleanup = func() {
			db.Close()
			_ = profiles.Close()
		}
	}

	workouts := workout.NewManager(cart.New(), recorder, log)
	return fitmcp.NewLocal(workouts, profiles, history), cleanup, nil
}
