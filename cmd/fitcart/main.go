package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/config"
	fitmcp "github.com/meltforce/fitcart/internal/mcp"
	"github.com/meltforce/fitcart/internal/profile"
	api "github.com/meltforce/fitcart/internal/server"
	"github.com/meltforce/fitcart/internal/storage"
	"github.com/meltforce/fitcart/internal/workout"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	planPath := flag.String("plan", "", "optional YAML workout plan to preload into the cart")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FitCart starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Session history is optional
	var db *storage.DB
	if cfg.Database.Enabled() {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		if *migrateOnly {
			log.Info("migrate-only: exiting")
			return
		}

		db, err = storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")
	} else {
		if *migrateOnly {
			log.Error("migrate-only requires a database")
			os.Exit(1)
		}
		log.Info("no database configured, session history disabled")
	}

	// Profile store
	profiles, err := profile.Open(cfg.Profile.Dir)
	if err != nil {
		log.Error("failed to open profile store", "error", err)
		os.Exit(1)
	}
	defer profiles.Close()

	// Cart and session manager
	c := cart.New()
	if *planPath != "" {
		plan, err := cart.LoadPlan(*planPath)
		if err != nil {
			log.Error("failed to load plan", "error", err)
			os.Exit(1)
		}
		if err := plan.Fill(c); err != nil {
			log.Error("failed to fill cart from plan", "error", err)
			os.Exit(1)
		}
		log.Info("plan loaded", "name", plan.Name, "items", c.Len())
	}

	// A nil *storage.DB must not become a non-nil interface.
	var recorder workout.Recorder
	var history api.History
	var mcpHistory fitmcp.HistoryQuerier
	if db != nil {
		recorder, history, mcpHistory = db, db, db
	}
	workouts := workout.NewManager(c, recorder, log)

	// Create server
	srv := api.New(workouts, profiles, history, cfg.Auth.APIKey, log)
	mcpSrv := fitmcp.New(fitmcp.NewLocal(workouts, profiles, mcpHistory), Version, log)
	srv.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv))

	// Start server: tsnet or plain HTTP
	var listener net.Listener

	if cfg.Tailscale.Enabled {
		tsServer := &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if _, err := workouts.CancelSession(shutdownCtx); err == nil {
		log.Info("active session cancelled on shutdown")
	}
	log.Info("server stopped")
}
