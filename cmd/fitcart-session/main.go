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
	"strconv"
	"strings"
	"time"

	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/config"
	"github.com/meltforce/fitcart/internal/output"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/storage"
	"github.com/meltforce/fitcart/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	planPath := flag.String("plan", "", "path to a YAML workout plan")
	configPath := flag.String("config", "", "optional config file; its database records the session")
	showHistory := flag.Bool("history", false, "list recorded sessions from the last 30 days and exit")
	verbose := flag.Bool("verbose", false, "show log output")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("fitcart-session", Version)
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ui := output.New()
	ui.Verbose = *verbose
	ctx := context.Background()

	var db *storage.DB
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			ui.Error("failed to load config: %v", err)
			os.Exit(1)
		}
		if cfg.Database.Enabled() {
			db, err = storage.New(ctx, cfg.Database.DSN())
			if err != nil {
				ui.Error("failed to connect database: %v", err)
				os.Exit(1)
			}
			defer db.Close()
			ui.VerboseLog("recording sessions to %s", cfg.Database.Host)
		}
	}

	if *showHistory {
		if db == nil {
			ui.Error("-history needs -config with a database")
			os.Exit(1)
		}
		end := time.Now()
		logs, err := db.QuerySessionLogs(ctx, end.AddDate(0, 0, -30), end, 50)
		if err != nil {
			ui.Error("failed to query history: %v", err)
			os.Exit(1)
		}
		ui.History(logs)
		return
	}

	if *planPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: fitcart-session -plan <plan.yaml> [-config config.yaml] [-verbose]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	plan, err := cart.LoadPlan(*planPath)
	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
	c := cart.New()
	if err := plan.Fill(c); err != nil {
		ui.Error("plan %q: %v", plan.Name, err)
		os.Exit(1)
	}

	var recorder workout.Recorder
	if db != nil {
		recorder = db
	}
	m := workout.NewManager(c, recorder, log)

	ui.Info("plan %s", output.Cyan(plan.Name))
	ui.Cart(c.Items())

	st, err := run(ctx, m, ui, os.Stdin)
	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
	switch st.Status {
	case session.StatusCompleted:
		ui.Success("workout complete: %d sets, %d cardio minutes", st.SetsDone(), st.CardioMinutes())
	case session.StatusCancelled:
		ui.Warning("workout cancelled")
	}
}

const help = "enter: complete  d <n>: mark entry n done  q: cancel  ?: help"

// run drives a session from line commands on in until it ends or in closes.
// Closing the input cancels the session.
func run(ctx context.Context, m *workout.Manager, ui *output.UI, in io.Reader) (session.State, error) {
	st, err := m.StartSession()
	if err != nil {
		return session.State{}, err
	}
	ui.Info("%s", help)

	scanner := bufio.NewScanner(in)
	for {
		ui.Session(st)
		fmt.Fprint(ui.Out, "> ")
		if !scanner.Scan() {
			return m.CancelSession(ctx)
		}

		next, err := step(ctx, m, strings.TrimSpace(scanner.Text()), st)
		switch {
		case errors.Is(err, errHelp):
			ui.Info("%s", help)
			continue
		case err != nil:
			ui.Warning("%v", err)
			continue
		}
		st = next
		if st.Status != session.StatusActive {
			return st, nil
		}
	}
}

var errHelp = errors.New("help")

func step(ctx context.Context, m *workout.Manager, cmd string, st session.State) (session.State, error) {
	switch {
	case cmd == "":
		return m.Complete(ctx)
	case cmd == "q":
		return m.CancelSession(ctx)
	case cmd == "?":
		return session.State{}, errHelp
	case strings.HasPrefix(cmd, "d "):
		n, err := strconv.Atoi(strings.TrimSpace(cmd[2:]))
		if err != nil || n < 1 || n > len(st.Entries) {
			return session.State{}, fmt.Errorf("no entry %q", cmd[2:])
		}
		return m.MarkDone(ctx, st.Entries[n-1].ID)
	default:
		return session.State{}, fmt.Errorf("unknown command %q (? for help)", cmd)
	}
}
