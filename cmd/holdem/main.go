package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	rand "math/rand/v2"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-advisor/internal/config"
	"github.com/lox/holdem-advisor/internal/history"
	"github.com/lox/holdem-advisor/internal/randutil"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"holdem.hcl" type:"path" help:"Configuration file (defaults apply when it does not exist)"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
	Seed     *int64 `help:"Deterministic RNG seed (optional)"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play Texas Hold'em against autonomous players"`
	Simulate SimulateCmd      `cmd:"" help:"Measure the advisor over many autonomous hands"`
	Evaluate EvaluateCmd      `cmd:"" help:"Name the best five-card hand"`
	Advise   AdviseCmd        `cmd:"" help:"Recommend an action for a spot"`
	Odds     OddsCmd          `cmd:"" help:"Estimate showdown equity between hands"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem"),
		kong.Description("Texas Hold'em with a strategy advisor"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// load reads the configuration file and applies the log level override.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.LogLevel = g.LogLevel
	}
	return cfg, nil
}

func (g *Globals) logger(cfg *config.Config, w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// rng returns the random source for dealing and the seed that replays it.
func (g *Globals) rng() (*rand.Rand, int64) {
	if g.Seed != nil {
		return randutil.New(*g.Seed), *g.Seed
	}
	return randutil.NewFromTime()
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			if logger != nil {
				logger.Info("Received signal, shutting down", "signal", sig.String())
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// openHistory builds the writers named in the history block. With none
// configured hands are not stored.
func openHistory(ctx context.Context, hc *config.HistoryConfig, table string, logger *log.Logger) (history.Writer, error) {
	if hc == nil {
		return history.Nop{}, nil
	}
	var writers history.Multi
	if hc.Directory != "" {
		w, err := history.NewJSONWriter(hc.Directory, logger)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if hc.PHH != "" {
		w, err := history.NewPHHWriter(hc.PHH, table, logger)
		if err != nil {
			return nil, err
		}
		writers = append(writers, w)
	}
	if hc.SQLite != "" {
		w, err := history.OpenSQLite(ctx, hc.SQLite, logger)
		if err != nil {
			_ = writers.Close()
			return nil, err
		}
		writers = append(writers, w)
	}
	switch len(writers) {
	case 0:
		return history.Nop{}, nil
	case 1:
		return writers[0], nil
	}
	return writers, nil
}
