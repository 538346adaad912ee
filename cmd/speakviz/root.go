package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-speakviz/internal/config"
	"github.com/teslashibe/go-speakviz/internal/log"
	"github.com/teslashibe/go-speakviz/pkg/session"
	facesignal "github.com/teslashibe/go-speakviz/pkg/signal"
	"github.com/teslashibe/go-speakviz/pkg/store"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg is resolved from .env, the environment and flags before every command.
	cfg config.Config

	envFile  string
	logLevel string
	dbPath   string
	backend  string
)

var rootCmd = &cobra.Command{
	Use:           "speakviz",
	Short:         "Head orientation and eye-contact analysis for speakers",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			cfg = config.Load(envFile)
		} else {
			cfg = config.Load()
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}
		if cmd.Flags().Changed("backend") {
			cfg.Backend = backend
		}

		log.InitWithOptions(log.Options{
			Level: cfg.LogLevel,
			File:  cfg.LogFile,
			JSON:  cfg.IsProduction(),
		})
		return nil
	},
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	// Cancelled on Ctrl+C (SIGINT) or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath, "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", config.DefaultBackend, "Signal backend: landmark or gesture")
}

// newRecorder builds a recorder for the configured backend.
func newRecorder() (*session.Recorder, error) {
	source, err := facesignal.New(cfg.Backend)
	if err != nil {
		return nil, err
	}
	rc := session.DefaultConfig()
	rc.SampleInterval = cfg.SampleInterval
	rc.Metrics.HistoryCap = cfg.HistoryCap
	return session.New(rc, source), nil
}

// openStore opens the report database.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	return st, nil
}
