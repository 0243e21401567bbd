package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightapp/config"
	"github.com/Domenick1991/flightapp/internal/bootstrap"
	"github.com/Domenick1991/flightapp/internal/console"
	"github.com/Domenick1991/flightapp/internal/logger"
	"github.com/Domenick1991/flightapp/internal/repository"
	"github.com/chzyer/readline"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "flightctl",
		Short: "Flight reservation engine tools",
	}
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "path to the YAML config")

	root.AddCommand(newConsoleCommand(), newMigrateCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive reservation console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := bootstrap.NewServices(ctx, cfg, zl)
			if err != nil {
				return err
			}
			defer svc.Close()

			return shellLoop(ctx, console.New(svc.Accounts, svc.Search, svc.Bookings, cmd.OutOrStdout()))
		},
	}
}

func newMigrateCommand() *cobra.Command {
	var clearTables bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema; --clear also empties users, itineraries and reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, zl, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = zl.Sync() }()

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			if err := repository.Migrate(ctx, pool); err != nil {
				return err
			}
			zl.Info("schema applied")
			if clearTables {
				if err := repository.ClearTables(ctx, pool); err != nil {
					return err
				}
				zl.Info("tables cleared")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearTables, "clear", false, "delete all users, itineraries and reservations (flights are kept)")
	return cmd
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	zl, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, zl, nil
}

func shellLoop(ctx context.Context, c *console.Console) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		InterruptPrompt:   "^C",
		EOFPrompt:         "quit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	for {
		line, err := l.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			continue
		}
		if !c.Execute(ctx, line) {
			return nil
		}
	}
}
