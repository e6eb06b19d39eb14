package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-desktop-todo/internal/apperrors"
	"go-desktop-todo/internal/commands"
	"go-desktop-todo/internal/config"
	"go-desktop-todo/internal/database"
	"go-desktop-todo/internal/routes"
)

const shutdownTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "api",
		Short:        "Desktop todo backend",
		Long:         "Serves the todo, counter and price commands to the desktop UI.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newInvokeCommand(opts))
	cmd.AddCommand(newCommandsCommand(opts))

	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP bridge for the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newInvokeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "invoke <command> [params-json]",
		Short: "Run a single command and print its JSON result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if len(args) == 2 {
				raw = json.RawMessage(args[1])
			}

			return withDispatcher(opts, func(d *commands.Dispatcher) error {
				result, err := d.Invoke(cmd.Context(), args[0], raw)
				if err != nil {
					return errors.New(apperrors.Message(err))
				}
				out, err := json.Marshal(result)
				if err != nil {
					return fmt.Errorf("encode result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			})
		},
	}
}

func newCommandsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the available commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDispatcher(opts, func(d *commands.Dispatcher) error {
				for _, name := range d.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

// openDB は設定を読み込みデータベースを開きます。
func openDB(opts *rootOptions) (*config.Config, *sql.DB, database.Dialect, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, "", err
	}
	db, dialect, err := database.InitDB(cfg)
	if err != nil {
		return nil, nil, "", err
	}
	return cfg, db, dialect, nil
}

func withDispatcher(opts *rootOptions, fn func(*commands.Dispatcher) error) error {
	cfg, db, dialect, err := openDB(opts)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(routes.NewDispatcher(cfg, db, dialect))
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, db, dialect, err := openDB(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	router := routes.SetupRouter(cfg, db, routes.NewDispatcher(cfg, db, dialect))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on %s...", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Println("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
