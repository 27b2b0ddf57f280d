package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github-traffic-tracker/internal/api"
	"github-traffic-tracker/internal/config"
	custom_errors "github-traffic-tracker/internal/errors"
	"github-traffic-tracker/internal/registry"
)

const shutdownTimeout = 10 * time.Second

// withApp loads configuration, builds the app and runs fn with it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	envDir, _ := cmd.Flags().GetString("env-dir")
	cfg, err := config.LoadConfig(envDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)
	logger.Info("Configuration loaded successfully")

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "service",
		Short: "Collects GitHub repository traffic and serves aggregated statistics.",
		Long: `service periodically pulls view and clone counts for the tracked
repositories from the GitHub traffic API, stores one sample per repository
and day, and serves windowed statistics over HTTP.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().String("env-dir", ".", "Directory containing an optional .env file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server and the collection scheduler (default)",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "collect",
			Short: "Run one collection cycle and print its report",
			RunE:  runCollect,
		},
		newReposCmd(),
		newTokenCmd(),
	)
	return root
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		srv := &http.Server{
			Addr:              a.cfg.HTTPAddr,
			Handler:           api.NewRouter(a.deps(), a.logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if err := a.scheduler.Start(a.cfg.CollectInterval); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("HTTP server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		a.logger.Info("Application started. Waiting for shutdown signal...")
		select {
		case <-ctx.Done():
			a.logger.Info("Shutdown signal received. Exiting.")
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

func runCollect(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		report, err := a.scheduler.TriggerNow(ctx)
		if errors.Is(err, custom_errors.ErrMissingCredential) {
			fmt.Fprintln(os.Stderr, "GitHub token not set; run `service token set <token>` first.")
			return nil
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, report)
	})
}

func newReposCmd() *cobra.Command {
	repos := &cobra.Command{
		Use:   "repos",
		Short: "Manage tracked repositories",
	}
	repos.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tracked repositories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd, func(ctx context.Context, a *app) error {
					list, err := a.registry.List(ctx)
					if err != nil {
						return err
					}
					for _, r := range list {
						fmt.Fprintln(cmd.OutOrStdout(), r.FullName())
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add owner/name",
			Short: "Start tracking a repository",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, name, err := registry.ParseFullName(args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app) error {
					_, err := a.registry.Add(ctx, owner, name)
					return err
				})
			},
		},
		newRemoveCmd(),
		&cobra.Command{
			Use:   "wipe owner/name",
			Short: "Delete all stored traffic of a repository",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				owner, name, err := registry.ParseFullName(args[0])
				if err != nil {
					return err
				}
				return withApp(cmd, func(ctx context.Context, a *app) error {
					n, err := a.store.Wipe(ctx, owner, name)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "deleted %d samples\n", n)
					return nil
				})
			},
		},
	)
	return repos
}

func newRemoveCmd() *cobra.Command {
	remove := &cobra.Command{
		Use:   "remove owner/name",
		Short: "Stop tracking a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, name, err := registry.ParseFullName(args[0])
			if err != nil {
				return err
			}
			wipe, _ := cmd.Flags().GetBool("wipe")
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if wipe {
					if _, err := a.store.Wipe(ctx, owner, name); err != nil {
						return err
					}
				}
				return a.registry.Remove(ctx, owner, name)
			})
		},
	}
	remove.Flags().Bool("wipe", false, "Delete the repository's traffic data before removing it")
	return remove
}

func newTokenCmd() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage the GitHub access token",
	}
	token.AddCommand(&cobra.Command{
		Use:   "set TOKEN",
		Short: "Store the GitHub access token used for traffic API calls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.tokens.Set(ctx, args[0])
			})
		},
	})
	return token
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
