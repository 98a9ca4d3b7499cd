package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/reshetovitsme/channel-mirror/internal/di"
	channelService "github.com/reshetovitsme/channel-mirror/internal/modules/channel/service"
	mirrorService "github.com/reshetovitsme/channel-mirror/internal/modules/mirror/service"
	"github.com/reshetovitsme/channel-mirror/internal/shared/config"
	httpServer "github.com/reshetovitsme/channel-mirror/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func main() {
	setupLogging()

	root := &cobra.Command{
		Use:           "channel-mirror",
		Short:         "Mirror every post of one Telegram channel into another",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	root.AddCommand(resolveCommand())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

// logLevel is raised to debug once the config names a development environment
var logLevel = new(slog.LevelVar)

func setupLogging() {
	// Human-readable lines on stdout, errors also as JSON on stderr
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	logger := slog.New(slogmulti.Fanout(textHandler, jsonHandler))
	slog.SetDefault(logger)
}

func run(ctx context.Context) error {
	injector, err := di.Setup()
	if err != nil {
		return err
	}

	// Missing configuration is the only failure that stops the process
	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		return err
	}
	logLevel.Set(cfg.LogLevel())
	supervisor := do.MustInvoke[*mirrorService.Supervisor](injector)
	server := do.MustInvoke[*httpServer.Server](injector)
	_ = do.MustInvoke[*bot.Bot](injector) // wires the platform client into the services

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := di.Shutdown(shutdownCtx, injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	slog.Info("Channel mirror started",
		"source", cfg.SourceChannel,
		"target", cfg.TargetChannel,
		"port", cfg.Port,
		"album_delay", cfg.AlbumDelay(),
		"edit_policy", cfg.EditPolicy,
	)
	slog.Info("Press Ctrl+C to stop")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		return supervisor.Run(gctx)
	})

	err = g.Wait()
	slog.Info("Shutting down...")
	return err
}

func resolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <reference>...",
		Short: "Print the numeric id of channel references (@handle, t.me link or id)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			injector, err := di.Setup()
			if err != nil {
				return err
			}
			if _, err := do.Invoke[*bot.Bot](injector); err != nil {
				return err
			}
			resolver := do.MustInvoke[*channelService.Service](injector)

			failed := false
			for _, ref := range args {
				identity, err := resolver.Resolve(cmd.Context(), ref)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.ErrOrStderr(), "%s\terror: %v\n", ref, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", ref, identity.ID)
			}
			if failed {
				return oops.Errorf("some references could not be resolved")
			}
			return nil
		},
	}
}
