package di

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	albumService "github.com/reshetovitsme/channel-mirror/internal/modules/album/service"
	channelService "github.com/reshetovitsme/channel-mirror/internal/modules/channel/service"
	feedService "github.com/reshetovitsme/channel-mirror/internal/modules/feed/service"
	mirrorService "github.com/reshetovitsme/channel-mirror/internal/modules/mirror/service"
	relayRepo "github.com/reshetovitsme/channel-mirror/internal/modules/relay/repository"
	relayService "github.com/reshetovitsme/channel-mirror/internal/modules/relay/service"
	"github.com/reshetovitsme/channel-mirror/internal/shared/config"
	"github.com/reshetovitsme/channel-mirror/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/channel-mirror/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/channel-mirror/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Metrics
	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})

	// Register Relay Activity Journal
	do.Provide(injector, func(i do.Injector) (relayRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := relayRepo.NewMemoryStorage(cfg.ActivitySize)
		if err != nil {
			return nil, oops.With("activity_size", cfg.ActivitySize, "context", "failed to initialize activity journal").Wrap(err)
		}
		return repo, nil
	})

	// Register Channel Service (platform client is set with the bot)
	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		return channelService.New(nil), nil
	})

	// Register Relay Service (platform client is set with the bot)
	do.Provide(injector, func(i do.Injector) (*relayService.Service, error) {
		return relayService.New(nil), nil
	})

	// Register Album Aggregator
	do.Provide(injector, func(i do.Injector) (*albumService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return albumService.New(cfg.AlbumDelay(), nil), nil
	})

	// Register Pipeline
	do.Provide(injector, func(i do.Injector) (*mirrorService.Pipeline, error) {
		cfg := do.MustInvoke[*config.Config](i)
		relay := do.MustInvoke[*relayService.Service](i)
		aggregator := do.MustInvoke[*albumService.Service](i)
		journal := do.MustInvoke[relayRepo.Repository](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		return mirrorService.NewPipeline(relay, aggregator, journal, m, cfg.EditPolicy, cfg.DedupSize)
	})

	// Register Supervisor
	do.Provide(injector, func(i do.Injector) (*mirrorService.Supervisor, error) {
		cfg := do.MustInvoke[*config.Config](i)
		resolver := do.MustInvoke[*channelService.Service](i)
		pipeline := do.MustInvoke[*mirrorService.Pipeline](i)
		relay := do.MustInvoke[*relayService.Service](i)
		m := do.MustInvoke[*metrics.Metrics](i)

		supervisor := mirrorService.NewSupervisor(mirrorService.Options{
			SourceReference:   cfg.SourceChannel,
			TargetReference:   cfg.TargetChannel,
			TransientCooldown: cfg.TransientCooldown(),
			ConfigCooldown:    cfg.ConfigCooldown(),
		}, resolver, pipeline, m)
		supervisor.SetPermissionReporter(relay)
		return supervisor, nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		journal := do.MustInvoke[relayRepo.Repository](i)
		return feedService.New(journal), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramHandler.Handler, error) {
		pipeline := do.MustInvoke[*mirrorService.Pipeline](i)
		return telegramHandler.New(pipeline), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feedService := do.MustInvoke[*feedService.Service](i)
		supervisor := do.MustInvoke[*mirrorService.Supervisor](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		server := httpServer.New(cfg, feedService, supervisor, m)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramHandler.Handler](i)
		supervisor := do.MustInvoke[*mirrorService.Supervisor](i)

		opts := []bot.Option{
			bot.WithDefaultHandler(handler.HandleUpdate),
			bot.WithErrorsHandler(supervisor.ReportStreamError),
			bot.WithAllowedUpdates(telegramHandler.AllowedUpdates),
			bot.WithServerURL(cfg.TelegramAPIURL),
			// updates are dispatched one at a time, in the order they were received
			bot.WithNotAsyncHandlers(),
			// token problems surface during resolution, where they are retried
			bot.WithSkipGetMe(),
		}

		b, err := bot.New(cfg.BotToken, opts...)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		do.MustInvoke[*channelService.Service](i).SetLookup(b)
		do.MustInvoke[*relayService.Service](i).SetSender(b)
		supervisor.SetListener(b)

		return b, nil
	})

	return injector, nil
}

// Shutdown flushes albums still collecting items while the bot can send them
func Shutdown(ctx context.Context, injector do.Injector) error {
	pipeline, err := do.Invoke[*mirrorService.Pipeline](injector)
	if err != nil {
		return oops.With("context", "pipeline unavailable during shutdown").Wrap(err)
	}
	pipeline.Close(ctx)
	return nil
}
