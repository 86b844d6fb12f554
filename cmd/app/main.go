// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"catalog-broadcast-bot/internal/application"
	"catalog-broadcast-bot/internal/config"
	"catalog-broadcast-bot/internal/domain/ports/repository"
	"catalog-broadcast-bot/internal/infra/adapters/catalog"
	"catalog-broadcast-bot/internal/infra/adapters/imagehost"
	tele "catalog-broadcast-bot/internal/infra/adapters/telegram"
	pg "catalog-broadcast-bot/internal/infra/db/postgres"
	"catalog-broadcast-bot/internal/infra/db/sqlite"
	"catalog-broadcast-bot/internal/infra/i18n"
	"catalog-broadcast-bot/internal/infra/logging"
	"catalog-broadcast-bot/internal/infra/memory"
	"catalog-broadcast-bot/internal/infra/metrics"
	red "catalog-broadcast-bot/internal/infra/redis"
	"catalog-broadcast-bot/internal/infra/sched"
	"catalog-broadcast-bot/internal/infra/web"
	"catalog-broadcast-bot/internal/infra/worker"
	"catalog-broadcast-bot/internal/usecase"
)

// set with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, bot api debug)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)
	logger.Info().Str("version", version).Str("commit", commit).Bool("dev", cfg.Runtime.Dev).Msg("starting")

	// ---- Catalog store API (optional) ----
	var server *web.Server
	if cfg.Database.URL != "" {
		repo, closeRepo, err := openProductRepo(ctx, cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("catalog store")
		}
		defer closeRepo()

		server = web.NewServer(repo, cfg.HTTP.Port, logger)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error().Err(err).Msg("http server error")
			}
		}()
	} else {
		logger.Info().Msg("database.url not set; catalog api disabled")
	}

	// ---- Outbound adapters ----
	catalogClient, err := catalog.NewHTTPCatalogClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("catalog client")
	}
	uploader, err := imagehost.NewImgBBUploader(cfg.ImageHost.APIKey, cfg.ImageHost.BaseURL, cfg.ImageHost.Timeout, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("image host")
	}

	bot, err := tele.NewBotAPI(cfg.Bot.Token, cfg.Runtime.Dev)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	if cfg.Bot.Username == "" {
		cfg.Bot.Username = bot.Self.UserName
	}
	logger.Info().Str("username", cfg.Bot.Username).Msg("authorized on telegram")
	sender := tele.NewSender(bot)

	translator, err := i18n.NewTranslator(i18n.LocalesFS, cfg.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	// ---- Broadcast pool ----
	pool := worker.NewPool("broadcast", cfg.Broadcast.Workers, logger)
	pool.Start(ctx)

	// ---- Use cases ----
	subscriberUC := usecase.NewSubscriberUseCase(memory.NewSubscriberRegistry(), cfg.Broadcast.TrackGroups, logger)
	broadcastUC := usecase.NewBroadcastUseCase(
		memory.NewAwaitingDecisionStore(), subscriberUC, sender, pool, translator,
		usecase.BroadcastOptions{
			ChannelID:     cfg.Broadcast.ChannelID,
			BotUsername:   cfg.Bot.Username,
			ShopURL:       cfg.Bot.ShopURL,
			RatePerSecond: cfg.Broadcast.RatePerSecond,
		},
		logger,
	)
	intakeUC := usecase.NewIntakeUseCase(memory.NewPendingImageStore(), uploader, catalogClient, broadcastUC, logger)
	catalogUC := usecase.NewCatalogUseCase(catalogClient, memory.NewEditSessionStore(), sender, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(intakeUC, broadcastUC, subscriberUC, catalogUC)

	// ---- Telegram ----
	botAdapter, err := tele.NewRealTelegramBotAdapter(bot, sender, &cfg.Bot, facade, translator, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram adapter")
	}
	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	botAdapter.StopPolling()
	cancel()
	pool.Stop()
	if server != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("http shutdown")
		}
	}
}

// openProductRepo picks the store by url scheme and wraps it with the redis list cache when configured.
func openProductRepo(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (repository.ProductRepository, func(), error) {
	var (
		repo    repository.ProductRepository
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	dbURL := cfg.Database.URL
	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		pool, err := pg.Connect(ctx, dbURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		if err := pg.EnsureSchema(ctx, pool); err != nil {
			closeAll()
			return nil, nil, err
		}
		stats := sched.NewPoolStatsWorker(15*time.Second, func() (int32, int32, int32) {
			s := pool.Stat()
			return s.TotalConns(), s.IdleConns(), s.AcquiredConns()
		}, logger)
		go func() { _ = stats.Run(ctx) }()
		repo = pg.NewPostgresProductRepo(pool)
		logger.Info().Msg("catalog store: postgres")

	case strings.HasPrefix(dbURL, "sqlite://"), strings.HasPrefix(dbURL, "file:"):
		store, err := sqlite.Open(dbURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = store.Close() })
		repo = store
		logger.Info().Msg("catalog store: sqlite")

	default:
		return nil, nil, fmt.Errorf("unsupported database url scheme: %q", logging.Redact(dbURL, false))
	}

	if cfg.Redis.URL != "" {
		rc, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; product list cache disabled")
		} else {
			closers = append(closers, func() { _ = rc.Close() })
			repo = red.NewProductCacheDecorator(repo, rc, cfg.Redis.TTL, logger)
			logger.Info().Dur("ttl", cfg.Redis.TTL).Msg("product list cache enabled")
		}
	}
	return repo, closeAll, nil
}
