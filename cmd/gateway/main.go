package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Mirxa893/zola/internal/api"
	"github.com/Mirxa893/zola/internal/auth"
	"github.com/Mirxa893/zola/internal/config"
	"github.com/Mirxa893/zola/internal/credentials"
	"github.com/Mirxa893/zola/internal/db"
	"github.com/Mirxa893/zola/internal/gateway"
	"github.com/Mirxa893/zola/internal/logging"
	"github.com/Mirxa893/zola/internal/messages"
	"github.com/Mirxa893/zola/internal/models"
	"github.com/Mirxa893/zola/internal/ratelimit"
	"github.com/Mirxa893/zola/internal/registry"
	"github.com/Mirxa893/zola/internal/routing"
	"github.com/Mirxa893/zola/internal/store"
	"github.com/Mirxa893/zola/internal/upstream"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("db migration failed")
	}

	st := store.New(pool)

	credCfg := credentials.Config{
		Fallbacks: map[string]string{models.ProviderOpenRouter: cfg.OpenRouterAPIKey},
		Providers: []string{models.ProviderOpenRouter},
	}
	if cfg.OAuthEnabled() {
		credCfg.OAuth = auth.OAuthConfig(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthTokenURL)
	}
	var opener credentials.Opener
	if cfg.EncryptionKey != "" {
		sealer, err := auth.NewSealer(cfg.EncryptionKey)
		if err != nil {
			logger.Fatal().Err(err).Msg("sealer init failed")
		}
		opener = sealer
	} else {
		logger.Warn().Msg("ENCRYPTION_KEY not set; stored user keys cannot be used")
	}
	resolver := credentials.NewResolver(logger, st.UserKeys(), opener, credCfg)

	quota := ratelimit.New(st.Counters(), ratelimit.Limits{
		AuthDaily:  cfg.AuthDailyMessageLimit,
		GuestDaily: cfg.NonAuthDailyMessageLimit,
	})
	msgLog := messages.NewLogger(st.Messages(), quota)

	reg := registry.New(registry.StaticSource(),
		registry.WithTTL(cfg.ModelCacheTTL),
		registry.WithLogger(logger),
	)
	sched, err := reg.StartRefresher(cfg.ModelRefreshSchedule)
	if err != nil {
		logger.Fatal().Err(err).Msg("model refresher init failed")
	}

	gw := gateway.New(logger, gateway.Deps{
		Messages:    msgLog,
		Credentials: resolver,
		Upstream:    upstream.NewClient(logger, cfg.UpstreamURL, cfg.UpstreamTimeout),
		Router:      routing.NewRouter(reg),
	},
		gateway.WithTimeout(cfg.ChatTimeout),
		gateway.WithSystemPrompt(cfg.SystemPrompt),
	)

	app, err := api.NewServer(logger, api.Deps{
		Chat:      gw,
		Models:    reg,
		KeyStatus: resolver,
		Users:     st.Users(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("server init failed")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		<-sched.Stop().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("gateway stopped with error")
	}
}
