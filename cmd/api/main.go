package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"ouroz/internal/adapter/repo"
	"ouroz/internal/domain"
	"ouroz/internal/gateway"
	"ouroz/internal/http/handlers"
	"ouroz/internal/http/httpapi"
	"ouroz/internal/infra"
	"ouroz/internal/infra/credentials"
	"ouroz/internal/infra/geoip"
	"ouroz/internal/middleware"
	"ouroz/internal/providers/genai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := infra.InitTracer(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracing")
	}

	app := &handlers.App{Logger: &logger, MaxBodyBytes: cfg.MaxBodyBytes}
	var (
		store  *credentials.Store
		ledger gateway.Recorder
		pool   *pgxpool.Pool
	)
	pool, err = infra.NewDBPool(ctx, cfg)
	switch {
	case errors.Is(err, infra.ErrDatabaseDisabled):
		logger.Warn().Msg("DATABASE_URL not set; generation ledger and credential store disabled")
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to connect database")
	default:
		defer pool.Close()
		runner := infra.NewSQLRunner(pool, logger)
		store = credentials.NewStore(runner)
		generations := repo.NewGenerationRepository(runner)
		ledger = generations
		app.Stats = generations
		app.DBPing = pool.Ping
	}

	apiKey, err := credentials.ResolveAPIKey(ctx, cfg.GeminiAPIKey, store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load gemini api key")
	}
	if apiKey == "" {
		logger.Fatal().Err(domain.ErrMissingCredential).Msg("GEMINI_API_KEY is not set and no key is stored")
	}

	client, err := genai.NewClient(ctx, genai.Options{
		APIKey:  apiKey,
		BaseURL: cfg.GeminiBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gemini client")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable; location defaults disabled")
	}
	var locator geoip.Locator
	if resolver != nil {
		defer resolver.Close()
		locator = resolver
	}

	app.Gateway = gateway.New(client, gateway.Options{
		Models: gateway.Models{
			Text:      cfg.GeminiTextModel,
			Reasoning: cfg.GeminiReasoningModel,
			Image:     cfg.GeminiImageModel,
			Edit:      cfg.GeminiEditModel,
			Video:     cfg.GeminiVideoModel,
			TTS:       cfg.GeminiTTSModel,
		},
		Voice:          cfg.GeminiTTSVoice,
		ThinkingBudget: int32(cfg.ThinkingBudget),
		Poll: gateway.PollPolicy{
			Interval:    cfg.VideoPollInterval,
			Multiplier:  cfg.VideoPollMultiplier,
			MaxInterval: cfg.VideoPollMaxInterval,
			MaxAttempts: cfg.VideoPollMaxAttempts,
			Timeout:     cfg.VideoTimeout,
		},
		Ledger: ledger,
		Logger: &logger,
	})

	trusted, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Locator:         locator,
		TrustedProxies:  trusted,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Msg("API listening")
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	// Shutdown cancels request contexts first, so polling video jobs end as
	// cancelled failures and still reach the ledger.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to flush traces")
	}
	logger.Info().Msg("server stopped")
}
