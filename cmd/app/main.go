// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"incentoro/internal/config"
	"incentoro/internal/domain/policy"
	"incentoro/internal/domain/ports/adapter"
	affAdapters "incentoro/internal/infra/adapters/affiliate"
	mailAdapters "incentoro/internal/infra/adapters/mail"
	"incentoro/internal/infra/api"
	"incentoro/internal/infra/api/apiv1"
	pg "incentoro/internal/infra/db/postgres"
	"incentoro/internal/infra/logging"
	"incentoro/internal/infra/metrics"
	red "incentoro/internal/infra/redis"
	"incentoro/internal/infra/sched"
	"incentoro/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (relaxed validation)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	toolRepo := pg.NewToolRepoCacheDecorator(pg.NewPostgresToolRepo(pool), redisClient, cfg.Redis.TTL)
	entryRepo := pg.NewPostgresEntryRepo(pool)
	clickRepo := pg.NewPostgresClickRepo(pool)
	purchaseRepo := pg.NewPostgresPurchaseRepo(pool)
	subRepo := pg.NewPostgresSubscriptionRepo(pool)
	profileRepo := pg.NewPostgresProfileRepo(pool)
	txm := pg.NewTxManager(pool)

	// ---- Outbound adapters ----
	var mailer adapter.Mailer
	if cfg.Mail.APIKey != "" {
		mailer, err = mailAdapters.NewResendMailer(cfg.Mail.APIKey, cfg.Mail.From, *logger)
		if err != nil {
			log.Fatalf("resend mailer: %v", err)
		}
	} else {
		logger.Warn().Msg("mail.api_key not set; email delivery disabled")
		mailer = mailAdapters.NewNoopMailer()
	}

	var network adapter.AffiliateNetwork
	if cfg.Affiliate.PartnerStackKey != "" {
		network, err = affAdapters.NewPartnerStackClient(cfg.Affiliate.PartnerStackKey, cfg.Affiliate.BaseURL, *logger)
		if err != nil {
			log.Fatalf("partnerstack client: %v", err)
		}
	} else {
		logger.Warn().Msg("affiliate.partnerstack_key not set; network sync disabled")
		network = affAdapters.NewNoopNetwork()
	}

	// ---- Use cases ----
	window := policy.DefaultCookieWindow()
	toolUC := usecase.NewToolUseCase(toolRepo)
	ledgerUC := usecase.NewLedgerUseCase(entryRepo, purchaseRepo, toolRepo, window, logger)
	clickUC := usecase.NewClickUseCase(toolRepo, clickRepo, entryRepo, subRepo, mailer, window, logger)
	calcUC := usecase.NewCalculatorUseCase()
	confirmUC := usecase.NewConfirmUseCase(entryRepo, profileRepo, mailer, txm, logger)
	syncUC := usecase.NewSyncUseCase(network, purchaseRepo, profileRepo, logger)

	// ---- Workers ----
	go func() {
		_ = sched.NewConfirmWorker(cfg.Scheduler.ConfirmInterval, confirmUC, logger).Run(ctx)
	}()
	go func() {
		_ = sched.NewSyncWorker(cfg.Scheduler.SyncInterval, syncUC, logger).Run(ctx)
	}()

	// ---- HTTP server ----
	v1 := apiv1.NewServer(toolUC, ledgerUC, clickUC, calcUC, rateLimiter, logger)
	router := api.NewRouter(logger, cfg.Auth.JWTSecret, func(r chi.Router) {
		apiv1.Register(r, v1)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
