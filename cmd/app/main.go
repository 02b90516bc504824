// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ecoponto-backend/internal/config"
	"ecoponto-backend/internal/domain/ports/adapter"
	pg "ecoponto-backend/internal/infra/db/postgres"
	httpapi "ecoponto-backend/internal/infra/http"
	"ecoponto-backend/internal/infra/logging"
	"ecoponto-backend/internal/infra/mercadopago"
	"ecoponto-backend/internal/infra/metrics"
	"ecoponto-backend/internal/infra/notify"
	red "ecoponto-backend/internal/infra/redis"
	"ecoponto-backend/internal/infra/sched"
	"ecoponto-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (unsigned webhooks accepted)")
	flag.Parse()

	// .env is optional; real deployments inject environment variables.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled: webhook signature gate degraded")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional: rate limiting only) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set, rate limiting disabled")
	}

	// ---- Repositories ----
	payRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	planRepo := pg.NewPlanRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Operator alerts ----
	var notifier adapter.OperatorNotifier = notify.NoopNotifier{}
	if cfg.Notify.TelegramToken != "" && cfg.Notify.ChatID != 0 {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.TelegramToken, cfg.Notify.ChatID)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
		notifier = tg
	} else {
		logger.Warn().Msg("operator alerts disabled: notify.telegram_token/chat_id not set")
	}

	// ---- Provider gateway + webhook gate ----
	gateway := mercadopago.NewGateway(cfg.Payment.MercadoPago)
	verifier := mercadopago.NewSignatureVerifier(cfg.Payment.MercadoPago.WebhookSecret, cfg.Runtime.Dev)

	// ---- Use cases ----
	resolver := usecase.NewPlanPeriodResolver(planRepo, logger)
	activationUC := usecase.NewActivationUseCase(subRepo, userRepo, resolver, txManager, notifier, logger)
	paymentUC := usecase.NewPaymentUseCase(payRepo, gateway, activationUC, cfg.Payment.MaxAmount, logger)

	// ---- Background reconciler ----
	reconciler := sched.NewPaymentReconciler(paymentUC, payRepo, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go reconciler.Start(ctx)

	// ---- HTTP server ----
	auth := httpapi.NewAuthManager(cfg.Auth.JWTSecret, cfg.Runtime.Dev)
	server := httpapi.NewServer(cfg, paymentUC, verifier, auth, limiter, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal().Err(err).Msg("http server stopped")
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
