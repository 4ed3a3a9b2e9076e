// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-platform-backend/internal/config"
	pg "social-platform-backend/internal/infra/db/postgres"
	"social-platform-backend/internal/infra/logging"
	"social-platform-backend/internal/infra/metrics"
	"social-platform-backend/internal/infra/payment"
	red "social-platform-backend/internal/infra/redis"
	"social-platform-backend/internal/infra/sched"
	"social-platform-backend/internal/infra/web"
	"social-platform-backend/internal/usecase"
)

// set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, verbose)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewPlanRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	ledgerRepo := pg.NewTransactionRepo(pool)
	postRepo := pg.NewPostRepo(pool)
	followRepo := pg.NewFollowRepo(pool)

	// ---- Payment gateway ----
	gateway := payment.NewBlockBeeGateway(cfg.Payment.APIKey, cfg.Payment.BaseURL, cfg.Payment.RequestTimeout)
	pubKey, err := payment.ParsePublicKey(cfg.Payment.PublicKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("payment public key invalid")
	}
	verifier := payment.NewRSAVerifier(pubKey)

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(userRepo, planRepo, subRepo, ledgerRepo, gateway, verifier, txManager, cfg.Payment, logger)
	planUC := usecase.NewPlanUseCase(planRepo, userRepo, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo)
	postUC := usecase.NewPostUseCase(postRepo, userRepo, subUC, rateLimiter, cfg.Posts.CreateCooldown, logger)
	userUC := usecase.NewUserUseCase(userRepo, followRepo)

	// ---- Subscription expiry sweep ----
	expiry := sched.NewExpiryWorker(time.Hour, subUC, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TTL)
	server, err := web.NewServer(cfg, paymentUC, planUC, subUC, postUC, userUC, auth, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("server setup failed")
	}
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	cancel()
}
