package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remita-course-enrolment/internal/config"
	pg "remita-course-enrolment/internal/infra/db/postgres"
	"remita-course-enrolment/internal/infra/logging"
	"remita-course-enrolment/internal/infra/metrics"
	"remita-course-enrolment/internal/infra/notify"
	pay "remita-course-enrolment/internal/infra/payment"
	red "remita-course-enrolment/internal/infra/redis"
	"remita-course-enrolment/internal/infra/web"
	"remita-course-enrolment/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}
	logger.Info().
		Str("mode", cfg.Remita.Mode).
		Str("merchant_id", logging.Redact(cfg.Remita.MerchantID, cfg.Runtime.Dev)).
		Msg("remita gateway configured")

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
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	attemptRepo := pg.NewAttemptRepo(pool)
	enrolmentRepo := pg.NewEnrolmentRepo(pool)
	instanceRepo := pg.NewInstanceRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Gateway & notifier ----
	gateway := pay.NewRemitaGateway(cfg.Remita, cfg.Web.GatewayTimeout)
	notifier := notify.NewLogNotifier(logger, true, true, true)

	// ---- Use cases ----
	paymentUC := usecase.NewPaymentUseCase(attemptRepo, instanceRepo, gateway, cfg.Remita, cfg.Enrolment, logger)
	enrolUC := usecase.NewEnrolmentUseCase(attemptRepo, enrolmentRepo, instanceRepo, gateway, notifier, tm, locker, cfg.Enrolment, cfg.Redis.LockTTL, logger)
	auditUC := usecase.NewAuditUseCase(enrolmentRepo)

	// ---- HTTP server ----
	srv := web.NewServer(enrolUC, paymentUC, auditUC, cfg.Web.CallbackPath, cfg.Web.AdminAPIKey, cfg.Web.GatewayTimeout, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Web.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Str("callback_path", cfg.Web.CallbackPath).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	cancel()
}
