package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarlyedge/internal/config"
	"scholarlyedge/internal/handler"
	"scholarlyedge/internal/httpserver"
	"scholarlyedge/internal/notifier"
	"scholarlyedge/internal/repository"
	"scholarlyedge/internal/service"
	"scholarlyedge/pkg/db"
	"scholarlyedge/pkg/logger"
	"scholarlyedge/pkg/mq"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting api service...",
		zap.String("db_host", cfg.DB.Host),
		zap.String("port", cfg.Server.Port),
	)

	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	sender := notifier.NewQueueSender(publisher, log)

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	financialRepo := repository.NewFinancialRepository(dbConn, log)

	// Services
	ledger := service.NewLedgerService(financialRepo, log)
	lifecycle := service.NewLifecycleService(projectRepo, userRepo, ledger, sender, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, sender, cfg.JWT.Secret, log)
	projectHandler := handler.NewProjectHandler(lifecycle, projectRepo, log)
	financialHandler := handler.NewFinancialHandler(financialRepo, projectRepo, userRepo, log)
	userHandler := handler.NewUserHandler(userRepo, log)

	router := httpserver.NewRouter(authHandler, projectHandler, financialHandler, userHandler, userRepo, cfg.JWT.Secret)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("api service is fully initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down api service gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	publisher.Close()
	dbConn.Close()

	log.Info("api service shutdown complete")
}
