package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scholarlyedge/internal/config"
	"scholarlyedge/internal/notifier"
	"scholarlyedge/internal/repository"
	"scholarlyedge/internal/service"
	"scholarlyedge/pkg/db"
	"scholarlyedge/pkg/logger"
	"scholarlyedge/pkg/mq"
	"scholarlyedge/pkg/redis"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting scheduler service...",
		zap.String("db_host", cfg.DB.Host),
		zap.Bool("reminders_enabled", cfg.Reminder.Enabled),
		zap.Int("scan_interval_ms", cfg.Reminder.ScanIntervalMS),
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
	projectRepo := repository.NewProjectRepository(dbConn, log)

	rdb := redis.NewClient(cfg.Redis)
	defer rdb.Close()
	guard := service.NewRedisDedupGuard(rdb, 24*time.Hour, log)

	scheduler := service.NewReminderScheduler(projectRepo, sender, guard, cfg.Reminder, log)

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	go scheduler.Start(schedCtx)

	// Health checks and metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	log.Info("scheduler service is fully initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler service gracefully...")

	schedCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	publisher.Close()
	dbConn.Close()

	log.Info("scheduler service shutdown complete")
}
