package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"scholarlyedge/internal/config"
	"scholarlyedge/internal/notifier"
	"scholarlyedge/pkg/logger"
	"scholarlyedge/pkg/mq"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting mailer service...",
		zap.String("smtp_host", cfg.Mail.Host),
		zap.Int("smtp_port", cfg.Mail.Port),
	)

	mailer := notifier.NewMailer(cfg.Mail, log)

	consumers := []struct {
		queue      string
		routingKey string
		handler    mq.MessageHandler
	}{
		{"mailer.welcome", notifier.RoutingKeyWelcome, mailer.HandleWelcome},
		{"mailer.assignment", notifier.RoutingKeyAssignment, mailer.HandleAssignment},
		{"mailer.reminder", notifier.RoutingKeyReminder, mailer.HandleReminder},
	}

	var started []*mq.Consumer
	for _, c := range consumers {
		consumer, err := mq.NewConsumer(cfg.MQ.URL, c.queue, c.routingKey, log)
		if err != nil {
			log.Fatal("Failed to init consumer",
				zap.String("queue", c.queue),
				zap.Error(err),
			)
		}
		consumer.SetHandler(c.handler)
		started = append(started, consumer)

		go func(consumer *mq.Consumer, queue string) {
			if err := consumer.StartConsuming(); err != nil {
				log.Fatal("Consumer failed",
					zap.String("queue", queue),
					zap.Error(err),
				)
			}
		}(consumer, c.queue)
	}

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

	log.Info("mailer service is fully initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down mailer service gracefully...")

	for _, consumer := range started {
		consumer.Close()
	}

	log.Info("mailer service shutdown complete")
}
