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

	"github.com/Freeeeeet/sheets_booking_bot/internal/app"
	"github.com/Freeeeeet/sheets_booking_bot/internal/config"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

func main() {
	memory := flag.Bool("memory", false, "use in-memory spreadsheet with demo schedule")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.ValidateTelegram(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	logger.Info("Starting sheets booking bot",
		zap.String("environment", cfg.Environment),
		zap.Bool("memory", *memory))

	if *memory && cfg.IsProduction() {
		logger.Fatal("In-memory spreadsheet is not allowed in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, app.Options{Memory: *memory}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer container.Close()

	// Метрики
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = startMetricsServer(cfg.MetricsAddr, container, logger)
	}

	// Бот
	limiter := controller.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, container.Metrics, logger)
	b, err := bot.New(cfg.TelegramToken,
		bot.WithMiddlewares(limiter.Middleware),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			logger.Debug("Ignoring update", zap.Int64("update_id", update.ID))
		}),
	)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		b,
		container.Availability,
		container.Eligibility,
		container.Booking,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	// Напоминания
	scheduler := app.NewScheduler(
		container.Reminders,
		controller.NewTelegramReminderSender(b),
		cfg.Reminder.Interval,
		logger,
	)
	scheduler.Start(ctx)

	// Блокирует до сигнала остановки
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down...")
	scheduler.Stop()

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to stop metrics server", zap.Error(err))
		}
	}

	logger.Info("Bot stopped")
}

func startMetricsServer(addr string, container *app.Container, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", container.Metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Metrics server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	return server
}
