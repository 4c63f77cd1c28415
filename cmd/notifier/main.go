package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/app"
	"github.com/Freeeeeet/sheets_booking_bot/internal/config"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Разовый проход рассылки напоминаний (для запуска из cron)
func main() {
	dryRun := flag.Bool("dry-run", false, "only list reminders that would be sent")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	// Без постоянного журнала каждый запуск из cron отправит те же напоминания повторно
	if !*dryRun {
		if err := cfg.ValidateReminderLog(); err != nil {
			logger.Fatal("Invalid config", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, app.Options{}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer container.Close()

	now := time.Now()

	if *dryRun {
		reminders, err := container.Reminders.ScanForReminders(ctx, now)
		if err != nil {
			logger.Fatal("Failed to scan schedule", zap.Error(err))
		}
		for _, r := range reminders {
			logger.Info("Reminder due",
				zap.Int64("user_id", r.UserID),
				zap.Int("row", r.RowNumber),
				zap.Time("event_at", r.EventAt))
		}
		logger.Info("Dry run finished", zap.Int("found", len(reminders)))
		return
	}

	if err := cfg.ValidateTelegram(); err != nil {
		logger.Fatal("Invalid config", zap.Error(err))
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	report, err := container.Reminders.Dispatch(ctx, now, controller.NewTelegramReminderSender(b))
	if err != nil {
		logger.Fatal("Reminder dispatch failed", zap.Error(err))
	}

	if err := container.Reminders.Cleanup(ctx, now); err != nil {
		logger.Warn("Failed to clean up reminder log", zap.Error(err))
	}

	logger.Info("Reminders dispatched",
		zap.Int("found", report.Found),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
}
