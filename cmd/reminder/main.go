package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"rent_reminder_service/internal/app"
	"rent_reminder_service/internal/domain/billing"
	domainDelivery "rent_reminder_service/internal/domain/delivery"
	"rent_reminder_service/internal/domain/payment"
	"rent_reminder_service/internal/infra/config"
	idb "rent_reminder_service/internal/infra/database"
	"rent_reminder_service/internal/infra/delivery"
	"rent_reminder_service/internal/infra/httpapi"
	"rent_reminder_service/internal/infra/logger"
	"rent_reminder_service/internal/infra/scheduler"
	"rent_reminder_service/internal/infra/telegram"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Timezone.String(),
		"log_level":   cfg.LogLevel,
	}).Info("Configuration loaded")

	ctx := context.Background()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	if cfg.AutoMigrate {
		if err := idb.EnsureSchema(ctx, db); err != nil {
			mainLogger.Fatalf("Could not apply schema: %v", err)
		}
		mainLogger.Info("Database schema applied")
	}

	// Initialize Repositories
	tenantRepo := idb.NewPostgresTenantRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)
	var paymentRepo payment.Repository
	if cfg.SuppressOverdueWhenPaid {
		paymentRepo = idb.NewPostgresPaymentRepository(db)
		mainLogger.Info("Overdue alerts will be suppressed for tenants with a recent payment")
	}

	// Delivery side channel
	senders := delivery.MultiSender{delivery.NewLogSender(logger.Component("delivery"))}
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken)
		if err != nil {
			mainLogger.Fatalf("Could not create Telegram bot: %v", err)
		}
		senders = append(senders, telegram.NewSender(telegram.NewTelebotAdapter(bot)))
		mainLogger.Info("Telegram delivery enabled")
	}
	var sender domainDelivery.Sender = senders

	reminderService := app.NewReminderService(
		tenantRepo,
		notificationRepo,
		paymentRepo,
		sender,
		app.ReminderOptions{
			Policy: billing.Policy{
				DefaultCycleDays:  cfg.DefaultRentCycleDays,
				AdvanceNoticeDays: cfg.AdvanceNoticeDays,
				OverdueWindowDays: cfg.OverdueWindowDays,
			},
			Location:                cfg.Timezone,
			CurrencyLabel:           cfg.CurrencyLabel,
			Concurrency:             cfg.ReminderConcurrency,
			RunTimeout:              cfg.RunTimeout,
			SuppressOverdueWhenPaid: cfg.SuppressOverdueWhenPaid,
		},
		logger.Component("app"),
	)

	reminderScheduler := scheduler.NewReminderScheduler(
		reminderService,
		logger.Component("cron"),
		cfg.Timezone,
		cfg.CronSpecSmartReminders,
		cfg.CronSpecDueToday,
		cfg.RunTimeout+time.Minute,
	)
	if err := reminderScheduler.Start(); err != nil {
		mainLogger.Fatalf("Could not start scheduler: %v", err)
	}

	srv := httpapi.NewServer(&httpapi.Options{
		Address: cfg.HTTPAddr,
		Runner:  reminderService,
		Logger:  logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		mainLogger.WithField("addr", cfg.HTTPAddr).Info("HTTP server starting")
		errCh <- srv.Start()
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		mainLogger.WithField("signal", sig.String()).Info("Shutting down application")
	case err := <-errCh:
		if err != nil {
			mainLogger.WithError(err).Error("HTTP server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("HTTP server shutdown failed")
	}
	reminderScheduler.Stop()
	mainLogger.Info("Application shut down gracefully")
}
