// Sweep expires trials whose deadline has passed. The API performs the same
// check lazily on every read; this catches subscriptions nobody reads, so
// their expiry events and emails still go out on time. Run it from cron.
package main

import (
	"context"
	"log"

	"marketplace-be/internal/config"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/internal/service"
	"marketplace-be/pkg/database"
	"marketplace-be/pkg/events"
	pktNats "marketplace-be/pkg/nats"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		color.Yellow("Warn: NATS unavailable, expiry events will not be published: %v", err)
	} else {
		eventPublisher = natsPub
		defer natsPub.Close()
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	subscriptions := service.NewSubscriptionService(uowFactory, eventPublisher, emailService, sysLogger)

	color.Cyan("🚀 Sweeping overdue trials\n")

	expired, err := subscriptions.ExpireOverdueTrials(context.Background())
	if err != nil {
		color.Red("Failed: %v", err)
		log.Fatal(err)
	}

	if expired == 0 {
		color.Green("Done: no overdue trials")
		return
	}
	color.Green("Done: expired %d trial(s)", expired)
}
