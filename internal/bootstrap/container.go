package bootstrap

import (
	"context"
	"log"

	"marketplace-be/internal/config"
	"marketplace-be/internal/controller"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/internal/service"

	"marketplace-be/pkg/events"
	pktNats "marketplace-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	PlanController         controller.PlanController
	SubscriptionController controller.SubscriptionController
	PaymentController      controller.PaymentController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Core services, exposed for the entitlement middleware and the sweep
	SubscriptionService service.SubscriptionService
	UsageService        service.UsageService
	EntitlementService  service.EntitlementService
	UsagePublisher      service.IUsagePublisherService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS. A nil events.Publisher disables publishing instead of crashing,
	// so keep the interface nil unless the connection succeeded.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 3. Services
	subscriptionService := service.NewSubscriptionService(uowFactory, eventPublisher, emailService, sysLogger)
	usageService := service.NewUsageService(uowFactory, subscriptionService, sysLogger)
	entitlementService := service.NewEntitlementService(uowFactory, subscriptionService, usageService, eventPublisher, sysLogger)

	usagePublisher := service.NewUsagePublisherService(cfg.App.UsageCommitTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.UsageCommitTopic, usageService, sysLogger)

	paymentService := service.NewPaymentService(
		uowFactory,
		subscriptionService,
		cfg.Midtrans.ServerKey,
		cfg.Midtrans.IsProduction,
		rdb,
		sysLogger,
	)

	// 4. Controllers
	return &Container{
		PlanController:         controller.NewPlanController(),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService, usageService, entitlementService),
		PaymentController:      controller.NewPaymentController(paymentService),

		ConsumerService: consumerService,

		SubscriptionService: subscriptionService,
		UsageService:        usageService,
		EntitlementService:  entitlementService,
		UsagePublisher:      usagePublisher,

		Logger: sysLogger,
	}
}

// JwtMiddleware is the auth guard the controllers register their routes with.
func (c *Container) JwtMiddleware() fiber.Handler {
	return serverutils.JwtMiddleware
}
