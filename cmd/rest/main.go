package main

import (
	"context"
	"log"

	"marketplace-be/internal/bootstrap"
	"marketplace-be/internal/config"
	"marketplace-be/internal/server"
	"marketplace-be/internal/tracer"
	"marketplace-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	// The usage-commit consumer must be draining before the first request,
	// otherwise tracked usage piles up in the channel.
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Panicf("Unable to start usage consumer: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Run Server
	log.Fatal(srv.Run())
}
