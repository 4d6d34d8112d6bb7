package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SubscriptionRepository())
	assert.NotNil(t, uow.UsageRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Transactional Subscription With Counter", func(t *testing.T) {
		ctx := context.Background()
		userId := uuid.New()

		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		// Transaction Test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		sub := &entity.Subscription{
			Id:           uuid.New(),
			UserId:       userId,
			Plan:         entity.PlanProfessional,
			Status:       entity.SubscriptionStatusActive,
			BillingCycle: entity.BillingCycleMonthly,
			StartDate:    time.Now(),
			LimitSnapshot: map[entity.Feature]int{
				entity.FeatureServices: 10,
			},
		}
		err = uow.SubscriptionRepository().Create(ctx, sub)
		assert.NoError(t, err)

		period := entity.PeriodKey(time.Now())
		counter := &entity.UsageCounter{
			Id:      uuid.New(),
			UserId:  userId,
			Feature: entity.FeatureServices,
			Period:  period,
			Used:    0,
			Limit:   10,
		}
		err = uow.UsageRepository().Create(ctx, counter)
		assert.NoError(t, err)

		// The atomic increment must find the row inside the same transaction
		found, err := uow.UsageRepository().Increment(ctx, userId, entity.FeatureServices, period, 3)
		assert.NoError(t, err)
		assert.True(t, found)

		got, err := uow.UsageRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByFeature{Feature: string(entity.FeatureServices)},
			specification.ByPeriod{Period: period},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, got) {
			assert.Equal(t, 3, got.Used)
			assert.Equal(t, 10, got.Limit)
		}

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully created Subscription and Counter in Transaction")
	})
}
