package memory

import (
	"context"
	"sync"
	"testing"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Writers replace the stored counter with a fresh copy, so reads taken while
// commits are in flight must never observe a torn struct. Run with -race.
func TestIncrementConcurrentWithReads(t *testing.T) {
	ctx := context.Background()
	repo := NewRepositoryFactory(NewStore()).NewUnitOfWork(ctx).UsageRepository()

	userId := uuid.New()
	require.NoError(t, repo.Create(ctx, &entity.UsageCounter{
		UserId:  userId,
		Feature: entity.FeatureServices,
		Period:  "2026-03",
		Used:    0,
		Limit:   100,
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			found, err := repo.Increment(ctx, userId, entity.FeatureServices, "2026-03", 1)
			assert.NoError(t, err)
			assert.True(t, found)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.SetLimit(ctx, userId, entity.FeatureServices, "2026-03", 100))
		}()
		go func() {
			defer wg.Done()
			c, err := repo.FindOne(ctx,
				specification.UserOwnedBy{UserID: userId},
				specification.ByFeature{Feature: string(entity.FeatureServices)},
			)
			assert.NoError(t, err)
			assert.NotNil(t, c)
		}()
	}
	wg.Wait()

	got, err := repo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFeature{Feature: string(entity.FeatureServices)},
	)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 50, got.Used)
	assert.Equal(t, 100, got.Limit)
}
