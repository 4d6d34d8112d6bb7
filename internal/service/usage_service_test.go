package service

import (
	"context"
	"testing"
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUsageService(factory unitofwork.RepositoryFactory, plans PlanResolver, at time.Time) *usageService {
	svc := NewUsageService(factory, plans, logger.Nop()).(*usageService)
	svc.now = func() time.Time { return at }
	return svc
}

func TestPeekSeedsCounterFromPlan(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()

	counter, err := usage.Peek(context.Background(), userId, entity.FeatureServices)
	require.NoError(t, err)
	assert.Equal(t, 0, counter.Used)
	assert.Equal(t, 3, counter.Limit)
	assert.Equal(t, "2026-03", counter.Period)
}

func TestReserveDeniesAtLimit(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := usage.Reserve(ctx, userId, entity.FeatureServices, 1)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		require.NoError(t, usage.Commit(ctx, userId, entity.FeatureServices, 1))
	}

	res, err := usage.Reserve(ctx, userId, entity.FeatureServices, 1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 3, res.Used)
	assert.Equal(t, 3, res.Limit)
}

func TestReserveBulkAmount(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()
	ctx := context.Background()

	res, err := usage.Reserve(ctx, userId, entity.FeatureServices, 3)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = usage.Reserve(ctx, userId, entity.FeatureServices, 4)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestUnlimitedAlwaysAllows(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()
	ctx := context.Background()

	_, err := subs.Upgrade(ctx, userId, entity.PlanBusiness, entity.BillingCycleMonthly)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		require.NoError(t, usage.Commit(ctx, userId, entity.FeatureBookings, 1))
	}

	res, err := usage.Reserve(ctx, userId, entity.FeatureBookings, 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, entity.LimitUnlimited, res.Limit)
	assert.Equal(t, 200, res.Used)
}

func TestNegativeAmountRejected(t *testing.T) {
	factory := newTestFactory()
	at := time.Now()
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()

	_, err := usage.Reserve(context.Background(), userId, entity.FeatureServices, -2)
	var amountErr *dto.InvalidAmountError
	require.ErrorAs(t, err, &amountErr)
	assert.Equal(t, -2, amountErr.Amount)

	err = usage.Commit(context.Background(), userId, entity.FeatureServices, -1)
	require.ErrorAs(t, err, &amountErr)
}

func TestZeroAmountDefaultsToOne(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()
	ctx := context.Background()

	require.NoError(t, usage.Commit(ctx, userId, entity.FeatureServices, 0))

	counter, err := usage.Peek(ctx, userId, entity.FeatureServices)
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Used)
}

func TestPeriodRolloverStartsFresh(t *testing.T) {
	factory := newTestFactory()
	march := time.Date(2026, 3, 28, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, march)
	usage := newTestUsageService(factory, subs, march)
	userId := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, usage.Commit(ctx, userId, entity.FeatureServices, 1))
	}
	res, err := usage.Reserve(ctx, userId, entity.FeatureServices, 1)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// April gets a fresh counter; March's row stays untouched for history
	april := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	subs.now = func() time.Time { return april }
	usage.now = func() time.Time { return april }

	res, err = usage.Reserve(ctx, userId, entity.FeatureServices, 1)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Used)
}

func TestCommitOnCapabilityOnlyFeatureIsNoop(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()
	ctx := context.Background()

	_, err := subs.Upgrade(ctx, userId, entity.PlanProfessional, entity.BillingCycleMonthly)
	require.NoError(t, err)

	// analytics is granted but not metered under professional
	require.NoError(t, usage.Commit(ctx, userId, entity.FeatureAnalytics, 1))

	usageMap, err := usage.UsageMap(ctx, userId)
	require.NoError(t, err)
	_, present := usageMap[entity.FeatureAnalytics]
	assert.False(t, present)
}

func TestUsageMapReportsAllMeteredFeatures(t *testing.T) {
	factory := newTestFactory()
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	userId := uuid.New()
	ctx := context.Background()

	_, err := subs.Upgrade(ctx, userId, entity.PlanProfessional, entity.BillingCycleMonthly)
	require.NoError(t, err)
	require.NoError(t, usage.Commit(ctx, userId, entity.FeatureDocuments, 5))

	usageMap, err := usage.UsageMap(ctx, userId)
	require.NoError(t, err)
	require.Len(t, usageMap, 4)
	assert.Equal(t, 5, usageMap[entity.FeatureDocuments].Used)
	assert.Equal(t, 50, usageMap[entity.FeatureDocuments].Limit)
	// Untouched features report zero without a persisted counter
	assert.Equal(t, 0, usageMap[entity.FeatureFeaturedListings].Used)
	assert.Equal(t, 2, usageMap[entity.FeatureFeaturedListings].Limit)
}
