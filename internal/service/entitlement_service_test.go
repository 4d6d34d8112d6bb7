package service

import (
	"context"
	"testing"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntitlementService(factory unitofwork.RepositoryFactory, subs SubscriptionService, usage UsageService, at time.Time) *entitlementService {
	svc := NewEntitlementService(factory, subs, usage, nil, logger.Nop()).(*entitlementService)
	svc.now = func() time.Time { return at }
	return svc
}

func newGuardFixture(t *testing.T, at time.Time) (unitofwork.RepositoryFactory, *subscriptionService, *usageService, *entitlementService) {
	t.Helper()
	factory := newTestFactory()
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)
	guard := newTestEntitlementService(factory, subs, usage, at)
	return factory, subs, usage, guard
}

func TestCheckStrictDeniesWithoutSubscription(t *testing.T) {
	_, _, _, guard := newGuardFixture(t, time.Now())

	decision, err := guard.CheckStrict(context.Background(), uuid.New(), entity.FeatureServices)
	require.NoError(t, err)
	assert.False(t, decision.Allowed())
	assert.Equal(t, entity.DecisionDeniedNoSubscription, decision.Reason)
}

func TestCheckAllowsWithinBudget(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, _, _, guard := newGuardFixture(t, at)

	decision, err := guard.Check(context.Background(), uuid.New(), entity.FeatureServices)
	require.NoError(t, err)
	assert.True(t, decision.Allowed())
	assert.Equal(t, 0, decision.Used)
	assert.Equal(t, 3, decision.Limit)
}

func TestCheckDeniesWhenBudgetExhausted(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, _, usage, guard := newGuardFixture(t, at)
	userId := uuid.New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, usage.Commit(ctx, userId, entity.FeatureServices, 1))
	}

	decision, err := guard.Check(ctx, userId, entity.FeatureServices)
	require.NoError(t, err)
	assert.False(t, decision.Allowed())
	assert.Equal(t, entity.DecisionDeniedUsageExceeded, decision.Reason)
	assert.Equal(t, 3, decision.Used)
	assert.Equal(t, 3, decision.Limit)
}

func TestCheckDeniesMissingCapabilityBeforeUsage(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, _, _, guard := newGuardFixture(t, at)

	// featured_listings is not granted on the free tier at all
	decision, err := guard.Check(context.Background(), uuid.New(), entity.FeatureFeaturedListings)
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionDeniedPlanLacksCapability, decision.Reason)
}

func TestCheckDeniesExpiredTrial(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, subs, usage, guard := newGuardFixture(t, start)
	userId := uuid.New()
	ctx := context.Background()

	_, err := subs.StartTrial(ctx, userId, entity.PlanProfessional)
	require.NoError(t, err)

	after := start.Add(15 * 24 * time.Hour)
	subs.now = func() time.Time { return after }
	usage.now = func() time.Time { return after }
	guard.now = func() time.Time { return after }

	decision, err := guard.Check(ctx, userId, entity.FeatureServices)
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionDeniedInactive, decision.Reason)
}

func TestCancelledKeepsAccessUntilEndDate(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, subs, _, guard := newGuardFixture(t, at)
	userId := uuid.New()
	ctx := context.Background()

	_, err := subs.Upgrade(ctx, userId, entity.PlanProfessional, entity.BillingCycleMonthly)
	require.NoError(t, err)
	_, err = subs.Cancel(ctx, userId, "switching providers")
	require.NoError(t, err)

	decision, err := guard.Check(ctx, userId, entity.FeatureDocuments)
	require.NoError(t, err)
	assert.True(t, decision.Allowed())

	// Past the paid-through date access lapses
	later := at.AddDate(0, 2, 0)
	subs.now = func() time.Time { return later }
	guard.now = func() time.Time { return later }

	decision, err = guard.Check(ctx, userId, entity.FeatureDocuments)
	require.NoError(t, err)
	assert.Equal(t, entity.DecisionDeniedInactive, decision.Reason)
}

func TestAddOnWidensCapability(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	factory, _, _, guard := newGuardFixture(t, at)
	userId := uuid.New()
	ctx := context.Background()

	ok, err := guard.HasAccess(ctx, userId, entity.FeatureAnalytics)
	require.NoError(t, err)
	assert.False(t, ok)

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.AddOnRepository().Create(ctx, &entity.AddOn{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      entity.FeatureAnalytics,
		Status:    entity.AddOnStatusActive,
		StartDate: at,
		Price:     9,
	}))

	ok, err = guard.HasAccess(ctx, userId, entity.FeatureAnalytics)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpiredAddOnDoesNotGrant(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	factory, _, _, guard := newGuardFixture(t, at)
	userId := uuid.New()
	ctx := context.Background()

	uow := factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.AddOnRepository().Create(ctx, &entity.AddOn{
		Id:     uuid.New(),
		UserId: userId,
		Type:   entity.FeatureAnalytics,
		Status: entity.AddOnStatusExpired,
	}))

	ok, err := guard.HasAccess(ctx, userId, entity.FeatureAnalytics)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequirePlanComparesRank(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, subs, _, guard := newGuardFixture(t, at)
	ctx := context.Background()

	cases := []struct {
		plan    entity.PlanId
		minPlan entity.PlanId
		want    bool
	}{
		{entity.PlanFree, entity.PlanBusiness, false},
		{entity.PlanProfessional, entity.PlanBusiness, false},
		{entity.PlanBusiness, entity.PlanBusiness, true},
		{entity.PlanElite, entity.PlanBusiness, true},
		{entity.PlanFree, entity.PlanFree, true},
	}

	for _, tc := range cases {
		userId := uuid.New()
		if tc.plan != entity.PlanFree {
			_, err := subs.Upgrade(ctx, userId, tc.plan, entity.BillingCycleMonthly)
			require.NoError(t, err)
		}

		got, err := guard.RequirePlan(ctx, userId, tc.minPlan)
		require.NoError(t, err)
		assert.Equalf(t, tc.want, got, "plan %s vs min %s", tc.plan, tc.minPlan)
	}
}

func TestCapabilityOnlyFeatureSkipsMeter(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, subs, _, guard := newGuardFixture(t, at)
	userId := uuid.New()
	ctx := context.Background()

	_, err := subs.Upgrade(ctx, userId, entity.PlanElite, entity.BillingCycleMonthly)
	require.NoError(t, err)

	// custom_branding has no limit entry on any plan
	decision, err := guard.Check(ctx, userId, entity.FeatureCustomBranding)
	require.NoError(t, err)
	assert.True(t, decision.Allowed())
	assert.Equal(t, 0, decision.Limit)
}
