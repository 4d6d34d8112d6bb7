// FILE: internal/pkg/serverutils/entitlement_middleware_test.go
package serverutils

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGuard returns canned entitlement answers so the handlers can be
// exercised without a repository stack behind them.
type stubGuard struct {
	decision  entity.Decision
	hasAccess bool
	planOk    bool
}

func (g *stubGuard) Check(ctx context.Context, userId uuid.UUID, feature entity.Feature) (entity.Decision, error) {
	return g.decision, nil
}

func (g *stubGuard) CheckAmount(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) (entity.Decision, error) {
	return g.decision, nil
}

func (g *stubGuard) CheckStrict(ctx context.Context, userId uuid.UUID, feature entity.Feature) (entity.Decision, error) {
	return g.decision, nil
}

func (g *stubGuard) HasAccess(ctx context.Context, userId uuid.UUID, feature entity.Feature) (bool, error) {
	return g.hasAccess, nil
}

func (g *stubGuard) RequirePlan(ctx context.Context, userId uuid.UUID, minPlan entity.PlanId) (bool, error) {
	return g.planOk, nil
}

type commitRecord struct {
	userId  uuid.UUID
	feature entity.Feature
	amount  int
}

type stubPublisher struct {
	commits []commitRecord
}

func (p *stubPublisher) PublishCommit(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) error {
	p.commits = append(p.commits, commitRecord{userId: userId, feature: feature, amount: amount})
	return nil
}

// newGuardedApp registers /guarded behind the given middleware chain with a
// trivial success handler, and a fake auth layer storing the user id the way
// the JWT middleware does.
func newGuardedApp(userId uuid.UUID, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", userId.String())
		return ctx.Next()
	})
	chain := append(handlers, func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse[any]("ok", nil))
	})
	app.Get("/guarded", chain...)
	return app
}

func TestRequireFeatureGatesOnCapability(t *testing.T) {
	userId := uuid.New()

	app := newGuardedApp(userId, RequireFeature(&stubGuard{hasAccess: true}, entity.FeatureAnalytics))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	app = newGuardedApp(userId, RequireFeature(&stubGuard{hasAccess: false}, entity.FeatureAnalytics))
	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestCheckUsageLimitAllowsWithinBudget(t *testing.T) {
	guard := &stubGuard{decision: entity.Decision{Reason: entity.DecisionAllowed, Used: 1, Limit: 10}}
	app := newGuardedApp(uuid.New(), CheckUsageLimit(guard, entity.FeatureServices, 1))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCheckUsageLimitDenialCarriesDecision(t *testing.T) {
	guard := &stubGuard{decision: entity.Decision{Reason: entity.DecisionDeniedUsageExceeded, Used: 3, Limit: 3}}
	app := newGuardedApp(uuid.New(), CheckUsageLimit(guard, entity.FeatureServices, 1))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Success bool                 `json:"success"`
		Code    int                  `json:"code"`
		Details dto.DecisionResponse `json:"details"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.False(t, body.Success)
	assert.Equal(t, fiber.StatusForbidden, body.Code)
	assert.False(t, body.Details.Allowed)
	assert.Equal(t, string(entity.DecisionDeniedUsageExceeded), body.Details.Reason)
	assert.Equal(t, 3, body.Details.Used)
	assert.Equal(t, 3, body.Details.Limit)
}

func TestTrackUsagePublishesAfterSuccess(t *testing.T) {
	userId := uuid.New()
	publisher := &stubPublisher{}
	app := newGuardedApp(userId, TrackUsage(publisher, entity.FeatureBookings, 2, logger.Nop()))

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, publisher.commits, 1)
	assert.Equal(t, userId, publisher.commits[0].userId)
	assert.Equal(t, entity.FeatureBookings, publisher.commits[0].feature)
	assert.Equal(t, 2, publisher.commits[0].amount)
}

func TestTrackUsageSkipsNonSuccessStatus(t *testing.T) {
	publisher := &stubPublisher{}
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", uuid.New().String())
		return ctx.Next()
	})
	app.Get("/guarded",
		TrackUsage(publisher, entity.FeatureBookings, 1, logger.Nop()),
		func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusUnprocessableEntity)
		},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Empty(t, publisher.commits)
}

func TestTrackUsageSkipsOnHandlerError(t *testing.T) {
	publisher := &stubPublisher{}
	app := fiber.New()
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", uuid.New().String())
		return ctx.Next()
	})
	app.Get("/guarded",
		TrackUsage(publisher, entity.FeatureBookings, 1, logger.Nop()),
		func(ctx *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusInternalServerError, "handler blew up")
		},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, publisher.commits)
}

func TestTrackUsageRejectsMissingIdentity(t *testing.T) {
	publisher := &stubPublisher{}
	app := fiber.New()
	app.Get("/guarded",
		TrackUsage(publisher, entity.FeatureBookings, 1, logger.Nop()),
		func(ctx *fiber.Ctx) error {
			return ctx.SendStatus(fiber.StatusOK)
		},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, publisher.commits)
}

func TestRequirePlanBlocksLowerTier(t *testing.T) {
	app := newGuardedApp(uuid.New(), RequirePlan(&stubGuard{planOk: false}, entity.PlanBusiness))
	resp, err := app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	app = newGuardedApp(uuid.New(), RequirePlan(&stubGuard{planOk: true}, entity.PlanBusiness))
	resp, err = app.Test(httptest.NewRequest("GET", "/guarded", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
