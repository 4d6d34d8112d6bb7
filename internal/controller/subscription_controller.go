// FILE: internal/controller/subscription_controller.go
// Controller for the subscription lifecycle and entitlement endpoints
package controller

import (
	"time"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SubscriptionController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type subscriptionController struct {
	subscriptions service.SubscriptionService
	usage         service.UsageService
	guard         service.EntitlementService
}

func NewSubscriptionController(
	subscriptions service.SubscriptionService,
	usage service.UsageService,
	guard service.EntitlementService,
) SubscriptionController {
	return &subscriptionController{
		subscriptions: subscriptions,
		usage:         usage,
		guard:         guard,
	}
}

func (c *subscriptionController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	subs := api.Group("/subscriptions", jwtMiddleware)
	subs.Get("/current", c.GetCurrent)
	subs.Get("/usage", c.GetUsage)
	subs.Get("/access/:feature", c.CheckAccess)
	subs.Post("/upgrade/:planId", c.Upgrade)
	subs.Patch("/cancel", c.Cancel)
	subs.Post("/trial/:planId", c.StartTrial)
}

// GetCurrent returns the caller's subscription plus current-period usage
// @Summary Get current subscription
// @Description Returns the authenticated user's subscription and this month's usage per metered feature
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CurrentSubscriptionResponse
// @Router /api/subscriptions/current [get]
func (c *subscriptionController) GetCurrent(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	sub, err := c.subscriptions.Get(ctx.Context(), userId)
	if err != nil {
		return err
	}
	usage, err := c.usage.UsageMap(ctx.Context(), userId)
	if err != nil {
		return err
	}

	res := dto.CurrentSubscriptionResponse{
		Subscription: toSubscriptionResponse(sub),
		Usage:        toUsageLimits(usage),
	}
	return ctx.JSON(serverutils.SuccessResponse("Current subscription", res))
}

// GetUsage returns the current period's usage vs limits
// @Summary Get usage status
// @Description Returns used vs limit for every metered feature of the current plan in the current calendar month
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.UsageStatusResponse
// @Router /api/subscriptions/usage [get]
func (c *subscriptionController) GetUsage(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	sub, err := c.subscriptions.Get(ctx.Context(), userId)
	if err != nil {
		return err
	}
	usage, err := c.usage.UsageMap(ctx.Context(), userId)
	if err != nil {
		return err
	}

	res := dto.UsageStatusResponse{
		Plan:   string(sub.Plan),
		Period: entity.PeriodKey(time.Now()),
		Usage:  toUsageLimits(usage),
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage status retrieved", res))
}

// CheckAccess answers the capability question for a single feature
// @Summary Check feature access
// @Description Returns whether the user's plan (or an active add-on) grants the feature, ignoring usage budgets
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param feature path string true "Feature key"
// @Success 200 {object} dto.AccessResponse
// @Router /api/subscriptions/access/{feature} [get]
func (c *subscriptionController) CheckAccess(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}
	feature := entity.Feature(ctx.Params("feature"))

	ok, err := c.guard.HasAccess(ctx.Context(), userId, feature)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Access checked", dto.AccessResponse{
		Feature:   string(feature),
		HasAccess: ok,
	}))
}

// Upgrade moves the caller onto a new plan immediately
// @Summary Upgrade subscription
// @Description Changes the plan, reactivates a cancelled or expired subscription and reseeds current-period limits
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param planId path string true "Target plan id"
// @Param request body dto.UpgradeRequest true "Billing cycle"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /api/subscriptions/upgrade/{planId} [post]
func (c *subscriptionController) Upgrade(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpgradeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sub, err := c.subscriptions.Upgrade(ctx.Context(), userId,
		entity.PlanId(ctx.Params("planId")), entity.BillingCycle(req.BillingCycle))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Subscription upgraded", toSubscriptionResponse(sub)))
}

// Cancel soft-cancels the subscription
// @Summary Cancel subscription
// @Description Marks the subscription cancelled; plan access and limits stay in force until the period end date
// @Tags Subscriptions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CancelRequest true "Cancellation reason"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /api/subscriptions/cancel [patch]
func (c *subscriptionController) Cancel(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CancelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	sub, err := c.subscriptions.Cancel(ctx.Context(), userId, req.Reason)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Subscription cancelled", toSubscriptionResponse(sub)))
}

// StartTrial begins a trial of a paid plan
// @Summary Start a trial
// @Description Puts the subscription into a 14-day trial of the given plan with that plan's limits
// @Tags Subscriptions
// @Security BearerAuth
// @Produce json
// @Param planId path string true "Plan id to trial"
// @Success 200 {object} dto.SubscriptionResponse
// @Router /api/subscriptions/trial/{planId} [post]
func (c *subscriptionController) StartTrial(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	sub, err := c.subscriptions.StartTrial(ctx.Context(), userId, entity.PlanId(ctx.Params("planId")))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Trial started", toSubscriptionResponse(sub)))
}

func toSubscriptionResponse(sub *entity.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		Id:           sub.Id,
		Plan:         string(sub.Plan),
		Status:       string(sub.Status),
		BillingCycle: string(sub.BillingCycle),
		StartDate:    sub.StartDate,
		EndDate:      sub.EndDate,
		TrialEndsAt:  sub.TrialEndsAt,
		CancelledAt:  sub.CancelledAt,
		CancelReason: sub.CancelReason,
	}
}

func toUsageLimits(usage map[entity.Feature]*entity.UsageCounter) map[string]dto.UsageLimit {
	out := make(map[string]dto.UsageLimit, len(usage))
	for feature, counter := range usage {
		limit := dto.UsageLimit{Used: counter.Used, Limit: counter.Limit}
		if counter.Limit > 0 {
			pct := float64(counter.Used) / float64(counter.Limit) * 100
			limit.Percentage = &pct
		}
		out[string(feature)] = limit
	}
	return out
}
