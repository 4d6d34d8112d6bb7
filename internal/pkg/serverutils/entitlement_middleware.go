// FILE: internal/pkg/serverutils/entitlement_middleware.go
package serverutils

import (
	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireFeature gates a route on the boolean capability half only. Routes
// that also consume budget stack CheckUsageLimit after this.
func RequireFeature(guard service.EntitlementService, feature entity.Feature) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := GetUserId(ctx)
		if err != nil {
			return err
		}

		ok, err := guard.HasAccess(ctx.Context(), userId, feature)
		if err != nil {
			return err
		}
		if !ok {
			return ctx.Status(fiber.StatusForbidden).JSON(
				ErrorResponse(fiber.StatusForbidden, "Your plan does not include "+string(feature)),
			)
		}
		return ctx.Next()
	}
}

// CheckUsageLimit runs the full entitlement decision before the handler.
// It does not consume budget; pair it with TrackUsage so the commit only
// happens once the action succeeds.
func CheckUsageLimit(guard service.EntitlementService, feature entity.Feature, amount int) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := GetUserId(ctx)
		if err != nil {
			return err
		}

		decision, err := guard.CheckAmount(ctx.Context(), userId, feature, amount)
		if err != nil {
			return err
		}
		if !decision.Allowed() {
			body := ErrorResponse(fiber.StatusForbidden, "Access denied: "+string(decision.Reason))
			body.Details = dto.DecisionResponse{
				Allowed: false,
				Reason:  string(decision.Reason),
				Used:    decision.Used,
				Limit:   decision.Limit,
			}
			return ctx.Status(fiber.StatusForbidden).JSON(body)
		}
		return ctx.Next()
	}
}

// TrackUsage queues usage after the handler, only when it succeeded. The
// commit is asynchronous so metering never fails the request.
func TrackUsage(publisher service.IUsagePublisherService, feature entity.Feature, amount int, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := GetUserId(ctx)
		if err != nil {
			return err
		}

		if err := ctx.Next(); err != nil {
			return err
		}

		status := ctx.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}

		if err := publisher.PublishCommit(ctx.Context(), userId, feature, amount); err != nil {
			log.Warn("middleware", "failed to queue usage commit", map[string]interface{}{
				"user_id": userId.String(),
				"feature": string(feature),
				"error":   err.Error(),
			})
		}
		return nil
	}
}

// RequirePlan gates a route on a minimum plan tier.
func RequirePlan(guard service.EntitlementService, minPlan entity.PlanId) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		userId, err := GetUserId(ctx)
		if err != nil {
			return err
		}

		ok, err := guard.RequirePlan(ctx.Context(), userId, minPlan)
		if err != nil {
			return err
		}
		if !ok {
			return ctx.Status(fiber.StatusForbidden).JSON(
				ErrorResponse(fiber.StatusForbidden, "This feature requires the "+string(minPlan)+" plan or higher"),
			)
		}
		return ctx.Next()
	}
}
