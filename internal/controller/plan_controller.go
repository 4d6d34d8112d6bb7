// FILE: internal/controller/plan_controller.go
// Controller for the public plan catalog
package controller

import (
	"marketplace-be/internal/catalog"
	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type PlanController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type planController struct{}

func NewPlanController() PlanController {
	return &planController{}
}

func (c *planController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	// Public: the pricing page needs no authentication
	api.Get("/subscriptions/plans", c.GetPlans)
}

// GetPlans returns the static plan catalog in ascending tier order
// @Summary Get all subscription plans
// @Description Returns every plan tier with prices, commission rates, capability flags and usage limits
// @Tags Plans
// @Produce json
// @Success 200 {object} []dto.PlanResponse
// @Router /api/subscriptions/plans [get]
func (c *planController) GetPlans(ctx *fiber.Ctx) error {
	defs := catalog.All()

	plans := make([]dto.PlanResponse, 0, len(defs))
	for _, def := range defs {
		plans = append(plans, toPlanResponse(def))
	}

	return ctx.JSON(serverutils.SuccessResponse("Plans retrieved", plans))
}

func toPlanResponse(def entity.PlanDefinition) dto.PlanResponse {
	limits := make(map[string]int, len(def.Limits))
	for feature, limit := range def.Limits {
		limits[string(feature)] = limit
	}
	features := make([]string, 0, len(def.Capabilities))
	for _, f := range def.Capabilities {
		features = append(features, string(f))
	}
	return dto.PlanResponse{
		Id:             string(def.Id),
		Name:           def.DisplayName,
		Price:          def.MonthlyPrice,
		CommissionRate: float64(def.CommissionRateBps) / 10000,
		Limits:         limits,
		Features:       features,
	}
}
