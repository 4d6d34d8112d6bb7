// FILE: internal/controller/payment_controller.go
// Controller for paid-upgrade checkout and the provider webhook
package controller

import (
	"marketplace-be/internal/dto"
	"marketplace-be/internal/pkg/serverutils"
	"marketplace-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PaymentController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type paymentController struct {
	payments service.IPaymentService
}

func NewPaymentController(payments service.IPaymentService) PaymentController {
	return &paymentController{
		payments: payments,
	}
}

func (c *paymentController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	payments := api.Group("/payments")
	payments.Post("/checkout", jwtMiddleware, c.Checkout)
	// Provider callback, authenticated by signature instead of a bearer token
	payments.Post("/notification", c.HandleNotification)
}

// Checkout creates a payment order for a paid plan
// @Summary Create a checkout session
// @Description Creates a pending order and returns the payment provider redirect; the plan changes once payment settles
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckoutRequest true "Plan and billing cycle"
// @Success 200 {object} dto.CheckoutResponse
// @Router /api/payments/checkout [post]
func (c *paymentController) Checkout(ctx *fiber.Ctx) error {
	userId, err := serverutils.GetUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.payments.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

// HandleNotification processes payment provider webhooks
// @Summary Payment notification webhook
// @Description Verifies the provider signature and applies the plan change on settlement; duplicates are ignored
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} serverutils.Response[any]
// @Router /api/payments/notification [post]
func (c *paymentController) HandleNotification(ctx *fiber.Ctx) error {
	var payload dto.PaymentWebhookRequest
	if err := ctx.BodyParser(&payload); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed notification payload")
	}

	if err := c.payments.HandleNotification(ctx.Context(), &payload); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Notification processed", nil))
}
