// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"time"

	"marketplace-be/internal/catalog"
	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/redis/go-redis/v9"
)

// annualMonths is how many monthly prices an annual order costs. Two months
// free on annual billing.
const annualMonths = 10

// webhookDedupTTL bounds how long a processed notification key lives in redis.
const webhookDedupTTL = 24 * time.Hour

type IPaymentService interface {
	// Checkout creates a pending order for a paid plan and returns the
	// provider redirect. The plan change itself happens in HandleNotification.
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)

	// HandleNotification processes a provider webhook. Duplicate deliveries
	// and unknown orders are acknowledged without effect.
	HandleNotification(ctx context.Context, payload *dto.PaymentWebhookRequest) error
}

type paymentService struct {
	uowFactory    unitofwork.RepositoryFactory
	subscriptions SubscriptionService
	snapClient    snap.Client
	serverKey     string
	redis         *redis.Client
	log           logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptions SubscriptionService,
	serverKey string,
	isProduction bool,
	redisClient *redis.Client,
	log logger.ILogger,
) IPaymentService {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}

	var sClient snap.Client
	sClient.New(serverKey, env)

	return &paymentService{
		uowFactory:    uowFactory,
		subscriptions: subscriptions,
		snapClient:    sClient,
		serverKey:     serverKey,
		redis:         redisClient,
		log:           log,
	}
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	plan := entity.PlanId(req.PlanId)
	def, err := catalog.Plan(plan)
	if err != nil {
		return nil, &dto.InvalidPlanError{Plan: req.PlanId}
	}
	if def.MonthlyPrice == 0 {
		return nil, fmt.Errorf("plan %s has no charge, use the upgrade endpoint directly", plan)
	}

	cycle := entity.BillingCycle(req.BillingCycle)
	amount := def.MonthlyPrice
	if cycle == entity.BillingCycleAnnual {
		amount = def.MonthlyPrice * annualMonths
	} else {
		cycle = entity.BillingCycleMonthly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}

	order := &entity.PaymentOrder{
		Id:           uuid.New(),
		UserId:       userId,
		Plan:         def.Id,
		BillingCycle: cycle,
		Amount:       amount,
		Status:       entity.PaymentOrderStatusPending,
	}
	if err := uow.PaymentOrderRepository().Create(ctx, order); err != nil {
		return nil, err
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.Id.String(),
			GrossAmt: int64(amount),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    string(def.Id),
				Name:  fmt.Sprintf("%s plan (%s)", def.DisplayName, cycle),
				Price: int64(amount),
				Qty:   1,
			},
		},
	}
	if user != nil {
		snapReq.CustomerDetail = &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		}
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		s.log.Error("payment", "failed to create provider transaction", map[string]interface{}{
			"order_id": order.Id.String(),
			"error":    snapErr.Error(),
		})
		return nil, fmt.Errorf("payment provider error: %s", snapErr.Error())
	}

	s.log.Info("payment", "checkout created", map[string]interface{}{
		"order_id": order.Id.String(),
		"user_id":  userId.String(),
		"plan":     string(def.Id),
		"amount":   amount,
	})

	return &dto.CheckoutResponse{
		OrderId:     order.Id.String(),
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, payload *dto.PaymentWebhookRequest) error {
	if !s.validSignature(payload) {
		return fmt.Errorf("invalid webhook signature for order %s", payload.OrderId)
	}

	if s.seenBefore(ctx, payload) {
		s.log.Info("payment", "duplicate webhook ignored", map[string]interface{}{
			"order_id": payload.OrderId,
			"status":   payload.TransactionStatus,
		})
		return nil
	}

	orderId, err := uuid.Parse(payload.OrderId)
	if err != nil {
		s.log.Warn("payment", "webhook with malformed order id", map[string]interface{}{
			"order_id": payload.OrderId,
		})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.PaymentOrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return err
	}
	if order == nil {
		s.log.Warn("payment", "webhook for unknown order", map[string]interface{}{
			"order_id": payload.OrderId,
		})
		return nil
	}

	switch payload.TransactionStatus {
	case "capture", "settlement":
		if order.Status == entity.PaymentOrderStatusPaid {
			return nil
		}
		if _, err := s.subscriptions.Upgrade(ctx, order.UserId, order.Plan, order.BillingCycle); err != nil {
			return err
		}
		order.Status = entity.PaymentOrderStatusPaid
		if err := uow.PaymentOrderRepository().Update(ctx, order); err != nil {
			return err
		}
		s.log.Info("payment", "order settled", map[string]interface{}{
			"order_id": order.Id.String(),
			"user_id":  order.UserId.String(),
			"plan":     string(order.Plan),
		})
	case "deny", "cancel", "expire", "failure":
		order.Status = entity.PaymentOrderStatusFailed
		if err := uow.PaymentOrderRepository().Update(ctx, order); err != nil {
			return err
		}
		s.log.Info("payment", "order failed", map[string]interface{}{
			"order_id": order.Id.String(),
			"status":   payload.TransactionStatus,
		})
	default:
		// pending and other intermediate statuses need no action
	}
	return nil
}

// validSignature checks the provider's sha512 over order id, status code,
// gross amount and the server key.
func (s *paymentService) validSignature(payload *dto.PaymentWebhookRequest) bool {
	raw := payload.OrderId + payload.StatusCode + payload.GrossAmount + s.serverKey
	expected := fmt.Sprintf("%x", sha512.Sum512([]byte(raw)))
	return expected == payload.SignatureKey
}

// seenBefore marks the (order, status) pair in redis and reports whether it
// was already there. Without redis every delivery is treated as fresh; the
// status switch stays idempotent either way.
func (s *paymentService) seenBefore(ctx context.Context, payload *dto.PaymentWebhookRequest) bool {
	if s.redis == nil {
		return false
	}
	key := fmt.Sprintf("payment:webhook:%s:%s", payload.OrderId, payload.TransactionStatus)
	fresh, err := s.redis.SetNX(ctx, key, 1, webhookDedupTTL).Result()
	if err != nil {
		s.log.Warn("payment", "webhook dedup check failed", map[string]interface{}{
			"order_id": payload.OrderId,
			"error":    err.Error(),
		})
		return false
	}
	return !fresh
}
