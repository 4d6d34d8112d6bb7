// FILE: internal/service/entitlement_service.go
// Request-time entitlement decisions: subscription status, capability flags,
// then usage budget, short-circuiting on the first denial.
package service

import (
	"context"
	"time"

	"marketplace-be/internal/catalog"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/events"

	"github.com/google/uuid"
)

type EntitlementService interface {
	// Check runs the full three-step decision for one unit. The subscription
	// read performs the lazy trial-expiry check, so a lapsed trial denies
	// immediately.
	Check(ctx context.Context, userId uuid.UUID, feature entity.Feature) (entity.Decision, error)

	// CheckAmount is Check for a bulk reservation.
	CheckAmount(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) (entity.Decision, error)

	// CheckStrict behaves like Check but denies instead of auto-creating a
	// default subscription when the user has no row at all.
	CheckStrict(ctx context.Context, userId uuid.UUID, feature entity.Feature) (entity.Decision, error)

	// HasAccess answers only the capability half: status and flags, no usage.
	HasAccess(ctx context.Context, userId uuid.UUID, feature entity.Feature) (bool, error)

	// RequirePlan compares plan rank against a minimum tier. Pure hierarchy
	// comparison, independent of capabilities and usage.
	RequirePlan(ctx context.Context, userId uuid.UUID, minPlan entity.PlanId) (bool, error)
}

type entitlementService struct {
	uowFactory    unitofwork.RepositoryFactory
	subscriptions SubscriptionService
	usage         UsageService
	publisher     events.Publisher
	log           logger.ILogger
	now           func() time.Time
}

func NewEntitlementService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptions SubscriptionService,
	usage UsageService,
	publisher events.Publisher,
	log logger.ILogger,
) EntitlementService {
	return &entitlementService{
		uowFactory:    uowFactory,
		subscriptions: subscriptions,
		usage:         usage,
		publisher:     publisher,
		log:           log,
		now:           time.Now,
	}
}

func (s *entitlementService) Check(ctx context.Context, userId uuid.UUID, feature entity.Feature) (entity.Decision, error) {
	return s.CheckAmount(ctx, userId, feature, 1)
}

func (s *entitlementService) CheckAmount(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) (entity.Decision, error) {
	sub, err := s.subscriptions.Get(ctx, userId)
	if err != nil {
		return entity.Decision{}, err
	}
	return s.decide(ctx, sub, userId, feature, amount)
}

func (s *entitlementService) CheckStrict(ctx context.Context, userId uuid.UUID, feature entity.Feature) (entity.Decision, error) {
	sub, err := s.subscriptions.Find(ctx, userId)
	if err != nil {
		return entity.Decision{}, err
	}
	if sub == nil {
		return entity.Decision{Reason: entity.DecisionDeniedNoSubscription}, nil
	}
	return s.decide(ctx, sub, userId, feature, 1)
}

func (s *entitlementService) decide(ctx context.Context, sub *entity.Subscription, userId uuid.UUID, feature entity.Feature, amount int) (entity.Decision, error) {
	// 1. Subscription must still grant access (trial not lapsed, cancelled
	//    not past its end date).
	if !sub.AccessRetained(s.now()) {
		return entity.Decision{Reason: entity.DecisionDeniedInactive}, nil
	}

	// 2. Boolean capability gate: plan flags widened by active add-ons.
	granted, err := s.capabilityGranted(ctx, sub, userId, feature)
	if err != nil {
		return entity.Decision{}, err
	}
	if !granted {
		return entity.Decision{Reason: entity.DecisionDeniedPlanLacksCapability}, nil
	}

	// 3. Quantitative gate, only for metered features.
	if _, metered := catalog.LimitFor(sub.Plan, feature); metered {
		res, err := s.usage.Reserve(ctx, userId, feature, amount)
		if err != nil {
			return entity.Decision{}, err
		}
		if !res.Allowed {
			s.notifyLimitReached(ctx, userId, feature, res)
			return entity.Decision{
				Reason: entity.DecisionDeniedUsageExceeded,
				Used:   res.Used,
				Limit:  res.Limit,
			}, nil
		}
		return entity.Decision{
			Reason: entity.DecisionAllowed,
			Used:   res.Used,
			Limit:  res.Limit,
		}, nil
	}

	return entity.Decision{Reason: entity.DecisionAllowed}, nil
}

func (s *entitlementService) HasAccess(ctx context.Context, userId uuid.UUID, feature entity.Feature) (bool, error) {
	sub, err := s.subscriptions.Get(ctx, userId)
	if err != nil {
		return false, err
	}
	if !sub.AccessRetained(s.now()) {
		return false, nil
	}
	return s.capabilityGranted(ctx, sub, userId, feature)
}

func (s *entitlementService) RequirePlan(ctx context.Context, userId uuid.UUID, minPlan entity.PlanId) (bool, error) {
	sub, err := s.subscriptions.Get(ctx, userId)
	if err != nil {
		return false, err
	}
	return catalog.Rank(sub.Plan) >= catalog.Rank(minPlan), nil
}

func (s *entitlementService) capabilityGranted(ctx context.Context, sub *entity.Subscription, userId uuid.UUID, feature entity.Feature) (bool, error) {
	def, err := catalog.Plan(sub.Plan)
	if err != nil {
		return false, err
	}
	if def.HasCapability(feature) {
		return true, nil
	}

	// Add-ons widen the capability set but never touch the usage meter.
	uow := s.uowFactory.NewUnitOfWork(ctx)
	addOns, err := uow.AddOnRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByStatus{Status: string(entity.AddOnStatusActive)},
	)
	if err != nil {
		return false, err
	}
	for _, a := range addOns {
		if a.Type == feature {
			return true, nil
		}
	}
	return false, nil
}

func (s *entitlementService) notifyLimitReached(ctx context.Context, userId uuid.UUID, feature entity.Feature, res *ReservationResult) {
	if s.publisher == nil {
		return
	}
	event := events.NewUsageLimitReached(userId.String(), string(feature), res.Used, res.Limit)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("entitlement", "failed to publish limit-reached event", map[string]interface{}{
			"user_id": userId.String(),
			"feature": string(feature),
			"error":   err.Error(),
		})
	}
}
