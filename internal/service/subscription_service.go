// FILE: internal/service/subscription_service.go
// Lifecycle manager for the one-subscription-per-user record: lazy creation,
// trial expiry, upgrades, soft-cancel, and usage-limit reseeding.
package service

import (
	"context"
	"time"

	"marketplace-be/internal/catalog"
	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/pkg/mailer"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"
	"marketplace-be/pkg/events"

	"github.com/google/uuid"
)

type SubscriptionService interface {
	// Get returns the user's subscription, lazily creating a default
	// free/active one. Reads never return a stale trial past its deadline.
	Get(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)

	// Find returns the subscription without auto-creating; nil when absent.
	Find(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error)

	Upgrade(ctx context.Context, userId uuid.UUID, newPlan entity.PlanId, cycle entity.BillingCycle) (*entity.Subscription, error)
	Cancel(ctx context.Context, userId uuid.UUID, reason string) (*entity.Subscription, error)
	StartTrial(ctx context.Context, userId uuid.UUID, plan entity.PlanId) (*entity.Subscription, error)

	// CurrentPlan resolves the plan whose limits govern the user right now.
	CurrentPlan(ctx context.Context, userId uuid.UUID) (entity.PlanId, error)

	// ExpireOverdueTrials is the sweep counterpart of the lazy expiry check.
	ExpireOverdueTrials(ctx context.Context) (int, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	email      mailer.IEmailService
	log        logger.ILogger
	now        func() time.Time
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	email mailer.IEmailService,
	log logger.ILogger,
) SubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		publisher:  publisher,
		email:      email,
		log:        log,
		now:        time.Now,
	}
}

func (s *subscriptionService) Get(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	if sub == nil {
		return s.createDefault(ctx, uow, userId)
	}

	// Lazy trial-expiry check. Idempotent: pure function of now vs deadline.
	if sub.TrialOverdue(s.now()) {
		if err := s.expireTrial(ctx, uow, sub); err != nil {
			return nil, err
		}
	}

	return sub, nil
}

func (s *subscriptionService) Find(ctx context.Context, userId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil || sub == nil {
		return nil, err
	}

	if sub.TrialOverdue(s.now()) {
		if err := s.expireTrial(ctx, uow, sub); err != nil {
			return nil, err
		}
	}

	return sub, nil
}

func (s *subscriptionService) createDefault(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.Subscription, error) {
	def, err := catalog.Plan(catalog.DefaultPlan)
	if err != nil {
		return nil, err
	}

	sub := &entity.Subscription{
		Id:            uuid.New(),
		UserId:        userId,
		Plan:          def.Id,
		Status:        entity.SubscriptionStatusActive,
		BillingCycle:  entity.BillingCycleMonthly,
		StartDate:     s.now(),
		LimitSnapshot: def.Limits,
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription", "created default subscription", map[string]interface{}{
		"user_id": userId.String(),
		"plan":    string(def.Id),
	})
	return sub, nil
}

func (s *subscriptionService) expireTrial(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription) error {
	sub.Status = entity.SubscriptionStatusExpired
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return err
	}

	s.log.Info("subscription", "trial expired", map[string]interface{}{
		"user_id": sub.UserId.String(),
		"plan":    string(sub.Plan),
	})
	s.publish(ctx, events.NewTrialExpired(sub.UserId.String(), string(sub.Plan)))
	s.notifyTrialExpired(ctx, uow, sub)
	return nil
}

func (s *subscriptionService) Upgrade(ctx context.Context, userId uuid.UUID, newPlan entity.PlanId, cycle entity.BillingCycle) (*entity.Subscription, error) {
	def, err := catalog.Plan(newPlan)
	if err != nil {
		return nil, &dto.InvalidPlanError{Plan: string(newPlan)}
	}
	if cycle != entity.BillingCycleMonthly && cycle != entity.BillingCycleAnnual {
		cycle = entity.BillingCycleMonthly
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub, err = s.createDefault(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}

	fromPlan := sub.Plan
	now := s.now()
	end := now.AddDate(0, 1, 0)
	if cycle == entity.BillingCycleAnnual {
		end = now.AddDate(1, 0, 0)
	}

	// Upgrade revives any state: expired and cancelled both come back active.
	sub.Plan = def.Id
	sub.Status = entity.SubscriptionStatusActive
	sub.BillingCycle = cycle
	sub.EndDate = &end
	sub.TrialEndsAt = nil
	sub.CancelledAt = nil
	sub.CancelReason = ""
	sub.LimitSnapshot = def.Limits

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	// Reseed current-period counters to the new plan's ceilings. Used counts
	// carry forward: a mid-period downgrade can leave the user over budget
	// until the next period, which is intended.
	if err := s.reseedCurrentPeriod(ctx, uow, userId, def); err != nil {
		return nil, err
	}

	s.log.Info("subscription", "plan changed", map[string]interface{}{
		"user_id":       userId.String(),
		"from_plan":     string(fromPlan),
		"to_plan":       string(def.Id),
		"billing_cycle": string(cycle),
	})
	s.publish(ctx, events.NewSubscriptionUpgraded(userId.String(), string(fromPlan), string(def.Id), string(cycle)))

	return sub, nil
}

func (s *subscriptionService) Cancel(ctx context.Context, userId uuid.UUID, reason string) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub, err = s.createDefault(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	sub.Status = entity.SubscriptionStatusCancelled
	sub.CancelledAt = &now
	sub.CancelReason = reason

	// Soft-cancel: plan and limits stay in force until endDate. Access is not
	// revoked here; AccessRetained handles the cutoff. A subscription with no
	// endDate (the free default, which has no paid period) lapses immediately.
	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	s.log.Info("subscription", "subscription cancelled", map[string]interface{}{
		"user_id": userId.String(),
		"plan":    string(sub.Plan),
		"reason":  reason,
	})
	s.publish(ctx, events.NewSubscriptionCancelled(userId.String(), string(sub.Plan), reason))
	s.notifyCancellation(ctx, uow, sub)

	return sub, nil
}

func (s *subscriptionService) StartTrial(ctx context.Context, userId uuid.UUID, plan entity.PlanId) (*entity.Subscription, error) {
	def, err := catalog.Plan(plan)
	if err != nil {
		return nil, &dto.InvalidPlanError{Plan: string(plan)}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub, err = s.createDefault(ctx, uow, userId)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	trialEnd := now.Add(entity.TrialDuration)

	sub.Plan = def.Id
	sub.Status = entity.SubscriptionStatusTrial
	sub.TrialEndsAt = &trialEnd
	sub.CancelledAt = nil
	sub.CancelReason = ""
	sub.LimitSnapshot = def.Limits

	if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
		return nil, err
	}

	if err := s.reseedCurrentPeriod(ctx, uow, userId, def); err != nil {
		return nil, err
	}

	s.log.Info("subscription", "trial started", map[string]interface{}{
		"user_id":       userId.String(),
		"plan":          string(def.Id),
		"trial_ends_at": trialEnd,
	})
	s.publish(ctx, events.NewTrialStarted(userId.String(), string(def.Id), trialEnd))

	return sub, nil
}

func (s *subscriptionService) CurrentPlan(ctx context.Context, userId uuid.UUID) (entity.PlanId, error) {
	sub, err := s.Get(ctx, userId)
	if err != nil {
		return "", err
	}
	return sub.Plan, nil
}

func (s *subscriptionService) ExpireOverdueTrials(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	overdue, err := uow.SubscriptionRepository().FindAll(ctx, specification.TrialDeadlinePassed{Now: s.now()})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, sub := range overdue {
		if err := s.expireTrial(ctx, uow, sub); err != nil {
			s.log.Error("subscription", "failed to expire trial", map[string]interface{}{
				"user_id": sub.UserId.String(),
				"error":   err.Error(),
			})
			continue
		}
		expired++
	}
	return expired, nil
}

// reseedCurrentPeriod rewrites the limit snapshot on every counter the user
// already has this period, preserving used. Features the new plan does not
// meter keep their old counter untouched; capability gating covers them.
func (s *subscriptionService) reseedCurrentPeriod(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, def entity.PlanDefinition) error {
	period := entity.PeriodKey(s.now())

	counters, err := uow.UsageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByPeriod{Period: period},
	)
	if err != nil {
		return err
	}

	for _, c := range counters {
		limit, metered := def.Limits[c.Feature]
		if !metered {
			continue
		}
		if err := uow.UsageRepository().SetLimit(ctx, userId, c.Feature, period, limit); err != nil {
			return err
		}
	}
	return nil
}

func (s *subscriptionService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("subscription", "failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (s *subscriptionService) notifyTrialExpired(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription) {
	if s.email == nil {
		return
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err != nil || user == nil {
		return
	}
	def, err := catalog.Plan(sub.Plan)
	if err != nil {
		return
	}
	if err := s.email.SendTrialExpired(user.Email, def.DisplayName); err != nil {
		s.log.Warn("subscription", "failed to send trial-expired mail", map[string]interface{}{
			"user_id": sub.UserId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *subscriptionService) notifyCancellation(ctx context.Context, uow unitofwork.UnitOfWork, sub *entity.Subscription) {
	if s.email == nil {
		return
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: sub.UserId})
	if err != nil || user == nil {
		return
	}
	def, err := catalog.Plan(sub.Plan)
	if err != nil {
		return
	}
	if err := s.email.SendCancellationConfirmation(user.Email, def.DisplayName, sub.EndDate); err != nil {
		s.log.Warn("subscription", "failed to send cancellation mail", map[string]interface{}{
			"user_id": sub.UserId.String(),
			"error":   err.Error(),
		})
	}
}
