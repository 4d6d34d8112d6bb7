// FILE: internal/service/usage_service.go
// Usage meter and recorder: per (user, feature, calendar-month) counters with
// a limit snapshot, created lazily and seeded from the current plan.
package service

import (
	"context"
	"time"

	"marketplace-be/internal/catalog"
	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"
	"marketplace-be/internal/repository/specification"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// PlanResolver narrows SubscriptionService to the single question the meter
// asks: whose limits govern this user right now.
type PlanResolver interface {
	CurrentPlan(ctx context.Context, userId uuid.UUID) (entity.PlanId, error)
}

// ReservationResult is the outcome of a budget check.
type ReservationResult struct {
	Allowed bool
	Used    int
	Limit   int
}

type UsageService interface {
	// Peek returns {used, limit} for the current period, creating the counter
	// from the current plan's limit when absent. Never increments.
	Peek(ctx context.Context, userId uuid.UUID, feature entity.Feature) (*entity.UsageCounter, error)

	// Reserve answers whether amount more units fit in the budget. It does
	// not consume; Reserve followed by Commit is deliberately not atomic as
	// a pair (bounded over-admission under concurrency is accepted).
	Reserve(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) (*ReservationResult, error)

	// Commit unconditionally consumes budget. Call only after the gated
	// action has definitively succeeded.
	Commit(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) error

	// UsageMap reports all metered features of the current plan for the
	// current period without creating counters.
	UsageMap(ctx context.Context, userId uuid.UUID) (map[entity.Feature]*entity.UsageCounter, error)
}

type usageService struct {
	uowFactory unitofwork.RepositoryFactory
	plans      PlanResolver
	log        logger.ILogger
	now        func() time.Time
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory, plans PlanResolver, log logger.ILogger) UsageService {
	return &usageService{
		uowFactory: uowFactory,
		plans:      plans,
		log:        log,
		now:        time.Now,
	}
}

// normalizeAmount applies the default of 1 and rejects negatives before any
// storage is touched. Usage never decreases; refunds are not modeled.
func normalizeAmount(amount int) (int, error) {
	if amount == 0 {
		return 1, nil
	}
	if amount < 0 {
		return 0, &dto.InvalidAmountError{Amount: amount}
	}
	return amount, nil
}

func (s *usageService) Peek(ctx context.Context, userId uuid.UUID, feature entity.Feature) (*entity.UsageCounter, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.ensureCounter(ctx, uow, userId, feature)
}

func (s *usageService) Reserve(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) (*ReservationResult, error) {
	amount, err := normalizeAmount(amount)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	counter, err := s.ensureCounter(ctx, uow, userId, feature)
	if err != nil {
		return nil, err
	}

	res := &ReservationResult{Used: counter.Used, Limit: counter.Limit}
	if counter.Limit == entity.LimitUnlimited {
		res.Allowed = true
		return res, nil
	}
	res.Allowed = counter.Used+amount <= counter.Limit
	return res, nil
}

func (s *usageService) Commit(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) error {
	amount, err := normalizeAmount(amount)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	period := entity.PeriodKey(s.now())

	// Fast path: the counter usually exists already.
	found, err := uow.UsageRepository().Increment(ctx, userId, feature, period, amount)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// First metered action this period: seed the counter, then increment.
	counter, err := s.ensureCounter(ctx, uow, userId, feature)
	if err != nil {
		return err
	}
	if counter.Id == uuid.Nil {
		// Capability-only feature, nothing persisted to meter.
		return nil
	}
	if _, err := uow.UsageRepository().Increment(ctx, userId, feature, period, amount); err != nil {
		return err
	}
	return nil
}

func (s *usageService) UsageMap(ctx context.Context, userId uuid.UUID) (map[entity.Feature]*entity.UsageCounter, error) {
	plan, err := s.plans.CurrentPlan(ctx, userId)
	if err != nil {
		return nil, err
	}
	def, err := catalog.Plan(plan)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	period := entity.PeriodKey(s.now())

	counters, err := uow.UsageRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByPeriod{Period: period},
	)
	if err != nil {
		return nil, err
	}

	byFeature := make(map[entity.Feature]*entity.UsageCounter, len(counters))
	for _, c := range counters {
		byFeature[c.Feature] = c
	}

	out := make(map[entity.Feature]*entity.UsageCounter, len(def.Limits))
	for feature, limit := range def.Limits {
		if c, ok := byFeature[feature]; ok {
			out[feature] = c
			continue
		}
		// No action yet this period: report a zero counter without persisting.
		out[feature] = &entity.UsageCounter{
			UserId:  userId,
			Feature: feature,
			Period:  period,
			Used:    0,
			Limit:   limit,
		}
	}
	return out, nil
}

// ensureCounter loads the counter for the current period, creating it seeded
// from the *current* plan's limit when absent. A new month therefore always
// starts fresh from the live plan, never from the previous period's snapshot.
func (s *usageService) ensureCounter(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, feature entity.Feature) (*entity.UsageCounter, error) {
	period := entity.PeriodKey(s.now())

	counter, err := uow.UsageRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByFeature{Feature: string(feature)},
		specification.ByPeriod{Period: period},
	)
	if err != nil {
		return nil, err
	}
	if counter != nil {
		return counter, nil
	}

	plan, err := s.plans.CurrentPlan(ctx, userId)
	if err != nil {
		return nil, err
	}

	limit, metered := catalog.LimitFor(plan, feature)
	if !metered {
		// Capability-only feature: nothing to persist, report unlimited.
		return &entity.UsageCounter{
			UserId:  userId,
			Feature: feature,
			Period:  period,
			Used:    0,
			Limit:   entity.LimitUnlimited,
		}, nil
	}

	counter = &entity.UsageCounter{
		Id:      uuid.New(),
		UserId:  userId,
		Feature: feature,
		Period:  period,
		Used:    0,
		Limit:   limit,
	}
	if err := uow.UsageRepository().Create(ctx, counter); err != nil {
		// Lost a create race: another request seeded the counter first.
		existing, findErr := uow.UsageRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByFeature{Feature: string(feature)},
			specification.ByPeriod{Period: period},
		)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return counter, nil
}
