package memory

import (
	"context"
	"sync"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var subMu sync.Mutex

type SubscriptionRepository struct {
	store *Store
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *entity.Subscription) error {
	subMu.Lock()
	defer subMu.Unlock()
	if sub.Id == uuid.Nil {
		sub.Id = uuid.New()
	}
	cp := *sub
	r.store.subscriptions.Set(sub.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *entity.Subscription) error {
	subMu.Lock()
	defer subMu.Unlock()
	cp := *sub
	r.store.subscriptions.Set(sub.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *SubscriptionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *SubscriptionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, item := range r.store.subscriptions.Items() {
		sub := item.Object.(*entity.Subscription)
		if matchesSubscription(sub, specs) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *SubscriptionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func matchesSubscription(sub *entity.Subscription, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if sub.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if sub.UserId != spec.UserID {
				return false
			}
		case specification.ByStatus:
			if string(sub.Status) != spec.Status {
				return false
			}
		case specification.TrialDeadlinePassed:
			now, ok := spec.Now.(time.Time)
			if !ok {
				return false
			}
			if !sub.TrialOverdue(now) {
				return false
			}
		}
	}
	return true
}
