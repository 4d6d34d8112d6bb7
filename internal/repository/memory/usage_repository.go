package memory

import (
	"context"
	"fmt"
	"sync"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

var usageMu sync.Mutex

type UsageRepository struct {
	store *Store
}

func counterKey(userId uuid.UUID, feature entity.Feature, period string) string {
	return fmt.Sprintf("%s|%s|%s", userId, feature, period)
}

func (r *UsageRepository) Create(ctx context.Context, counter *entity.UsageCounter) error {
	usageMu.Lock()
	defer usageMu.Unlock()
	if counter.Id == uuid.Nil {
		counter.Id = uuid.New()
	}
	key := counterKey(counter.UserId, counter.Feature, counter.Period)
	if _, found := r.store.counters.Get(key); found {
		return fmt.Errorf("usage counter already exists for %s", key)
	}
	cp := *counter
	r.store.counters.Set(key, &cp, cache.NoExpiration)
	return nil
}

func (r *UsageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UsageCounter, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *UsageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCounter, error) {
	var out []*entity.UsageCounter
	for _, item := range r.store.counters.Items() {
		c := item.Object.(*entity.UsageCounter)
		if matchesCounter(c, specs) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// Increment mirrors the single-statement semantics of the SQL implementation:
// the stored counter is replaced with a fresh copy under the lock, so readers
// holding the old pointer never observe a partial write.
func (r *UsageRepository) Increment(ctx context.Context, userId uuid.UUID, feature entity.Feature, period string, amount int) (bool, error) {
	usageMu.Lock()
	defer usageMu.Unlock()
	key := counterKey(userId, feature, period)
	x, found := r.store.counters.Get(key)
	if !found {
		return false, nil
	}
	cp := *x.(*entity.UsageCounter)
	cp.Used += amount
	r.store.counters.Set(key, &cp, cache.NoExpiration)
	return true, nil
}

func (r *UsageRepository) SetLimit(ctx context.Context, userId uuid.UUID, feature entity.Feature, period string, limit int) error {
	usageMu.Lock()
	defer usageMu.Unlock()
	key := counterKey(userId, feature, period)
	if x, found := r.store.counters.Get(key); found {
		cp := *x.(*entity.UsageCounter)
		cp.Limit = limit
		r.store.counters.Set(key, &cp, cache.NoExpiration)
	}
	return nil
}

func matchesCounter(c *entity.UsageCounter, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if c.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if c.UserId != spec.UserID {
				return false
			}
		case specification.ByFeature:
			if string(c.Feature) != spec.Feature {
				return false
			}
		case specification.ByPeriod:
			if c.Period != spec.Period {
				return false
			}
		case specification.PeriodBetween:
			if c.Period < spec.From || c.Period > spec.To {
				return false
			}
		}
	}
	return true
}
