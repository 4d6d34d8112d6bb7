package memory

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type PaymentOrderRepository struct {
	store *Store
}

func (r *PaymentOrderRepository) Create(ctx context.Context, order *entity.PaymentOrder) error {
	if order.Id == uuid.Nil {
		order.Id = uuid.New()
	}
	cp := *order
	r.store.orders.Set(order.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *PaymentOrderRepository) Update(ctx context.Context, order *entity.PaymentOrder) error {
	cp := *order
	r.store.orders.Set(order.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *PaymentOrderRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentOrder, error) {
	for _, item := range r.store.orders.Items() {
		o := item.Object.(*entity.PaymentOrder)
		if matchesPaymentOrder(o, specs) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func matchesPaymentOrder(o *entity.PaymentOrder, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if o.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if o.UserId != spec.UserID {
				return false
			}
		case specification.ByStatus:
			if string(o.Status) != spec.Status {
				return false
			}
		}
	}
	return true
}
