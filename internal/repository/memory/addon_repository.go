package memory

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type AddOnRepository struct {
	store *Store
}

func (r *AddOnRepository) Create(ctx context.Context, addOn *entity.AddOn) error {
	if addOn.Id == uuid.Nil {
		addOn.Id = uuid.New()
	}
	cp := *addOn
	r.store.addOns.Set(addOn.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *AddOnRepository) Update(ctx context.Context, addOn *entity.AddOn) error {
	cp := *addOn
	r.store.addOns.Set(addOn.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *AddOnRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AddOn, error) {
	var out []*entity.AddOn
	for _, item := range r.store.addOns.Items() {
		a := item.Object.(*entity.AddOn)
		if matchesAddOn(a, specs) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matchesAddOn(a *entity.AddOn, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if a.Id != spec.ID {
				return false
			}
		case specification.UserOwnedBy:
			if a.UserId != spec.UserID {
				return false
			}
		case specification.ByStatus:
			if string(a.Status) != spec.Status {
				return false
			}
		}
	}
	return true
}
