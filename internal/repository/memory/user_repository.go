package memory

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	cp := *user
	r.store.users.Set(user.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	cp := *user
	r.store.users.Set(user.Id.String(), &cp, cache.NoExpiration)
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, item := range r.store.users.Items() {
		u := item.Object.(*entity.User)
		if matchesUser(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var n int64
	for _, item := range r.store.users.Items() {
		if matchesUser(item.Object.(*entity.User), specs) {
			n++
		}
	}
	return n, nil
}

func matchesUser(u *entity.User, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if u.Id != spec.ID {
				return false
			}
		case specification.FilterBy:
			if spec.Field == "email" && u.Email != spec.Value {
				return false
			}
		}
	}
	return true
}
