package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"
)

type AddOnRepository interface {
	Create(ctx context.Context, addOn *entity.AddOn) error
	Update(ctx context.Context, addOn *entity.AddOn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AddOn, error)
}
