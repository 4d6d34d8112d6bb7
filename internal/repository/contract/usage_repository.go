package contract

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UsageRepository interface {
	Create(ctx context.Context, counter *entity.UsageCounter) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UsageCounter, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCounter, error)

	// Increment adds amount to used in a single atomic statement, never a
	// read-modify-write. found=false means no counter row exists yet for the
	// tuple; callers create one first.
	Increment(ctx context.Context, userId uuid.UUID, feature entity.Feature, period string, amount int) (found bool, err error)

	// SetLimit rewrites the limit snapshot of an existing counter, preserving
	// used. Reseeds after a plan change go through here.
	SetLimit(ctx context.Context, userId uuid.UUID, feature entity.Feature, period string, limit int) error
}
