package implementation

import (
	"context"
	"errors"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageRepositoryImpl) Create(ctx context.Context, counter *entity.UsageCounter) error {
	m := r.mapper.ToModel(counter)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*counter = *r.mapper.ToEntity(m)
	return nil
}

func (r *UsageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UsageCounter, error) {
	var m model.UsageCounter
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UsageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageCounter, error) {
	var models []*model.UsageCounter
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UsageCounter, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// Increment runs as a single UPDATE so concurrent commits for the same tuple
// serialize at the database row, never through a read-modify-write in Go.
func (r *UsageRepositoryImpl) Increment(ctx context.Context, userId uuid.UUID, feature entity.Feature, period string, amount int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.UsageCounter{}).
		Where("user_id = ? AND feature = ? AND period = ?", userId, string(feature), period).
		Update("used", gorm.Expr("used + ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *UsageRepositoryImpl) SetLimit(ctx context.Context, userId uuid.UUID, feature entity.Feature, period string, limit int) error {
	return r.db.WithContext(ctx).Model(&model.UsageCounter{}).
		Where("user_id = ? AND feature = ? AND period = ?", userId, string(feature), period).
		Update("limit_value", limit).Error
}
