package implementation

import (
	"context"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/mapper"
	"marketplace-be/internal/model"
	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AddOnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AddOnMapper
}

func NewAddOnRepository(db *gorm.DB) contract.AddOnRepository {
	return &AddOnRepositoryImpl{
		db:     db,
		mapper: mapper.NewAddOnMapper(),
	}
}

func (r *AddOnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AddOnRepositoryImpl) Create(ctx context.Context, addOn *entity.AddOn) error {
	m := r.mapper.ToModel(addOn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*addOn = *r.mapper.ToEntity(m)
	return nil
}

func (r *AddOnRepositoryImpl) Update(ctx context.Context, addOn *entity.AddOn) error {
	m := r.mapper.ToModel(addOn)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*addOn = *r.mapper.ToEntity(m)
	return nil
}

func (r *AddOnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AddOn, error) {
	var models []*model.AddOn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.AddOn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
