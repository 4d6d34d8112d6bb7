package mapper

import (
	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
)

type AddOnMapper struct{}

func NewAddOnMapper() *AddOnMapper {
	return &AddOnMapper{}
}

func (m *AddOnMapper) ToEntity(a *model.AddOn) *entity.AddOn {
	if a == nil {
		return nil
	}
	return &entity.AddOn{
		Id:        a.Id,
		UserId:    a.UserId,
		Type:      entity.Feature(a.Type),
		Status:    entity.AddOnStatus(a.Status),
		StartDate: a.StartDate,
		Price:     a.Price,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *AddOnMapper) ToModel(a *entity.AddOn) *model.AddOn {
	if a == nil {
		return nil
	}
	return &model.AddOn{
		Id:        a.Id,
		UserId:    a.UserId,
		Type:      string(a.Type),
		Status:    string(a.Status),
		StartDate: a.StartDate,
		Price:     a.Price,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
