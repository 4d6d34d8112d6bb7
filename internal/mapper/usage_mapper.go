package mapper

import (
	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(c *model.UsageCounter) *entity.UsageCounter {
	if c == nil {
		return nil
	}
	return &entity.UsageCounter{
		Id:        c.Id,
		UserId:    c.UserId,
		Feature:   entity.Feature(c.Feature),
		Period:    c.Period,
		Used:      c.Used,
		Limit:     c.LimitValue,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (m *UsageMapper) ToModel(c *entity.UsageCounter) *model.UsageCounter {
	if c == nil {
		return nil
	}
	return &model.UsageCounter{
		Id:         c.Id,
		UserId:     c.UserId,
		Feature:    string(c.Feature),
		Period:     c.Period,
		Used:       c.Used,
		LimitValue: c.Limit,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
