package mapper

import (
	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"
)

type PaymentMapper struct{}

func NewPaymentMapper() *PaymentMapper {
	return &PaymentMapper{}
}

func (m *PaymentMapper) ToEntity(o *model.PaymentOrder) *entity.PaymentOrder {
	if o == nil {
		return nil
	}
	return &entity.PaymentOrder{
		Id:           o.Id,
		UserId:       o.UserId,
		Plan:         entity.PlanId(o.Plan),
		BillingCycle: entity.BillingCycle(o.BillingCycle),
		Amount:       o.Amount,
		Status:       entity.PaymentOrderStatus(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func (m *PaymentMapper) ToModel(o *entity.PaymentOrder) *model.PaymentOrder {
	if o == nil {
		return nil
	}
	return &model.PaymentOrder{
		Id:           o.Id,
		UserId:       o.UserId,
		Plan:         string(o.Plan),
		BillingCycle: string(o.BillingCycle),
		Amount:       o.Amount,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}
