package mapper

import (
	"marketplace-be/internal/entity"
	"marketplace-be/internal/model"

	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	snapshot := make(map[entity.Feature]int)
	for k, v := range s.LimitSnapshot.Data() {
		snapshot[entity.Feature(k)] = v
	}
	return &entity.Subscription{
		Id:            s.Id,
		UserId:        s.UserId,
		Plan:          entity.PlanId(s.Plan),
		Status:        entity.SubscriptionStatus(s.Status),
		BillingCycle:  entity.BillingCycle(s.BillingCycle),
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		TrialEndsAt:   s.TrialEndsAt,
		CancelledAt:   s.CancelledAt,
		CancelReason:  s.CancelReason,
		LimitSnapshot: snapshot,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	snapshot := make(map[string]int)
	for k, v := range s.LimitSnapshot {
		snapshot[string(k)] = v
	}
	return &model.Subscription{
		Id:            s.Id,
		UserId:        s.UserId,
		Plan:          string(s.Plan),
		Status:        string(s.Status),
		BillingCycle:  string(s.BillingCycle),
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		TrialEndsAt:   s.TrialEndsAt,
		CancelledAt:   s.CancelledAt,
		CancelReason:  s.CancelReason,
		LimitSnapshot: datatypes.NewJSONType(snapshot),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
