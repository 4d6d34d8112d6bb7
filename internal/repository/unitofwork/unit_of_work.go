package unitofwork

import (
	"context"

	"marketplace-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	UsageRepository() contract.UsageRepository
	AddOnRepository() contract.AddOnRepository
	PaymentOrderRepository() contract.PaymentOrderRepository
}
