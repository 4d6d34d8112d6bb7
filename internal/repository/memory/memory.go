// Package memory provides go-cache backed implementations of the repository
// contracts. They interpret the subset of specifications the services use and
// back the service unit tests, which must not require a database.
package memory

import (
	"context"

	"marketplace-be/internal/repository/contract"
	"marketplace-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

// Store is the shared backing state for one in-memory "database".
type Store struct {
	users         *cache.Cache
	subscriptions *cache.Cache
	counters      *cache.Cache
	addOns        *cache.Cache
	orders        *cache.Cache
}

func NewStore() *Store {
	return &Store{
		users:         cache.New(cache.NoExpiration, 0),
		subscriptions: cache.New(cache.NoExpiration, 0),
		counters:      cache.New(cache.NoExpiration, 0),
		addOns:        cache.New(cache.NoExpiration, 0),
		orders:        cache.New(cache.NoExpiration, 0),
	}
}

type repositoryFactory struct {
	store *Store
}

// NewRepositoryFactory returns a unitofwork.RepositoryFactory over the
// in-memory store, drop-in compatible with the gorm-backed one.
func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &repositoryFactory{store: store}
}

func (f *repositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

type unitOfWork struct {
	store *Store
}

// Transactions are a no-op in memory; operations apply immediately.
func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &UserRepository{store: u.store}
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &SubscriptionRepository{store: u.store}
}

func (u *unitOfWork) UsageRepository() contract.UsageRepository {
	return &UsageRepository{store: u.store}
}

func (u *unitOfWork) AddOnRepository() contract.AddOnRepository {
	return &AddOnRepository{store: u.store}
}

func (u *unitOfWork) PaymentOrderRepository() contract.PaymentOrderRepository {
	return &PaymentOrderRepository{store: u.store}
}
