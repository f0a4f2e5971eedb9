package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/orderstatus/internal/domain/errors"
	"github.com/polkiloo/orderstatus/internal/domain/model"
	"github.com/polkiloo/orderstatus/internal/domain/repository"
)

// OrderRepositoryStub keeps orders in memory. Fn fields override the default behaviour.
type OrderRepositoryStub struct {
	CreateFn          func(context.Context, model.Order) (*model.Order, error)
	GetByOrderIDFn    func(context.Context, int64) (*model.Order, error)
	SaveFn            func(context.Context, model.Order) (*model.Order, error)
	MutateFn          func(context.Context, int64, repository.MutateFunc) (*model.Order, error)
	ListByRequesterFn func(context.Context, string, model.ListFilter) ([]model.Order, error)
	ListByCreatorFn   func(context.Context, string, model.ListFilter) ([]model.Order, error)

	mu     sync.Mutex
	orders map[int64]model.Order
}

// NewOrderRepositoryStub constructs stub repository seeded with orders.
func NewOrderRepositoryStub(seed ...model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{orders: make(map[int64]model.Order)}
	for _, o := range seed {
		s.orders[o.OrderID] = o
	}
	return s
}

// Create stores a fresh order unless one with the same id exists.
func (s *OrderRepositoryStub) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders == nil {
		s.orders = make(map[int64]model.Order)
	}
	if _, exists := s.orders[order.OrderID]; exists {
		return nil, domainErrors.ErrDuplicateOrder
	}
	now := time.Now()
	created := model.Order{
		OrderID:     order.OrderID,
		RequesterID: order.RequesterID,
		CreatorID:   order.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.orders[order.OrderID] = created
	return &created, nil
}

// GetByOrderID returns stored order or not found.
func (s *OrderRepositoryStub) GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.GetByOrderIDFn != nil {
		return s.GetByOrderIDFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// Save overwrites stored flags.
func (s *OrderRepositoryStub) Save(ctx context.Context, order model.Order) (*model.Order, error) {
	if s.SaveFn != nil {
		return s.SaveFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(order)
}

func (s *OrderRepositoryStub) saveLocked(order model.Order) (*model.Order, error) {
	current, ok := s.orders[order.OrderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	current.Requested = order.Requested
	current.Accepted = order.Accepted
	current.Completed = order.Completed
	current.Paid = order.Paid
	current.Alert = order.Alert
	current.UpdatedAt = time.Now()
	s.orders[order.OrderID] = current
	return &current, nil
}

// Mutate runs fn under the stub mutex, mirroring the row lock of real storage.
func (s *OrderRepositoryStub) Mutate(ctx context.Context, orderID int64, fn repository.MutateFunc) (*model.Order, error) {
	if s.MutateFn != nil {
		return s.MutateFn(ctx, orderID, fn)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	next.OrderID = orderID
	return s.saveLocked(next)
}

// ListByRequester filters stored orders by requester.
func (s *OrderRepositoryStub) ListByRequester(ctx context.Context, requesterID string, filter model.ListFilter) ([]model.Order, error) {
	if s.ListByRequesterFn != nil {
		return s.ListByRequesterFn(ctx, requesterID, filter)
	}
	return s.list(func(o model.Order) bool { return o.RequesterID == requesterID }, filter), nil
}

// ListByCreator filters stored orders by creator.
func (s *OrderRepositoryStub) ListByCreator(ctx context.Context, creatorID string, filter model.ListFilter) ([]model.Order, error) {
	if s.ListByCreatorFn != nil {
		return s.ListByCreatorFn(ctx, creatorID, filter)
	}
	return s.list(func(o model.Order) bool { return o.CreatorID == creatorID }, filter), nil
}

func (s *OrderRepositoryStub) list(match func(model.Order) bool, filter model.ListFilter) []model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]model.Order, 0)
	for _, o := range s.orders {
		if !match(o) {
			continue
		}
		if filter.State != "" && !o.Flag(filter.State) {
			continue
		}
		result = append(result, o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderID < result[j].OrderID })
	return result
}

// FactoryStub satisfies repository.Factory for handler and facade tests.
type FactoryStub struct {
	OrdersRepo    repository.OrderRepository
	HealthCheckFn func(context.Context) error
}

func (f FactoryStub) Orders() repository.OrderRepository {
	return f.OrdersRepo
}

// HealthCheck delegates to override or reports healthy.
func (f FactoryStub) HealthCheck(ctx context.Context) error {
	if f.HealthCheckFn != nil {
		return f.HealthCheckFn(ctx)
	}
	return nil
}

var (
	_ repository.OrderRepository = (*OrderRepositoryStub)(nil)
	_ repository.Factory         = FactoryStub{}
)
