package repository

import (
	"context"

	"github.com/polkiloo/orderstatus/internal/domain/model"
)

// MutateFunc computes the next state of a locked order.
type MutateFunc func(current model.Order) (model.Order, error)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (*model.Order, error)
	GetByOrderID(ctx context.Context, orderID int64) (*model.Order, error)
	Save(ctx context.Context, order model.Order) (*model.Order, error)
	// Mutate loads the order under a row lock, applies fn and persists the
	// result in the same transaction. An error from fn aborts without writing.
	Mutate(ctx context.Context, orderID int64, fn MutateFunc) (*model.Order, error)
	ListByRequester(ctx context.Context, requesterID string, filter model.ListFilter) ([]model.Order, error)
	ListByCreator(ctx context.Context, creatorID string, filter model.ListFilter) ([]model.Order, error)
}
