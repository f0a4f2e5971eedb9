package app

import (
	"context"

	"github.com/polkiloo/orderstatus/internal/domain/model"
	"github.com/polkiloo/orderstatus/internal/domain/repository"
	pkgAuth "github.com/polkiloo/orderstatus/internal/pkg/auth"
	"github.com/polkiloo/orderstatus/internal/usecase"
)

// OrderFacade is the single entry point the HTTP layer talks to.
type OrderFacade struct {
	orders  *usecase.OrderUseCase
	tokens  pkgAuth.Strategy
	storage repository.Factory
}

func NewOrderFacade(orders *usecase.OrderUseCase, tokens pkgAuth.Strategy, storage repository.Factory) *OrderFacade {
	return &OrderFacade{orders: orders, tokens: tokens, storage: storage}
}

func (f *OrderFacade) CreateOrder(ctx context.Context, orderID int64, requesterID, creatorID string) (*model.Order, error) {
	return f.orders.Create(ctx, orderID, requesterID, creatorID)
}

func (f *OrderFacade) OrderStatus(ctx context.Context, orderID int64) (*model.Status, error) {
	return f.orders.Status(ctx, orderID)
}

func (f *OrderFacade) UpdateOrderState(ctx context.Context, orderID int64, actor, stateType string, newValue bool) (*model.Order, error) {
	return f.orders.Update(ctx, orderID, actor, stateType, newValue)
}

func (f *OrderFacade) OrdersByRequester(ctx context.Context, requesterID, state string) ([]model.Order, error) {
	return f.orders.ListByRequester(ctx, requesterID, state)
}

func (f *OrderFacade) OrdersByCreator(ctx context.Context, creatorID, state string) ([]model.Order, error) {
	return f.orders.ListByCreator(ctx, creatorID, state)
}

// ParseToken resolves the acting identity carried by a bearer token.
func (f *OrderFacade) ParseToken(token string) (string, error) {
	return f.tokens.ParseToken(token)
}

func (f *OrderFacade) HealthCheck(ctx context.Context) error {
	return f.storage.HealthCheck(ctx)
}
