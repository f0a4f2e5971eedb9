package handlers

import (
	"context"

	"github.com/polkiloo/orderstatus/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, orderID int64, requesterID, creatorID string) (*model.Order, error)
	OrderStatus(ctx context.Context, orderID int64) (*model.Status, error)
	UpdateOrderState(ctx context.Context, orderID int64, actor, stateType string, newValue bool) (*model.Order, error)
	OrdersByRequester(ctx context.Context, requesterID, state string) ([]model.Order, error)
	OrdersByCreator(ctx context.Context, creatorID, state string) ([]model.Order, error)
}

// HealthFacade reports whether backing storage is reachable.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// TokenFacade resolves bearer tokens into acting identities.
type TokenFacade interface {
	ParseToken(token string) (string, error)
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	OrderFacade
	HealthFacade
	TokenFacade
}
