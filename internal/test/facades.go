package test

import (
	"context"

	"github.com/polkiloo/orderstatus/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	CreateFn            func(context.Context, int64, string, string) (*model.Order, error)
	StatusFn            func(context.Context, int64) (*model.Status, error)
	UpdateFn            func(context.Context, int64, string, string, bool) (*model.Order, error)
	OrdersByRequesterFn func(context.Context, string, string) ([]model.Order, error)
	OrdersByCreatorFn   func(context.Context, string, string) ([]model.Order, error)
}

// CreateOrder delegates to provided function or echoes a fresh order.
func (s OrderFacadeStub) CreateOrder(ctx context.Context, orderID int64, requesterID, creatorID string) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, orderID, requesterID, creatorID)
	}
	return &model.Order{OrderID: orderID, RequesterID: requesterID, CreatorID: creatorID}, nil
}

// OrderStatus returns an all-false projection by default.
func (s OrderFacadeStub) OrderStatus(ctx context.Context, orderID int64) (*model.Status, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	return &model.Status{OrderID: orderID}, nil
}

func (s OrderFacadeStub) UpdateOrderState(ctx context.Context, orderID int64, actor, stateType string, newValue bool) (*model.Order, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, orderID, actor, stateType, newValue)
	}
	return &model.Order{OrderID: orderID}, nil
}

func (s OrderFacadeStub) OrdersByRequester(ctx context.Context, requesterID, state string) ([]model.Order, error) {
	if s.OrdersByRequesterFn != nil {
		return s.OrdersByRequesterFn(ctx, requesterID, state)
	}
	return []model.Order{{OrderID: 1, RequesterID: requesterID}}, nil
}

func (s OrderFacadeStub) OrdersByCreator(ctx context.Context, creatorID, state string) ([]model.Order, error) {
	if s.OrdersByCreatorFn != nil {
		return s.OrdersByCreatorFn(ctx, creatorID, state)
	}
	return []model.Order{{OrderID: 1, CreatorID: creatorID}}, nil
}

// HealthFacadeStub reports storage health.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// FacadeStub aggregates facade dependencies for HTTP layer tests.
type FacadeStub struct {
	OrderFacadeStub
	HealthFacadeStub
	TokenParserStub
}
