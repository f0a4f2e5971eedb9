package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/orderstatus/internal/domain/errors"
	"github.com/polkiloo/orderstatus/internal/domain/model"
	"github.com/polkiloo/orderstatus/internal/domain/repository"
	"github.com/polkiloo/orderstatus/internal/domain/transition"
)

// Metrics receives order lifecycle observations.
type Metrics interface {
	ObserveTransition(stateType, outcome string)
	ObserveCreated()
}

// Transition outcomes reported to Metrics.
const (
	OutcomeOK             = "ok"
	OutcomeNotFound       = "not_found"
	OutcomeInvalidState   = "invalid_state_type"
	OutcomeStageLocked    = "stage_locked"
	OutcomeUnauthorized   = "unauthorized"
	OutcomePrerequisite   = "prerequisite_not_met"
	OutcomeStorageFailure = "storage_unavailable"
	unknownStateTypeLabel = "unknown"
)

// OrderUseCase composes the order store with the transition engine.
type OrderUseCase struct {
	orders  repository.OrderRepository
	metrics Metrics
	logger  *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, metrics Metrics, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{orders: orders, metrics: metrics, logger: logger}
}

// Create registers a new order with every milestone cleared.
func (u *OrderUseCase) Create(ctx context.Context, orderID int64, requesterID, creatorID string) (*model.Order, error) {
	requesterID = strings.TrimSpace(requesterID)
	creatorID = strings.TrimSpace(creatorID)

	switch {
	case orderID <= 0:
		return nil, fmt.Errorf("%w: order id must be positive", domainErrors.ErrInvalidOrder)
	case requesterID == "":
		return nil, fmt.Errorf("%w: requester id is required", domainErrors.ErrInvalidOrder)
	case creatorID == "":
		return nil, fmt.Errorf("%w: creator id is required", domainErrors.ErrInvalidOrder)
	}

	order, err := u.orders.Create(ctx, model.Order{OrderID: orderID, RequesterID: requesterID, CreatorID: creatorID})
	if err != nil {
		return nil, err
	}

	u.metrics.ObserveCreated()
	u.logger.Info("order created",
		slog.Int64("order_id", order.OrderID),
		slog.String("requester_id", order.RequesterID),
		slog.String("created_by", order.CreatorID),
	)
	return order, nil
}

// Status returns the milestone projection of an order.
func (u *OrderUseCase) Status(ctx context.Context, orderID int64) (*model.Status, error) {
	order, err := u.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	status := order.Status()
	return &status, nil
}

// Update sets one milestone on behalf of actor. The order row stays locked
// from read to write, so the rules are checked against the latest flags.
func (u *OrderUseCase) Update(ctx context.Context, orderID int64, actor, stateType string, newValue bool) (*model.Order, error) {
	order, err := u.orders.Mutate(ctx, orderID, func(current model.Order) (model.Order, error) {
		return transition.Attempt(current, actor, stateType, newValue)
	})

	outcome := outcomeOf(err)
	u.metrics.ObserveTransition(stateLabel(stateType), outcome)

	attrs := []any{
		slog.Int64("order_id", orderID),
		slog.String("actor", actor),
		slog.String("state_type", stateType),
		slog.Bool("new_value", newValue),
	}
	if role, ok := transition.RoleOf(model.StateType(stateType)); ok {
		attrs = append(attrs, slog.String("required_role", role.String()))
	}
	if err != nil {
		if outcome == OutcomeStorageFailure {
			u.logger.Error("state update failed", append(attrs, slog.Any("error", err))...)
		} else {
			u.logger.Debug("state update rejected", append(attrs, slog.String("outcome", outcome))...)
		}
		return nil, err
	}

	u.logger.Info("state updated", attrs...)
	return order, nil
}

// ListByRequester returns orders placed by requesterID, optionally only those with stateFilter set.
func (u *OrderUseCase) ListByRequester(ctx context.Context, requesterID, stateFilter string) ([]model.Order, error) {
	filter, err := parseFilter(stateFilter)
	if err != nil {
		return nil, err
	}
	return u.orders.ListByRequester(ctx, requesterID, filter)
}

// ListByCreator returns orders managed by creatorID, optionally only those with stateFilter set.
func (u *OrderUseCase) ListByCreator(ctx context.Context, creatorID, stateFilter string) ([]model.Order, error) {
	filter, err := parseFilter(stateFilter)
	if err != nil {
		return nil, err
	}
	return u.orders.ListByCreator(ctx, creatorID, filter)
}

func parseFilter(raw string) (model.ListFilter, error) {
	if raw == "" {
		return model.ListFilter{}, nil
	}
	st, ok := model.ParseStateType(raw)
	if !ok {
		return model.ListFilter{}, fmt.Errorf("%w: %q", domainErrors.ErrInvalidStateType, raw)
	}
	return model.ListFilter{State: st}, nil
}

// stateLabel keeps metric cardinality bounded to the known state names.
func stateLabel(stateType string) string {
	if st, ok := model.ParseStateType(stateType); ok {
		return string(st)
	}
	return unknownStateTypeLabel
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domainErrors.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, domainErrors.ErrInvalidStateType):
		return OutcomeInvalidState
	case errors.Is(err, domainErrors.ErrStageLocked):
		return OutcomeStageLocked
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return OutcomeUnauthorized
	case errors.Is(err, domainErrors.ErrPrerequisiteNotMet):
		return OutcomePrerequisite
	default:
		return OutcomeStorageFailure
	}
}
