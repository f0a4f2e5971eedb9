package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderstatus/internal/domain/errors"
	"github.com/polkiloo/orderstatus/internal/domain/model"
	"github.com/polkiloo/orderstatus/internal/server/http/dto"
	"github.com/polkiloo/orderstatus/internal/server/http/middleware"
)

// CurrentIdentity extracts the authenticated acting identity from context.
func CurrentIdentity(c *gin.Context) string {
	return c.GetString(middleware.IdentityContextKey)
}

func orderIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, "order_id must be an integer")
		return 0, false
	}
	return id, true
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Detail: detail})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		abortWithDetail(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, domainErrors.ErrDuplicateOrder):
		abortWithDetail(c, http.StatusConflict, "Order already exists")
	case errors.Is(err, domainErrors.ErrInvalidOrder),
		errors.Is(err, domainErrors.ErrInvalidStateType),
		errors.Is(err, domainErrors.ErrStageLocked),
		errors.Is(err, domainErrors.ErrPrerequisiteNotMet):
		abortWithDetail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domainErrors.ErrUnauthorized):
		abortWithDetail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domainErrors.ErrStorageUnavailable):
		abortWithDetail(c, http.StatusServiceUnavailable, "storage unavailable")
	default:
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderID:     order.OrderID,
		RequesterID: order.RequesterID,
		CreatedBy:   order.CreatorID,
		Requested:   order.Requested,
		Accepted:    order.Accepted,
		Completed:   order.Completed,
		Paid:        order.Paid,
		Alert:       order.Alert,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	return response
}

func toStatusResponse(status model.Status) dto.StatusResponse {
	return dto.StatusResponse{
		OrderID:   status.OrderID,
		Requested: status.Requested,
		Accepted:  status.Accepted,
		Completed: status.Completed,
		Paid:      status.Paid,
		Alert:     status.Alert,
	}
}
