package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/orderstatus/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /orders/.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "malformed order payload")
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), req.OrderID, req.RequesterID, req.CreatedBy)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OrderMessageResponse{
		Message: "Order created successfully",
		Order:   toOrderResponse(*order),
	})
}

// Status handles GET /orders/:order_id/status.
func (h *OrderHandler) Status(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	status, err := h.facade.OrderStatus(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toStatusResponse(*status))
}

// Update handles PUT /orders/:order_id/update on behalf of the authenticated identity.
func (h *OrderHandler) Update(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewValue == nil {
		abortWithDetail(c, http.StatusBadRequest, "state_type and new_value are required")
		return
	}

	order, err := h.facade.UpdateOrderState(c.Request.Context(), orderID, CurrentIdentity(c), req.StateType, *req.NewValue)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderMessageResponse{
		Message: fmt.Sprintf("State %s updated", req.StateType),
		Order:   toOrderResponse(*order),
	})
}

// ListByRequester handles GET /orders/user/:user_id.
func (h *OrderHandler) ListByRequester(c *gin.Context) {
	orders, err := h.facade.OrdersByRequester(c.Request.Context(), c.Param("user_id"), c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListByCreator handles GET /orders/created_by/:created_by.
func (h *OrderHandler) ListByCreator(c *gin.Context) {
	orders, err := h.facade.OrdersByCreator(c.Request.Context(), c.Param("created_by"), c.Query("state"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}
