package dto

import "time"

// CreateOrderRequest describes the order creation payload.
type CreateOrderRequest struct {
	OrderID     int64  `json:"order_id"`
	RequesterID string `json:"requester_id"`
	CreatedBy   string `json:"created_by"`
}

// UpdateOrderRequest sets one milestone. NewValue is a pointer so a missing field can be told apart from false.
type UpdateOrderRequest struct {
	StateType string `json:"state_type"`
	NewValue  *bool  `json:"new_value"`
}

type OrderResponse struct {
	OrderID     int64     `json:"order_id"`
	RequesterID string    `json:"requester_id"`
	CreatedBy   string    `json:"created_by"`
	Requested   bool      `json:"requested"`
	Accepted    bool      `json:"accepted"`
	Completed   bool      `json:"completed"`
	Paid        bool      `json:"paid"`
	Alert       bool      `json:"alert"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StatusResponse struct {
	OrderID   int64 `json:"order_id"`
	Requested bool  `json:"requested"`
	Accepted  bool  `json:"accepted"`
	Completed bool  `json:"completed"`
	Paid      bool  `json:"paid"`
	Alert     bool  `json:"alert"`
}

// OrderMessageResponse wraps an order together with a human readable message.
type OrderMessageResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
