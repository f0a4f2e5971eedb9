package model

import "time"

// StateType names one of the five order milestones.
type StateType string

const (
	StateRequested StateType = "requested"
	StateAccepted  StateType = "accepted"
	StateCompleted StateType = "completed"
	StatePaid      StateType = "paid"
	StateAlert     StateType = "alert"
)

// StateTypes lists milestones in chain order.
var StateTypes = []StateType{StateRequested, StateAccepted, StateCompleted, StatePaid, StateAlert}

// ParseStateType resolves a milestone by name.
func ParseStateType(name string) (StateType, bool) {
	for _, st := range StateTypes {
		if string(st) == name {
			return st, true
		}
	}
	return "", false
}

// Order describes an order tracked through its milestones.
type Order struct {
	OrderID     int64
	RequesterID string
	CreatorID   string
	Requested   bool
	Accepted    bool
	Completed   bool
	Paid        bool
	Alert       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Status is the milestone projection of an order.
type Status struct {
	OrderID   int64
	Requested bool
	Accepted  bool
	Completed bool
	Paid      bool
	Alert     bool
}

// Status returns milestone flags of the order.
func (o Order) Status() Status {
	return Status{
		OrderID:   o.OrderID,
		Requested: o.Requested,
		Accepted:  o.Accepted,
		Completed: o.Completed,
		Paid:      o.Paid,
		Alert:     o.Alert,
	}
}

// Flag reports the value of the named milestone.
func (o Order) Flag(st StateType) bool {
	switch st {
	case StateRequested:
		return o.Requested
	case StateAccepted:
		return o.Accepted
	case StateCompleted:
		return o.Completed
	case StatePaid:
		return o.Paid
	case StateAlert:
		return o.Alert
	}
	return false
}

// ListFilter narrows order listings. Empty State means no flag filtering.
type ListFilter struct {
	State StateType
}
