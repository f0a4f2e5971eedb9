// Package transition decides whether an order milestone may change.
//
// Milestones form the chain requested → accepted → completed → paid → alert.
// A flag is frozen once its successor is true, and a flag other than
// requested or alert may only be set when its predecessor is true.
package transition

import (
	"fmt"

	domainErrors "github.com/polkiloo/orderstatus/internal/domain/errors"
	"github.com/polkiloo/orderstatus/internal/domain/model"
)

// Role identifies which order party may change a milestone.
type Role int

const (
	RoleAny Role = iota
	RoleRequester
	RoleCreator
)

func (r Role) String() string {
	switch r {
	case RoleRequester:
		return "requester"
	case RoleCreator:
		return "creator"
	default:
		return "any"
	}
}

type descriptor struct {
	state model.StateType
	role  Role
	// gated flags require their predecessor before being set true.
	gated bool
	set   func(*model.Order, bool)
}

// chain is ordered; predecessor and successor are table neighbours.
var chain = []descriptor{
	{state: model.StateRequested, role: RoleRequester, set: func(o *model.Order, v bool) { o.Requested = v }},
	{state: model.StateAccepted, role: RoleCreator, gated: true, set: func(o *model.Order, v bool) { o.Accepted = v }},
	{state: model.StateCompleted, role: RoleCreator, gated: true, set: func(o *model.Order, v bool) { o.Completed = v }},
	{state: model.StatePaid, role: RoleRequester, gated: true, set: func(o *model.Order, v bool) { o.Paid = v }},
	{state: model.StateAlert, role: RoleAny, set: func(o *model.Order, v bool) { o.Alert = v }},
}

func lookup(name string) (int, bool) {
	for i, d := range chain {
		if string(d.state) == name {
			return i, true
		}
	}
	return 0, false
}

// RoleOf returns the party allowed to change the milestone.
func RoleOf(st model.StateType) (Role, bool) {
	i, ok := lookup(string(st))
	if !ok {
		return RoleAny, false
	}
	return chain[i].role, true
}

// Attempt applies newValue to the named milestone of order on behalf of actor.
// Checks run in a fixed order: state type, later-stage lock, authorization,
// prerequisite. The input order is never modified.
func Attempt(order model.Order, actor string, stateType string, newValue bool) (model.Order, error) {
	i, ok := lookup(stateType)
	if !ok {
		return order, fmt.Errorf("%w: %q", domainErrors.ErrInvalidStateType, stateType)
	}
	d := chain[i]

	if i+1 < len(chain) && order.Flag(chain[i+1].state) {
		return order, fmt.Errorf("%w: cannot modify %s after %s", domainErrors.ErrStageLocked, d.state, chain[i+1].state)
	}

	if !authorized(order, actor, d.role) {
		return order, fmt.Errorf("%w: %s", domainErrors.ErrUnauthorized, d.state)
	}

	if newValue && d.gated && !order.Flag(chain[i-1].state) {
		return order, fmt.Errorf("%w: %s requires %s", domainErrors.ErrPrerequisiteNotMet, d.state, chain[i-1].state)
	}

	next := order
	d.set(&next, newValue)
	return next, nil
}

func authorized(order model.Order, actor string, role Role) bool {
	switch role {
	case RoleRequester:
		return actor == order.RequesterID
	case RoleCreator:
		return actor == order.CreatorID
	default:
		return true
	}
}
