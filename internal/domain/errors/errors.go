package errors

import "errors"

var (
	ErrDuplicateOrder     = errors.New("order already exists")
	ErrNotFound           = errors.New("order not found")
	ErrInvalidOrder       = errors.New("invalid order")
	ErrInvalidStateType   = errors.New("invalid state type")
	ErrStageLocked        = errors.New("state locked by a later stage")
	ErrUnauthorized       = errors.New("not authorized to modify this state")
	ErrPrerequisiteNotMet = errors.New("previous stage is not completed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
