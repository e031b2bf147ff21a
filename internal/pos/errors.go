package pos

import "errors"

var (
	ErrNothingToComplete  = errors.New("nothing to complete")
	ErrInvalidLine        = errors.New("invalid order line")
	ErrInvalidZone        = errors.New("invalid zone")
	ErrTableZoneMismatch  = errors.New("table belongs to another zone")
	ErrPersistenceFailure = errors.New("order persistence failed")
	ErrUnknownUser        = errors.New("unknown user")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSessionNotFound    = errors.New("session not found")
)
