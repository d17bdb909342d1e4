package checkin

import "errors"

var (
	ErrNilState      = errors.New("checkin: state not configured")
	ErrUnauthorized  = errors.New("checkin: unauthorized")
	ErrPaused        = errors.New("checkin: module paused")
	ErrInvalidParams = errors.New("checkin: invalid params")
	ErrUnknownAction = errors.New("checkin: unknown action")
	ErrEmptyChoice   = errors.New("checkin: choice must not be empty")
)
