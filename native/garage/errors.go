package garage

import "errors"

var (
	ErrNilState      = errors.New("garage: state not configured")
	ErrUnauthorized  = errors.New("garage: unauthorized")
	ErrPaused        = errors.New("garage: module paused")
	ErrInvalidParams = errors.New("garage: invalid params")
	ErrUnknownAction = errors.New("garage: unknown action")
)
