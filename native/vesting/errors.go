package vesting

import "errors"

var (
	ErrNilState         = errors.New("vesting: state not configured")
	ErrUnauthorized     = errors.New("vesting: unauthorized")
	ErrScheduleExists   = errors.New("vesting: schedule already exists")
	ErrScheduleNotFound = errors.New("vesting: schedule not found")
	ErrScheduleRevoked  = errors.New("vesting: schedule revoked")
	ErrNothingToRelease = errors.New("vesting: nothing to release")
	ErrInvalidSchedule  = errors.New("vesting: invalid schedule")
)
