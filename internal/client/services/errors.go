package services

import "errors"

// Validation errors. They are returned before anything is written.
var (
	ErrEmptyTitle           = errors.New("title must not be empty")
	ErrMissingTime          = errors.New("scheduled time is required")
	ErrInvalidTime          = errors.New("scheduled time must be HH:MM")
	ErrTimeSlotTaken        = errors.New("another task is already scheduled at this time")
	ErrPastTime             = errors.New("scheduled time is in the past")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrTaskDone             = errors.New("task is already done")

	ErrOffline             = errors.New("not available offline")
	ErrLocationUnavailable = errors.New("location unavailable")
)
