package shift

import "errors"

var (
	ErrShiftNotFound     = errors.New("shift not found")
	ErrShiftNameExists   = errors.New("shift with this name already exists")
	ErrInvalidTimeFormat = errors.New("invalid shift time format, expected HH:MM")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidRequestData = errors.New("invalid request data")
)
