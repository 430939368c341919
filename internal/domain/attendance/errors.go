package attendance

import "errors"

var (
	ErrRecordNotFound    = errors.New("attendance record not found")
	ErrInvalidMonth      = errors.New("invalid month, use YYYY-MM")
	ErrInvalidTimeFormat = errors.New("invalid attendance timestamp format")
)
