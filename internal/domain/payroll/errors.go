package payroll

import "errors"

var (
	ErrInvalidWeek = errors.New("week number must be between 1 and 53")
	ErrInvalidYear = errors.New("year must be between 2000 and 2100")
	ErrStaleCycle  = errors.New("load superseded by a newer request")
)
