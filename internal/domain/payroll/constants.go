package payroll

import "time"

type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays lists the week in display order. Weeks always start on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf maps Go's Sunday=0..Saturday=6 numbering onto the labels.
func WeekdayOf(d time.Weekday) Weekday {
	switch d {
	case time.Sunday:
		return Sunday
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	default:
		return Saturday
	}
}

const (
	StatusPaid    = "paid"
	StatusPending = "pending"

	MinWeek = 1
	MaxWeek = 53

	DefaultPaymentConcurrency = 8
)
