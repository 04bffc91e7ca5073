package payroll

import "time"

func ValidateQuery(q Query) error {
	if q.Week < MinWeek || q.Week > MaxWeek {
		return ErrInvalidWeek
	}
	if q.Year < 2000 || q.Year > 2100 {
		return ErrInvalidYear
	}
	return nil
}

// ISOWeekStart returns the Monday of ISO week `week` in `year`.
func ISOWeekStart(week, year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	weekOne := jan4.AddDate(0, 0, -offset)
	return weekOne.AddDate(0, 0, (week-1)*7)
}

// WeekDates maps each weekday label to its YYYY-MM-DD date. The backend's
// start_date wins when it parses; it is aligned back to its Monday.
func WeekDates(week, year int, info WeekInfo) map[Weekday]string {
	start := ISOWeekStart(week, year)
	if parsed, ok := ParseDate(info.StartDate, time.UTC); ok {
		day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		start = day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	}
	out := make(map[Weekday]string, len(Weekdays))
	for i, day := range Weekdays {
		out[day] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return out
}

// ResolveWeekInfo fills in a missing start or end date from the ISO week.
func ResolveWeekInfo(week, year int, info WeekInfo) WeekInfo {
	dates := WeekDates(week, year, info)
	if info.StartDate == "" {
		info.StartDate = dates[Monday]
	}
	if info.EndDate == "" {
		info.EndDate = dates[Sunday]
	}
	return info
}
