package payroll

import (
	"strings"
	"time"

	"haulboard/internal/platform/money"
)

// RowSet keeps operator rows keyed by code in first-seen order.
type RowSet struct {
	order []string
	rows  map[string]*OperatorRow
}

func NewRowSet() *RowSet {
	return &RowSet{rows: map[string]*OperatorRow{}}
}

func (s *RowSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

func (s *RowSet) Get(code string) (*OperatorRow, bool) {
	if s == nil {
		return nil, false
	}
	row, ok := s.rows[code]
	return row, ok
}

func (s *RowSet) Codes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Rows returns copies of the rows in insertion order.
func (s *RowSet) Rows() []OperatorRow {
	if s == nil {
		return []OperatorRow{}
	}
	out := make([]OperatorRow, 0, len(s.order))
	for _, code := range s.order {
		out = append(out, cloneRow(*s.rows[code]))
	}
	return out
}

func (s *RowSet) seed(rec AssignmentRecord, code string) *OperatorRow {
	row := &OperatorRow{
		Code:          code,
		Name:          strings.TrimSpace(rec.FirstName),
		LastName:      strings.TrimSpace(rec.LastName),
		Role:          strings.TrimSpace(rec.Role),
		Cost:          money.Parse(float64(rec.Salary)),
		Days:          WeekAmounts{},
		AssignmentIDs: []string{},
		PaymentIDs:    []string{},
	}
	s.rows[code] = row
	s.order = append(s.order, code)
	return row
}

// Aggregate groups assignment records by operator code. Amounts for the
// same operator on the same weekday are summed. A record whose date cannot
// be parsed still counts toward total but fills no weekday slot.
func Aggregate(records []AssignmentRecord, loc *time.Location) *RowSet {
	if loc == nil {
		loc = time.Local
	}
	set := NewRowSet()
	for _, rec := range records {
		code := strings.TrimSpace(rec.Code)
		row, ok := set.rows[code]
		if !ok {
			row = set.seed(rec, code)
		}

		salary := money.Parse(float64(rec.Salary))
		bonus := money.Parse(float64(rec.Bonus))

		if day, ok := weekdayFromDate(rec.Date, loc); ok {
			row.Days[day] += salary
		}
		row.Total += salary
		row.AdditionalBonuses += bonus

		if id := rec.ID.String(); id != "" {
			row.AssignmentIDs = append(row.AssignmentIDs, id)
		}
		if pid := rec.PaymentID.String(); pid != "" && !contains(row.PaymentIDs, pid) {
			row.PaymentIDs = append(row.PaymentIDs, pid)
		}
		fillLocation(row, rec)
		row.Recompute()
	}
	return set
}

func fillLocation(row *OperatorRow, rec AssignmentRecord) {
	if row.Country == "" {
		row.Country = strings.TrimSpace(rec.Country)
	}
	if row.State == "" {
		row.State = strings.TrimSpace(rec.State)
	}
	if row.City == "" {
		row.City = strings.TrimSpace(rec.City)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate reads a backend date. Date-only values are calendar dates in
// loc; timestamps with an offset are converted into loc.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return parsed.In(loc), true
		}
	}
	return time.Time{}, false
}

func weekdayFromDate(value string, loc *time.Location) (Weekday, bool) {
	parsed, ok := ParseDate(value, loc)
	if !ok {
		return "", false
	}
	return WeekdayOf(parsed.Weekday()), true
}

// Totals is the column sum of a row set. Every renderer prints these values.
type Totals struct {
	Count      int                 `json:"count"`
	Days       map[Weekday]float64 `json:"days"`
	Total      float64             `json:"total"`
	Bonuses    float64             `json:"bonuses"`
	GrandTotal float64             `json:"grandTotal"`
	Expense    float64             `json:"expense"`
	NetTotal   float64             `json:"netTotal"`
}

func Summarize(rows []OperatorRow) Totals {
	totals := Totals{Count: len(rows), Days: map[Weekday]float64{}}
	for _, day := range Weekdays {
		totals.Days[day] = 0
	}
	for _, row := range rows {
		for _, day := range Weekdays {
			totals.Days[day] += money.Parse(row.Day(day))
		}
		totals.Total += money.Parse(row.Total)
		totals.Bonuses += money.Parse(row.AdditionalBonuses)
		totals.GrandTotal += money.Parse(row.GrandTotal)
		totals.Expense += money.Parse(row.Expense)
		totals.NetTotal += money.Parse(row.NetTotal)
	}
	return totals
}

func cloneRow(row OperatorRow) OperatorRow {
	out := row
	out.Days = make(WeekAmounts, len(row.Days))
	for k, v := range row.Days {
		out.Days[k] = v
	}
	out.AssignmentIDs = append([]string{}, row.AssignmentIDs...)
	out.PaymentIDs = append([]string{}, row.PaymentIDs...)
	return out
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}
