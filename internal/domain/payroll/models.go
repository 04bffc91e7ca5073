package payroll

import (
	"haulboard/internal/platform/money"
	"haulboard/internal/platform/wire"
)

// RecordID is an identifier the backend sends as a number or a string.
type RecordID = wire.ID

// AssignmentRecord is one operator's work day as returned by the backend.
type AssignmentRecord struct {
	ID        RecordID     `json:"id_assign"`
	Date      string       `json:"date"`
	Code      string       `json:"code"`
	Salary    money.Amount `json:"salary"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Bonus     money.Amount `json:"bonus"`
	Role      string       `json:"role"`
	PaymentID RecordID     `json:"id_payment"`
	Country   string       `json:"country,omitempty"`
	State     string       `json:"state,omitempty"`
	City      string       `json:"city,omitempty"`
}

type WeekInfo struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Pagination struct {
	Count    int `json:"count"`
	PageSize int `json:"page_size"`
}

// WeekAmounts maps a weekday label to the amount earned that day. A missing
// key means nothing was earned.
type WeekAmounts map[Weekday]float64

// OperatorRow is the weekly aggregate for one operator. Code is unique within
// a week's result set.
type OperatorRow struct {
	Code              string      `json:"code"`
	Name              string      `json:"name"`
	LastName          string      `json:"lastName"`
	Role              string      `json:"role"`
	Cost              float64     `json:"cost"`
	Days              WeekAmounts `json:"days"`
	Total             float64     `json:"total"`
	AdditionalBonuses float64     `json:"additionalBonuses"`
	GrandTotal        float64     `json:"grandTotal"`
	Expense           float64     `json:"expense"`
	NetTotal          float64     `json:"netTotal"`
	AssignmentIDs     []string    `json:"assignmentIds"`
	PaymentIDs        []string    `json:"paymentIds"`
	Country           string      `json:"country,omitempty"`
	State             string      `json:"state,omitempty"`
	City              string      `json:"city,omitempty"`
}

// Paid reports whether any assignment of the row is linked to a payment.
func (r OperatorRow) Paid() bool {
	return len(r.PaymentIDs) > 0
}

// Day returns the amount for a weekday, 0 when absent.
func (r OperatorRow) Day(day Weekday) float64 {
	if r.Days == nil {
		return 0
	}
	return r.Days[day]
}

// Recompute restores grandTotal = total + additionalBonuses and
// netTotal = grandTotal - expense.
func (r *OperatorRow) Recompute() {
	r.GrandTotal = r.Total + r.AdditionalBonuses
	r.NetTotal = r.GrandTotal - r.Expense
}

type PaymentStats struct {
	Paid         int     `json:"paid"`
	Unpaid       int     `json:"unpaid"`
	Total        int     `json:"total"`
	PaidAmount   float64 `json:"paidAmount"`
	UnpaidAmount float64 `json:"unpaidAmount"`
}

// Location is the country/state/city selection of the filter layer.
type Location struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

type LocationOptions struct {
	Countries []string `json:"countries"`
	States    []string `json:"states"`
	Cities    []string `json:"cities"`
}

// Payment is the backend payment detail.
type Payment struct {
	ID          RecordID     `json:"id_pay"`
	Value       money.Amount `json:"value"`
	DatePayment string       `json:"date_payment"`
	Bonus       money.Amount `json:"bonus"`
	Status      string       `json:"status"`
	DateStart   string       `json:"date_start"`
	DateEnd     string       `json:"date_end"`
	Expense     money.Amount `json:"expense"`
}

type CreatePaymentRequest struct {
	AssignIDs []int64 `json:"id_assigns" validate:"required,min=1,dive,gt=0"`
	Value     float64 `json:"value" validate:"gte=0"`
	Bonus     float64 `json:"bonus" validate:"gte=0"`
	Status    string  `json:"status" validate:"required,oneof=paid pending"`
	DateStart string  `json:"date_start" validate:"required,datetime=2006-01-02"`
	DateEnd   string  `json:"date_end" validate:"required,datetime=2006-01-02"`
}

type CancelPaymentsRequest struct {
	AssignIDs []int64 `json:"assign_ids" validate:"required,min=1,dive,gt=0"`
}

// Query selects one page of a week's assignments.
type Query struct {
	Week     int
	Year     int
	Location string
	Page     int
}

// AssignmentPage is one fetched page with its week metadata.
type AssignmentPage struct {
	Records    []AssignmentRecord
	WeekInfo   WeekInfo
	Pagination Pagination
}

// Board is the enriched result of one fetch/aggregate cycle.
type Board struct {
	Week       int                `json:"week"`
	Year       int                `json:"year"`
	Location   string             `json:"location,omitempty"`
	WeekInfo   WeekInfo           `json:"weekInfo"`
	WeekDates  map[Weekday]string `json:"weekDates"`
	Rows       []OperatorRow      `json:"rows"`
	Stats      PaymentStats       `json:"stats"`
	TotalGrand float64            `json:"totalGrand"`
	Pagination Pagination         `json:"pagination"`
}
