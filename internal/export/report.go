// Package export renders a payroll week or a financial breakdown into
// downloadable files. All payroll renderers read their figures from the same
// Report, so the totals they print are identical.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"haulboard/internal/domain/payroll"
	"haulboard/internal/platform/money"
)

const (
	FormatCSV  = "csv"
	FormatXLS  = "xls"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatHTML = "html"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	labelPaid    = "Paid"
	labelPending = "Pending"
	labelTotals  = "TOTALS"
	labelNoData  = "No data"
)

// Report is the shared input of every payroll renderer.
type Report struct {
	Week        int
	Year        int
	Location    string
	WeekInfo    payroll.WeekInfo
	WeekDates   map[payroll.Weekday]string
	Rows        []payroll.OperatorRow
	Stats       payroll.PaymentStats
	Totals      payroll.Totals
	GeneratedAt time.Time
}

// NewReport derives stats and totals from the board rows. Board-level totals
// are ignored so a stale or filtered board can not disagree with its rows.
func NewReport(board payroll.Board, generatedAt time.Time) Report {
	rows := board.Rows
	if rows == nil {
		rows = []payroll.OperatorRow{}
	}
	dates := board.WeekDates
	if len(dates) == 0 {
		dates = payroll.WeekDates(board.Week, board.Year, board.WeekInfo)
	}
	return Report{
		Week:        board.Week,
		Year:        board.Year,
		Location:    board.Location,
		WeekInfo:    payroll.ResolveWeekInfo(board.Week, board.Year, board.WeekInfo),
		WeekDates:   dates,
		Rows:        rows,
		Stats:       payroll.Stats(rows),
		Totals:      payroll.Summarize(rows),
		GeneratedAt: generatedAt,
	}
}

func (r Report) LocationLabel() string {
	if loc := strings.TrimSpace(r.Location); loc != "" {
		return loc
	}
	return "All locations"
}

func (r Report) PeriodLabel() string {
	return r.WeekInfo.StartDate + " to " + r.WeekInfo.EndDate
}

func (r Report) Title() string {
	return fmt.Sprintf("Payroll Report - Week %d, %d", r.Week, r.Year)
}

// Columns is the table header shared by the text renderers.
func (r Report) Columns() []string {
	cols := []string{"Code", "Name", "Role"}
	for _, day := range payroll.Weekdays {
		cols = append(cols, dayHeader(day, r.WeekDates[day]))
	}
	return append(cols, "Total", "Bonuses", "Grand Total", "Expenses", "Net Total", "Status")
}

func dayHeader(day payroll.Weekday, date string) string {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return string(day) + " " + t.Format("01/02")
	}
	return string(day)
}

// Cells formats one operator row in column order.
func Cells(row payroll.OperatorRow) []string {
	cells := []string{row.Code, fullName(row), row.Role}
	for _, day := range payroll.Weekdays {
		cells = append(cells, money.FormatUSD(row.Day(day)))
	}
	return append(cells,
		money.FormatUSD(row.Total),
		money.FormatUSD(row.AdditionalBonuses),
		money.FormatUSD(row.GrandTotal),
		money.FormatUSD(row.Expense),
		money.FormatUSD(row.NetTotal),
		StatusLabel(row),
	)
}

// TotalCells formats the trailing totals row in column order.
func (r Report) TotalCells() []string {
	cells := []string{labelTotals, fmt.Sprintf("%d operators", r.Totals.Count), ""}
	for _, day := range payroll.Weekdays {
		cells = append(cells, money.FormatUSD(r.Totals.Days[day]))
	}
	return append(cells,
		money.FormatUSD(r.Totals.Total),
		money.FormatUSD(r.Totals.Bonuses),
		money.FormatUSD(r.Totals.GrandTotal),
		money.FormatUSD(r.Totals.Expense),
		money.FormatUSD(r.Totals.NetTotal),
		"",
	)
}

func StatusLabel(row payroll.OperatorRow) string {
	if row.Paid() {
		return labelPaid
	}
	return labelPending
}

func fullName(row payroll.OperatorRow) string {
	return strings.TrimSpace(row.Name + " " + row.LastName)
}

// FileName builds payroll_week_{week}_{YYYY-MM-DD}.{ext}.
func FileName(week int, ext string, date time.Time) string {
	return fmt.Sprintf("payroll_week_%d_%s.%s", week, date.Format("2006-01-02"), strings.TrimPrefix(ext, "."))
}

func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLS:
		return "application/vnd.ms-excel"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Render writes the report in the requested payroll format.
func Render(w io.Writer, format string, report Report, opts PDFOptions) error {
	switch format {
	case FormatCSV:
		return CSV(w, report)
	case FormatXLS:
		return Spreadsheet(w, report)
	case FormatPDF:
		return PDF(w, report, opts)
	case FormatXLSX:
		return XLSX(w, report)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
