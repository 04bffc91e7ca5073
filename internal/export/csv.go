package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"haulboard/internal/platform/money"
)

// CSV writes the header block, the summary block, one line per operator and
// a trailing totals line.
func CSV(w io.Writer, report Report) error {
	writer := csv.NewWriter(w)
	blocks := [][]string{
		{report.Title()},
		{"Period", report.PeriodLabel()},
		{"Location", report.LocationLabel()},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04")},
		{},
		{"Summary"},
		{"Operators", strconv.Itoa(report.Stats.Total)},
		{"Paid", strconv.Itoa(report.Stats.Paid), money.FormatUSD(report.Stats.PaidAmount)},
		{"Pending", strconv.Itoa(report.Stats.Unpaid), money.FormatUSD(report.Stats.UnpaidAmount)},
		{"Grand total", money.FormatUSD(report.Totals.GrandTotal)},
		{},
		report.Columns(),
	}
	for _, record := range blocks {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	if len(report.Rows) == 0 {
		if err := writer.Write([]string{labelNoData}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, row := range report.Rows {
		if err := writer.Write(Cells(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	if err := writer.Write(report.TotalCells()); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
