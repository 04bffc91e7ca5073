package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"haulboard/internal/domain/payroll"
	"haulboard/internal/platform/money"
)

const xlsxSheet = "Payroll"

// XLSX writes a native workbook with the same layout as the CSV export.
// Amounts are stored as numbers with a currency format.
func XLSX(w io.Writer, report Report) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	currency := "$#,##0.00"
	paidStyle, _ := f.NewStyle(&excelize.Style{
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"E2F0D9"}, Pattern: 1},
		CustomNumFmt: &currency,
	})
	pendingStyle, _ := f.NewStyle(&excelize.Style{
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"FFF2CC"}, Pattern: 1},
		CustomNumFmt: &currency,
	})
	totalsStyle, _ := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Fill:         excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		CustomNumFmt: &currency,
	})
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &currency})

	columns := report.Columns()
	lastCol := len(columns)

	rowNum := 1
	setRow := func(values ...any) {
		for i, v := range values {
			_ = f.SetCellValue(xlsxSheet, cellName(i+1, rowNum), v)
		}
		rowNum++
	}

	setRow(report.Title())
	_ = f.SetCellStyle(xlsxSheet, "A1", "A1", titleStyle)
	setRow("Period", report.PeriodLabel())
	setRow("Location", report.LocationLabel())
	setRow("Generated", report.GeneratedAt.Format("2006-01-02 15:04"))
	rowNum++
	setRow("Summary")
	setRow("Operators", report.Stats.Total)
	setRow("Paid", report.Stats.Paid, money.Round2(report.Stats.PaidAmount))
	setRow("Pending", report.Stats.Unpaid, money.Round2(report.Stats.UnpaidAmount))
	setRow("Grand total", money.Round2(report.Totals.GrandTotal))
	_ = f.SetCellStyle(xlsxSheet, cellName(3, rowNum-3), cellName(3, rowNum-2), moneyStyle)
	_ = f.SetCellStyle(xlsxSheet, cellName(2, rowNum-1), cellName(2, rowNum-1), moneyStyle)
	rowNum++

	headerRow := rowNum
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	setRow(header...)
	_ = f.SetCellStyle(xlsxSheet, cellName(1, headerRow), cellName(lastCol, headerRow), headerStyle)

	if len(report.Rows) == 0 {
		setRow(labelNoData)
	}
	for _, row := range report.Rows {
		style := pendingStyle
		if row.Paid() {
			style = paidStyle
		}
		values := []any{row.Code, fullName(row), row.Role}
		for _, day := range payroll.Weekdays {
			values = append(values, money.Round2(row.Day(day)))
		}
		values = append(values,
			money.Round2(row.Total),
			money.Round2(row.AdditionalBonuses),
			money.Round2(row.GrandTotal),
			money.Round2(row.Expense),
			money.Round2(row.NetTotal),
			StatusLabel(row),
		)
		_ = f.SetCellStyle(xlsxSheet, cellName(1, rowNum), cellName(lastCol, rowNum), style)
		setRow(values...)
	}

	totals := []any{labelTotals, fmt.Sprintf("%d operators", report.Totals.Count), ""}
	for _, day := range payroll.Weekdays {
		totals = append(totals, money.Round2(report.Totals.Days[day]))
	}
	totals = append(totals,
		money.Round2(report.Totals.Total),
		money.Round2(report.Totals.Bonuses),
		money.Round2(report.Totals.GrandTotal),
		money.Round2(report.Totals.Expense),
		money.Round2(report.Totals.NetTotal),
	)
	_ = f.SetCellStyle(xlsxSheet, cellName(1, rowNum), cellName(lastCol, rowNum), totalsStyle)
	setRow(totals...)

	_ = f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
		ActivePane:  "bottomLeft",
	})
	_ = f.SetColWidth(xlsxSheet, "A", "A", 12)
	_ = f.SetColWidth(xlsxSheet, "B", "B", 26)
	_ = f.SetColWidth(xlsxSheet, "C", columnName(lastCol), 13)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func columnName(col int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return name
}
