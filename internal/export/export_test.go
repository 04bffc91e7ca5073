package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"haulboard/internal/domain/financials"
	"haulboard/internal/domain/payroll"
	"haulboard/internal/platform/money"
)

var generatedAt = time.Date(2024, 2, 20, 9, 30, 0, 0, time.UTC)

func operator(code string, mon, tue, bonus, expense float64, paymentIDs ...string) payroll.OperatorRow {
	row := payroll.OperatorRow{
		Code:              code,
		Name:              "Op",
		LastName:          code,
		Role:              "driver",
		Days:              payroll.WeekAmounts{payroll.Monday: mon, payroll.Tuesday: tue},
		Total:             mon + tue,
		AdditionalBonuses: bonus,
		Expense:           expense,
		PaymentIDs:        paymentIDs,
	}
	row.Recompute()
	return row
}

func sampleBoard() payroll.Board {
	return payroll.Board{
		Week:     7,
		Year:     2024,
		WeekInfo: payroll.WeekInfo{StartDate: "2024-02-12", EndDate: "2024-02-18"},
		Rows: []payroll.OperatorRow{
			operator("A1", 100.10, 200.20, 10.05, 0),
			operator("B2", 150.333, 0, 0, 25, "P1"),
			operator("C3", 999.99, 0.01, 0.5, 12.5, "P2"),
		},
		// Board totals are stale on purpose; the report recomputes them.
		TotalGrand: 1,
	}
}

func manyRows(n int) []payroll.OperatorRow {
	rows := make([]payroll.OperatorRow, n)
	for i := range rows {
		rows[i] = operator(fmt.Sprintf("OP%03d", i), 10, 0, 0, 0)
	}
	return rows
}

func TestNewReportDerivesTotalsFromRows(t *testing.T) {
	report := NewReport(sampleBoard(), generatedAt)
	assert.Equal(t, 3, report.Totals.Count)
	assert.InDelta(t, 310.35+150.333+1000.5, report.Totals.GrandTotal, 1e-9)
	assert.Equal(t, 2, report.Stats.Paid)
	assert.Equal(t, 1, report.Stats.Unpaid)
	assert.Equal(t, "2024-02-12", report.WeekDates[payroll.Monday])
	assert.Equal(t, "Mon 02/12", report.Columns()[3])
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "payroll_week_7_2024-02-20.csv", FileName(7, "csv", generatedAt))
	assert.Equal(t, "payroll_week_12_2024-02-20.pdf", FileName(12, ".pdf", generatedAt))
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, NewReport(sampleBoard(), generatedAt)))
	records := readCSV(t, buf.Bytes())

	assert.Equal(t, "Payroll Report - Week 7, 2024", records[0][0])
	assert.Equal(t, []string{"Period", "2024-02-12 to 2024-02-18"}, records[1])

	var header, last []string
	for _, rec := range records {
		if rec[0] == "Code" {
			header = rec
		}
	}
	last = records[len(records)-1]
	require.NotNil(t, header)
	assert.Len(t, header, 16)
	assert.Equal(t, "TOTALS", last[0])
	assert.Len(t, last, len(header))

	b2 := records[len(records)-3]
	assert.Equal(t, "B2", b2[0])
	assert.Equal(t, "$150.33", b2[3])
	assert.Equal(t, "$0.00", b2[4], "missing weekday renders as zero")
	assert.Equal(t, "Paid", b2[15])
}

func TestCSVEmptyWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, NewReport(payroll.Board{Week: 3, Year: 2024}, generatedAt)))
	records := readCSV(t, buf.Bytes())
	assert.Equal(t, "No data", records[len(records)-2][0])
	assert.Equal(t, "$0.00", records[len(records)-1][12])
}

func TestSpreadsheetColoursRowsByStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spreadsheet(&buf, NewReport(sampleBoard(), generatedAt)))
	html := buf.String()

	assert.Contains(t, html, `<tr class="pending"><td>A1</td>`)
	assert.Contains(t, html, `<tr class="paid"><td>B2</td>`)
	assert.Contains(t, html, `<tr class="totals"><td>TOTALS</td>`)
	assert.NotContains(t, html, "No data")
}

func TestSpreadsheetEmptyWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Spreadsheet(&buf, NewReport(payroll.Board{Week: 3, Year: 2024}, generatedAt)))
	assert.Contains(t, buf.String(), "No data")
}

func TestPaginate(t *testing.T) {
	assert.Equal(t, []Page{{}}, Paginate(0))
	assert.Equal(t, []Page{{0, 35}}, Paginate(35))
	assert.Equal(t, []Page{{0, 35}, {35, 36}}, Paginate(36))
	assert.Equal(t, []Page{{0, 35}, {35, 80}, {80, 81}}, Paginate(81))
}

func TestPDFPagesHeaderAndFooter(t *testing.T) {
	board := sampleBoard()
	board.Rows = manyRows(81)
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, NewReport(board, generatedAt), PDFOptions{}))
	out := buf.Bytes()

	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	for n := 1; n <= 3; n++ {
		assert.Contains(t, string(out), fmt.Sprintf("(Page %d of 3)", n))
	}
	assert.NotContains(t, string(out), "(Page 4 of 3)")
	assert.Equal(t, 3, bytes.Count(out, []byte("(Code)")), "column header on every page")
	assert.Equal(t, 1, bytes.Count(out, []byte("(TOTALS)")), "totals on last page only")
}

func TestPDFEmptyWeek(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, NewReport(payroll.Board{Week: 3, Year: 2024}, generatedAt), PDFOptions{}))
	assert.Contains(t, buf.String(), "(No data)")
	assert.Contains(t, buf.String(), "(Page 1 of 1)")
}

func TestXLSXLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, NewReport(sampleBoard(), generatedAt)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "Payroll Report - Week 7, 2024", rows[0][0])
	last := rows[len(rows)-1]
	assert.Equal(t, "TOTALS", last[0])
}

// Every renderer prints the same grand total for the same input.
func TestRenderersAgreeOnGrandTotal(t *testing.T) {
	report := NewReport(sampleBoard(), generatedAt)
	want := money.FormatUSD(report.Totals.GrandTotal)
	grandCol := 12

	var csvBuf bytes.Buffer
	require.NoError(t, CSV(&csvBuf, report))
	records := readCSV(t, csvBuf.Bytes())
	assert.Equal(t, want, records[len(records)-1][grandCol])

	var xlsBuf bytes.Buffer
	require.NoError(t, Spreadsheet(&xlsBuf, report))
	totalsRow := xlsBuf.String()[strings.Index(xlsBuf.String(), `class="totals"`):]
	cells := strings.Split(totalsRow, "<td>")
	require.Greater(t, len(cells), grandCol+1)
	assert.True(t, strings.HasPrefix(cells[grandCol+1], want+"</td>"))

	var pdfBuf bytes.Buffer
	require.NoError(t, PDF(&pdfBuf, report, PDFOptions{}))
	assert.Contains(t, pdfBuf.String(), "("+want+")")

	var xlsxBuf bytes.Buffer
	require.NoError(t, XLSX(&xlsxBuf, report))
	f, err := excelize.OpenReader(&xlsxBuf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(xlsxSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	raw, err := strconv.ParseFloat(rows[len(rows)-1][grandCol], 64)
	require.NoError(t, err)
	assert.Equal(t, want, money.FormatUSD(raw))
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, "docx", NewReport(sampleBoard(), generatedAt), PDFOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFinancialRenderers(t *testing.T) {
	b := financials.Compute(
		financials.Period{StartDate: "2024-01-01", EndDate: "2024-01-31"},
		financials.Summary{Income: 10000, FuelCost: 1200},
		[]financials.Cost{{Description: "Tolls", Amount: 150}},
		[]financials.Discount{{Description: "Rebate", Amount: 50}},
	)

	var csvBuf bytes.Buffer
	require.NoError(t, FinancialCSV(&csvBuf, b))
	records := readCSV(t, csvBuf.Bytes())
	assert.Equal(t, []string{"Total", "Profit", "$8,700.00"}, records[len(records)-1])

	var htmlBuf bytes.Buffer
	require.NoError(t, FinancialHTML(&htmlBuf, b, generatedAt))
	assert.Contains(t, htmlBuf.String(), "Profit: $8,700.00")
	assert.Contains(t, htmlBuf.String(), "<td>Tolls</td>")

	assert.Equal(t, "financial_breakdown_2024-01-01_2024-01-31.csv", FinancialFileName(b.Period, "csv"))
}
