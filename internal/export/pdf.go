package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"haulboard/internal/platform/money"
)

const (
	FirstPageRows = 35
	NextPageRows  = 45

	pdfRowHeight    = 3.8
	pdfHeaderHeight = 6
)

var pdfColumnWidths = []float64{16, 34, 18, 15, 15, 15, 15, 15, 15, 15, 16, 16, 16, 16, 16, 14}

type PDFOptions struct {
	Compress bool
}

// Page is the half-open row range [Start, End) printed on one page.
type Page struct {
	Start int
	End   int
}

// Paginate splits n rows into pages of FirstPageRows, then NextPageRows.
// An empty report still gets one page.
func Paginate(n int) []Page {
	if n <= 0 {
		return []Page{{}}
	}
	pages := []Page{{Start: 0, End: min(n, FirstPageRows)}}
	for start := FirstPageRows; start < n; start += NextPageRows {
		pages = append(pages, Page{Start: start, End: min(n, start+NextPageRows)})
	}
	return pages
}

// PDF writes a landscape A4 report. The column header repeats on every page,
// the totals row is printed on the last page only and every page carries a
// "Page N of M" footer.
func PDF(w io.Writer, report Report, opts PDFOptions) error {
	pages := Paginate(len(report.Rows))

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(opts.Compress)
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(report.Title(), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d of %d", pdf.PageNo(), len(pages)), "", 0, "C", false, 0, "")
	})

	columns := report.Columns()
	for i, page := range pages {
		pdf.AddPage()
		if i == 0 {
			pdfSummary(pdf, report, tr)
		}
		pdfTableHeader(pdf, columns)

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(0, 0, 0)
		if len(report.Rows) == 0 {
			pdf.CellFormat(sumWidths(), pdfRowHeight, labelNoData, "1", 1, "C", false, 0, "")
		}
		for _, row := range report.Rows[page.Start:page.End] {
			if row.Paid() {
				pdf.SetFillColor(226, 240, 217)
			} else {
				pdf.SetFillColor(255, 242, 204)
			}
			pdfCells(pdf, Cells(row), tr)
		}
		if i == len(pages)-1 {
			pdf.SetFont("Helvetica", "B", 7)
			pdf.SetFillColor(217, 217, 217)
			pdfCells(pdf, report.TotalCells(), tr)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func pdfSummary(pdf *gofpdf.Fpdf, report Report, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr(report.Title()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr("Period: "+report.PeriodLabel()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Location: "+report.LocationLabel()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Generated: "+report.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	stats := report.Stats
	pdf.CellFormat(0, 5, fmt.Sprintf("Operators: %d    Paid: %d (%s)    Pending: %d (%s)    Payable: %s",
		stats.Total,
		stats.Paid, money.FormatUSD(stats.PaidAmount),
		stats.Unpaid, money.FormatUSD(stats.UnpaidAmount),
		money.FormatUSD(report.Totals.GrandTotal),
	), "", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func pdfTableHeader(pdf *gofpdf.Fpdf, columns []string) {
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(31, 59, 87)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range columns {
		pdf.CellFormat(pdfColumnWidths[i], pdfHeaderHeight, col, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func pdfCells(pdf *gofpdf.Fpdf, cells []string, tr func(string) string) {
	for i, cell := range cells {
		align := "R"
		if i < 3 || i == len(cells)-1 {
			align = "L"
		}
		pdf.CellFormat(pdfColumnWidths[i], pdfRowHeight, tr(cell), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

func sumWidths() float64 {
	total := 0.0
	for _, w := range pdfColumnWidths {
		total += w
	}
	return total
}
