package export

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"time"

	"haulboard/internal/domain/financials"
	"haulboard/internal/platform/money"
)

// FinancialFileName builds financial_breakdown_{start}_{end}.{ext}.
func FinancialFileName(period financials.Period, ext string) string {
	return fmt.Sprintf("financial_breakdown_%s_%s.%s", period.StartDate, period.EndDate, ext)
}

func FinancialCSV(w io.Writer, b financials.Breakdown) error {
	writer := csv.NewWriter(w)
	records := [][]string{
		{"Expense Breakdown"},
		{"Period", b.Period.StartDate + " to " + b.Period.EndDate},
		{},
		{"Section", "Item", "Amount"},
		{"Income", "Income", money.FormatUSD(b.Income)},
	}
	for _, line := range b.Categories {
		records = append(records, []string{"Category", line.Label, money.FormatUSD(line.Amount)})
	}
	records = append(records, []string{"Category", "Category total", money.FormatUSD(b.CategoryTotal)})
	for _, line := range b.ExtraCosts {
		records = append(records, []string{"Additional cost", line.Label, money.FormatUSD(line.Amount)})
	}
	records = append(records,
		[]string{"Additional cost", "Additional cost total", money.FormatUSD(b.ExtraCostTotal)},
		[]string{"Total", "Total cost", money.FormatUSD(b.TotalCost)},
	)
	for _, line := range b.Discounts {
		records = append(records, []string{"Discount", line.Label, money.FormatUSD(line.Amount)})
	}
	records = append(records,
		[]string{"Discount", "Total discounts", money.FormatUSD(b.TotalDiscounts)},
		[]string{"Total", "Total cost after discounts", money.FormatUSD(b.TotalCostAfterDiscounts)},
		[]string{"Total", "Profit", money.FormatUSD(b.Profit)},
	)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("write financial csv: %w", err)
	}
	return nil
}

var financialTemplate = template.Must(template.New("breakdown.html").Funcs(template.FuncMap{
	"usd": money.FormatUSD,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Expense Breakdown {{.B.Period.StartDate}} to {{.B.Period.EndDate}}</title>
<style>
  body { font-family: Arial, sans-serif; font-size: 12px; margin: 24px; }
  table { border-collapse: collapse; width: 100%; margin-bottom: 16px; }
  th, td { border: 1px solid #bbb; padding: 6px 8px; text-align: left; }
  td.num { text-align: right; }
  tr.total td { font-weight: bold; background: #eee; }
  .profit { font-size: 16px; font-weight: bold; }
  @media print { body { margin: 0; } }
</style>
</head>
<body>
<h1>Expense Breakdown</h1>
<p>Period: {{.B.Period.StartDate}} to {{.B.Period.EndDate}}<br>Generated: {{.GeneratedAt.Format "2006-01-02 15:04"}}</p>
<table>
  <tr><th>Income</th><td class="num">{{usd .B.Income}}</td></tr>
</table>
<table>
  <tr><th colspan="2">Categories</th></tr>
{{- range .B.Categories}}
  <tr><td>{{.Label}}</td><td class="num">{{usd .Amount}}</td></tr>
{{- end}}
  <tr class="total"><td>Category total</td><td class="num">{{usd .B.CategoryTotal}}</td></tr>
</table>
<table>
  <tr><th colspan="2">Additional costs</th></tr>
{{- range .B.ExtraCosts}}
  <tr><td>{{.Label}}</td><td class="num">{{usd .Amount}}</td></tr>
{{- else}}
  <tr><td colspan="2">No additional costs</td></tr>
{{- end}}
  <tr class="total"><td>Additional cost total</td><td class="num">{{usd .B.ExtraCostTotal}}</td></tr>
  <tr class="total"><td>Total cost</td><td class="num">{{usd .B.TotalCost}}</td></tr>
</table>
<table>
  <tr><th colspan="2">Discounts</th></tr>
{{- range .B.Discounts}}
  <tr><td>{{.Label}}</td><td class="num">{{usd .Amount}}</td></tr>
{{- else}}
  <tr><td colspan="2">No discounts</td></tr>
{{- end}}
  <tr class="total"><td>Total discounts</td><td class="num">{{usd .B.TotalDiscounts}}</td></tr>
  <tr class="total"><td>Total cost after discounts</td><td class="num">{{usd .B.TotalCostAfterDiscounts}}</td></tr>
</table>
<p class="profit">Profit: {{usd .B.Profit}}</p>
</body>
</html>
`))

// FinancialHTML writes a print-ready page of the breakdown.
func FinancialHTML(w io.Writer, b financials.Breakdown, generatedAt time.Time) error {
	return financialTemplate.Execute(w, struct {
		B           financials.Breakdown
		GeneratedAt time.Time
	}{b, generatedAt})
}
