package export

import (
	"html/template"
	"io"

	"haulboard/internal/domain/payroll"
	"haulboard/internal/platform/money"
)

var spreadsheetTemplate = template.Must(template.New("payroll.xls").Funcs(template.FuncMap{
	"usd":   money.FormatUSD,
	"cells": Cells,
	"paid":  func(row payroll.OperatorRow) bool { return row.Paid() },
}).Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel">
<head>
<meta charset="utf-8">
<style>
  table { border-collapse: collapse; font-family: Arial, sans-serif; font-size: 11px; }
  th, td { border: 1px solid #999; padding: 4px 6px; }
  .title { font-size: 16px; font-weight: bold; }
  .section { background: #1f3b57; color: #fff; font-weight: bold; }
  .head th { background: #dce6f1; }
  .paid td { background: #e2f0d9; }
  .pending td { background: #fff2cc; }
  .totals td { background: #d9d9d9; font-weight: bold; }
  .num { text-align: right; }
</style>
</head>
<body>
<table>
  <tr><td class="title" colspan="{{len .Columns}}">{{.Title}}</td></tr>
  <tr><td>Period</td><td colspan="3">{{.PeriodLabel}}</td></tr>
  <tr><td>Location</td><td colspan="3">{{.LocationLabel}}</td></tr>
  <tr><td>Generated</td><td colspan="3">{{.GeneratedAt.Format "2006-01-02 15:04"}}</td></tr>
  <tr><td colspan="{{len .Columns}}"></td></tr>
  <tr class="section"><td colspan="{{len .Columns}}">Summary</td></tr>
  <tr><td>Operators</td><td class="num">{{.Stats.Total}}</td></tr>
  <tr class="paid"><td>Paid</td><td class="num">{{.Stats.Paid}}</td><td class="num">{{usd .Stats.PaidAmount}}</td></tr>
  <tr class="pending"><td>Pending</td><td class="num">{{.Stats.Unpaid}}</td><td class="num">{{usd .Stats.UnpaidAmount}}</td></tr>
  <tr><td>Grand total</td><td class="num" colspan="2">{{usd .Totals.GrandTotal}}</td></tr>
  <tr><td colspan="{{len .Columns}}"></td></tr>
  <tr class="head">{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
  <tr class="{{if paid .}}paid{{else}}pending{{end}}">{{range cells .}}<td>{{.}}</td>{{end}}</tr>
{{- else}}
  <tr><td colspan="{{len $.Columns}}">No data</td></tr>
{{- end}}
  <tr class="totals">{{range .TotalCells}}<td>{{.}}</td>{{end}}</tr>
</table>
</body>
</html>
`))

// Spreadsheet writes an HTML table that spreadsheet applications open as
// an .xls file. Rows are coloured by payment status.
func Spreadsheet(w io.Writer, report Report) error {
	return spreadsheetTemplate.Execute(w, report)
}
