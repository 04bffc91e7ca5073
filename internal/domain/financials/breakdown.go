package financials

import (
	"strings"

	"haulboard/internal/platform/money"
)

const (
	LabelExpense        = "Expense"
	LabelFuelCost       = "Fuel Cost"
	LabelWorkCost       = "Work Cost"
	LabelBonus          = "Bonus"
	LabelDriverSalaries = "Driver Salaries"
	LabelOtherSalaries  = "Other Salaries"
)

// Compute sums category costs and stored costs, subtracts discounts and
// derives profit = income - totalCostAfterDiscounts.
func Compute(period Period, summary Summary, costs []Cost, discounts []Discount) Breakdown {
	b := Breakdown{
		Period: period,
		Income: money.Parse(summary.Income),
		Categories: []Line{
			{Label: LabelExpense, Amount: money.Parse(summary.Expense)},
			{Label: LabelFuelCost, Amount: money.Parse(summary.FuelCost)},
			{Label: LabelWorkCost, Amount: money.Parse(summary.WorkCost)},
			{Label: LabelBonus, Amount: money.Parse(summary.Bonus)},
			{Label: LabelDriverSalaries, Amount: money.Parse(summary.DriverSalaries)},
			{Label: LabelOtherSalaries, Amount: money.Parse(summary.OtherSalaries)},
		},
		ExtraCosts: make([]Line, 0, len(costs)),
		Discounts:  make([]Line, 0, len(discounts)),
	}
	for _, line := range b.Categories {
		b.CategoryTotal += line.Amount
	}
	for _, cost := range costs {
		line := Line{Label: labelOr(cost.Description, "Cost"), Amount: money.Parse(cost.Amount)}
		b.ExtraCosts = append(b.ExtraCosts, line)
		b.ExtraCostTotal += line.Amount
	}
	for _, discount := range discounts {
		line := Line{Label: labelOr(discount.Description, "Discount"), Amount: money.Parse(discount.Amount)}
		b.Discounts = append(b.Discounts, line)
		b.TotalDiscounts += line.Amount
	}
	b.TotalCost = b.CategoryTotal + b.ExtraCostTotal
	b.TotalCostAfterDiscounts = b.TotalCost - b.TotalDiscounts
	b.Profit = b.Income - b.TotalCostAfterDiscounts
	return b
}

func labelOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
