package financials

import (
	"haulboard/internal/platform/money"
	"haulboard/internal/platform/wire"
)

// Summary is the backend's already-aggregated totals for a date range.
type Summary struct {
	Income         money.Amount `json:"income"`
	Expense        money.Amount `json:"expense"`
	FuelCost       money.Amount `json:"fuel_cost"`
	WorkCost       money.Amount `json:"work_cost"`
	Bonus          money.Amount `json:"bonus"`
	DriverSalaries money.Amount `json:"driver_salaries"`
	OtherSalaries  money.Amount `json:"other_salaries"`
}

// Cost is an ad hoc cost record stored in the backend database.
type Cost struct {
	ID          wire.ID      `json:"id"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	Date        string       `json:"date"`
	Category    string       `json:"category,omitempty"`
}

type Discount struct {
	ID          wire.ID      `json:"id"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	Date        string       `json:"date"`
}

type Income struct {
	ID          wire.ID      `json:"id"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	Date        string       `json:"date"`
}

type CostInput struct {
	Description string  `json:"description" validate:"required,notblank"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string  `json:"category,omitempty"`
}

type IncomeInput struct {
	Description string  `json:"description" validate:"required,notblank"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
}

type Period struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Line struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Breakdown is the expense breakdown and profit for a period.
type Breakdown struct {
	Period                  Period  `json:"period"`
	Income                  float64 `json:"income"`
	Categories              []Line  `json:"categories"`
	CategoryTotal           float64 `json:"categoryTotal"`
	ExtraCosts              []Line  `json:"extraCosts"`
	ExtraCostTotal          float64 `json:"extraCostTotal"`
	TotalCost               float64 `json:"totalCost"`
	Discounts               []Line  `json:"discounts"`
	TotalDiscounts          float64 `json:"totalDiscounts"`
	TotalCostAfterDiscounts float64 `json:"totalCostAfterDiscounts"`
	Profit                  float64 `json:"profit"`
}
