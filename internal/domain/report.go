package domain

import "time"

// FinancialSummary aggregates sales and expenses over a relative period
// ("week", "month", "year" or "all").
type FinancialSummary struct {
	TotalSales    float64 `json:"total_sales"`
	TotalExpenses float64 `json:"total_expenses"`
	TotalProfit   float64 `json:"total_profit"`
	Period        string  `json:"period"`
}

// LineItem is a single named amount on a financial statement.
type LineItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// BalanceSheet is a point-in-time statement. The accounting identity
// AssetsTotal == LiabilitiesTotal + EquityTotal holds by construction.
type BalanceSheet struct {
	Assets           []LineItem `json:"assets"`
	Liabilities      []LineItem `json:"liabilities"`
	Equity           []LineItem `json:"equity"`
	AssetsTotal      float64    `json:"assets_total"`
	LiabilitiesTotal float64    `json:"liabilities_total"`
	EquityTotal      float64    `json:"equity_total"`
	Date             time.Time  `json:"date"`
}

// ReportPeriod is an inclusive date range.
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ProfitLossStatement covers an inclusive [Start, End] window with one
// expense line per distinct category.
type ProfitLossStatement struct {
	Revenue   []LineItem   `json:"revenue"`
	Expenses  []LineItem   `json:"expenses"`
	NetIncome float64      `json:"net_income"`
	Period    ReportPeriod `json:"period"`
}
