// Package report derives financial statements and chart-ready aggregates
// from entity snapshots. Every function is pure: it takes the collections
// as they stand, mutates nothing, and returns a fresh value. Nothing is
// cached; at this data scale recomputing per call is cheaper than staleness.
package report

import (
	"sort"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
)

// Period names accepted by Summary. Any other value means all-time.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
	PeriodAll   = "all"
)

// Summary aggregates sales and expenses whose timestamp is on or after the
// period cutoff: 7 days for "week", one calendar month for "month", one
// calendar year for "year". Anything else disables filtering.
func Summary(sales []domain.Sale, expenses []domain.Expense, period string, now time.Time) domain.FinancialSummary {
	cutoff, bounded := periodCutoff(period, now)

	var totalSales, totalExpenses, salesProfit float64
	for _, s := range sales {
		if bounded && s.CreatedAt.Before(cutoff) {
			continue
		}
		totalSales += s.TotalAmount
		salesProfit += s.Profit
	}
	for _, e := range expenses {
		if bounded && e.Date.Before(cutoff) {
			continue
		}
		totalExpenses += e.Amount
	}

	return domain.FinancialSummary{
		TotalSales:    totalSales,
		TotalExpenses: totalExpenses,
		TotalProfit:   salesProfit - totalExpenses,
		Period:        period,
	}
}

func periodCutoff(period string, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

// BalanceSheet derives a point-in-time statement from all-time totals.
// Accounts Payable is a fixed 30% approximation of total expenses, not a
// real payables ledger. Owner's Equity is defined as assets minus
// liabilities, so the accounting identity holds by construction.
func BalanceSheet(sales []domain.Sale, expenses []domain.Expense, products []domain.Product, now time.Time) domain.BalanceSheet {
	var totalSales, totalExpenses, inventory float64
	for _, s := range sales {
		totalSales += s.TotalAmount
	}
	for _, e := range expenses {
		totalExpenses += e.Amount
	}
	for _, p := range products {
		inventory += p.CostPrice * float64(p.Stock)
	}

	cash := totalSales - totalExpenses
	payable := totalExpenses * 0.3
	assetsTotal := cash + inventory
	equity := assetsTotal - payable

	return domain.BalanceSheet{
		Assets: []domain.LineItem{
			{Name: "Cash from Sales", Amount: cash},
			{Name: "Inventory", Amount: inventory},
		},
		Liabilities: []domain.LineItem{
			{Name: "Accounts Payable", Amount: payable},
		},
		Equity: []domain.LineItem{
			{Name: "Owner's Equity", Amount: equity},
		},
		AssetsTotal:      assetsTotal,
		LiabilitiesTotal: payable,
		EquityTotal:      equity,
		Date:             now,
	}
}

// ProfitLoss covers the inclusive [start, end] window. Expenses collapse to
// one line per distinct category, in first-seen order; callers sort if they
// need a different presentation.
func ProfitLoss(sales []domain.Sale, expenses []domain.Expense, start, end time.Time) domain.ProfitLossStatement {
	var revenue, totalExpenses float64
	for _, s := range sales {
		if inRange(s.CreatedAt, start, end) {
			revenue += s.TotalAmount
		}
	}

	byCategory := map[string]float64{}
	var order []string
	for _, e := range expenses {
		if !inRange(e.Date, start, end) {
			continue
		}
		if _, seen := byCategory[e.Category]; !seen {
			order = append(order, e.Category)
		}
		byCategory[e.Category] += e.Amount
		totalExpenses += e.Amount
	}

	lines := make([]domain.LineItem, 0, len(order))
	for _, cat := range order {
		lines = append(lines, domain.LineItem{Name: cat, Amount: byCategory[cat]})
	}

	return domain.ProfitLossStatement{
		Revenue:   []domain.LineItem{{Name: "Sales", Amount: revenue}},
		Expenses:  lines,
		NetIncome: revenue - totalExpenses,
		Period:    domain.ReportPeriod{Start: start, End: end},
	}
}

func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}

// DailySales is one point of the 30-day sales series.
type DailySales struct {
	Date   string  `json:"date"` // ISO date, YYYY-MM-DD
	Amount float64 `json:"amount"`
}

// SalesByDay buckets the last 30 days of sales by ISO date, chronological.
// Days without sales are omitted, matching the dashboard chart.
func SalesByDay(sales []domain.Sale, now time.Time) []DailySales {
	cutoff := now.AddDate(0, 0, -30)

	byDay := map[string]float64{}
	var order []string
	for _, s := range sales {
		if s.CreatedAt.Before(cutoff) {
			continue
		}
		key := s.CreatedAt.Format("2006-01-02")
		if _, seen := byDay[key]; !seen {
			order = append(order, key)
		}
		byDay[key] += s.TotalAmount
	}

	// ISO date strings sort chronologically.
	sort.Strings(order)

	out := make([]DailySales, 0, len(order))
	for _, day := range order {
		out = append(out, DailySales{Date: day, Amount: byDay[day]})
	}
	return out
}

// ProductSales ranks one product's lifetime sales.
type ProductSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Quantity  int     `json:"quantity"`
}

// SalesByProduct aggregates sale items by product id and returns the
// ranking by amount, descending. The product name is taken from the item
// snapshot, so renamed or deleted products still report correctly.
func SalesByProduct(sales []domain.Sale) []ProductSales {
	byProduct := map[string]*ProductSales{}
	var order []string
	for _, s := range sales {
		for _, item := range s.Items {
			key := item.ProductID.String()
			agg, seen := byProduct[key]
			if !seen {
				agg = &ProductSales{ProductID: key, Name: item.ProductName}
				byProduct[key] = agg
				order = append(order, key)
			}
			agg.Amount += item.Total
			agg.Quantity += item.Quantity
		}
	}

	out := make([]ProductSales, 0, len(order))
	for _, key := range order {
		out = append(out, *byProduct[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// CategoryAmount is one slice of a category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ExpensesByCategory sums expenses per category in first-seen order.
func ExpensesByCategory(expenses []domain.Expense) []CategoryAmount {
	byCategory := map[string]float64{}
	var order []string
	for _, e := range expenses {
		if _, seen := byCategory[e.Category]; !seen {
			order = append(order, e.Category)
		}
		byCategory[e.Category] += e.Amount
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryAmount{Category: cat, Amount: byCategory[cat]})
	}
	return out
}

// MonthComparison contrasts the current calendar month with the previous
// one. Profit here is sales minus expenses for the month, the figure shown
// on the reports page cards.
type MonthComparison struct {
	CurrentSales    float64 `json:"current_sales"`
	PreviousSales   float64 `json:"previous_sales"`
	SalesChange     float64 `json:"sales_change_percent"`
	CurrentExpenses float64 `json:"current_expenses"`
	PreviousExpense float64 `json:"previous_expenses"`
	ExpensesChange  float64 `json:"expenses_change_percent"`
	CurrentProfit   float64 `json:"current_profit"`
	PreviousProfit  float64 `json:"previous_profit"`
	ProfitChange    float64 `json:"profit_change_percent"`
}

// CompareMonths computes month-over-month sales, expenses and profit with
// percentage deltas. Zero-base deltas use the PercentChange sentinel rule.
func CompareMonths(sales []domain.Sale, expenses []domain.Expense, now time.Time) MonthComparison {
	curStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevStart := curStart.AddDate(0, -1, 0)
	prevEnd := curStart.Add(-time.Nanosecond)

	var cmp MonthComparison
	for _, s := range sales {
		switch {
		case !s.CreatedAt.Before(curStart) && !s.CreatedAt.After(now):
			cmp.CurrentSales += s.TotalAmount
		case inRange(s.CreatedAt, prevStart, prevEnd):
			cmp.PreviousSales += s.TotalAmount
		}
	}
	for _, e := range expenses {
		switch {
		case !e.Date.Before(curStart) && !e.Date.After(now):
			cmp.CurrentExpenses += e.Amount
		case inRange(e.Date, prevStart, prevEnd):
			cmp.PreviousExpense += e.Amount
		}
	}

	cmp.CurrentProfit = cmp.CurrentSales - cmp.CurrentExpenses
	cmp.PreviousProfit = cmp.PreviousSales - cmp.PreviousExpense
	cmp.SalesChange = PercentChange(cmp.CurrentSales, cmp.PreviousSales)
	cmp.ExpensesChange = PercentChange(cmp.CurrentExpenses, cmp.PreviousExpense)
	cmp.ProfitChange = PercentChange(cmp.CurrentProfit, cmp.PreviousProfit)
	return cmp
}

// PercentChange returns the relative delta in percent. A zero base never
// produces NaN or Inf: the delta is 0 when current is also zero, otherwise
// 100 (treated as "came from nothing").
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
