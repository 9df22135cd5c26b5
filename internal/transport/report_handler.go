package transport

import (
	"net/http"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/export"
	"github.com/babahheri21/cleanura-salesight-pro/internal/middleware"
	"github.com/babahheri21/cleanura-salesight-pro/internal/report"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler derives financial reports from store snapshots. Reports
// are recomputed on every request; nothing is cached. Appending
// ?format=csv to the statement endpoints downloads the report as CSV.
type ReportHandler struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewReportHandler(st store.Store, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{store: st, logger: logger, now: time.Now}
}

// WithClock overrides the handler's clock. Test hook.
func (h *ReportHandler) WithClock(now func() time.Time) *ReportHandler {
	h.now = now
	return h
}

// RegisterRoutes mounts the report endpoints. Summary and charts are
// visible to every authenticated role; the formal statements are
// admin-only, matching the dashboard navigation.
func (h *ReportHandler) RegisterRoutes(r chi.Router, authMiddleware, requireGuest, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(requireGuest)
			r.Get("/summary", h.Summary)
			r.Get("/charts/sales-by-day", h.SalesByDay)
			r.Get("/charts/sales-by-product", h.SalesByProduct)
			r.Get("/charts/expenses-by-category", h.ExpensesByCategory)
			r.Get("/charts/month-comparison", h.MonthComparison)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/balance-sheet", h.BalanceSheet)
			r.Get("/profit-loss", h.ProfitLoss)
		})
	})
}

func (h *ReportHandler) snapshots(w http.ResponseWriter, r *http.Request) ([]domain.Sale, []domain.Expense, []domain.Product, bool) {
	sales, err := h.store.ListSales(r.Context())
	if err != nil {
		return h.snapshotError(w, err)
	}
	expenses, err := h.store.ListExpenses(r.Context())
	if err != nil {
		return h.snapshotError(w, err)
	}
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		return h.snapshotError(w, err)
	}
	return sales, expenses, products, true
}

func (h *ReportHandler) snapshotError(w http.ResponseWriter, err error) ([]domain.Sale, []domain.Expense, []domain.Product, bool) {
	h.logger.Error("Failed to snapshot store for report", zap.Error(err))
	middleware.RespondWithError(w, http.StatusInternalServerError, "failed to compute report")
	return nil, nil, nil, false
}

// Summary returns the financial summary for ?period=week|month|year; any
// other value (or none) means all-time.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sales, expenses, _, ok := h.snapshots(w, r)
	if !ok {
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = report.PeriodAll
	}
	summary := report.Summary(sales, expenses, period, h.now())

	if wantsCSV(r) {
		writeCSV(w, h.logger, "financial-summary",
			[]string{"Period", "Total Sales", "Total Expenses", "Total Profit"},
			[][]export.Cell{{
				export.Str(summary.Period),
				export.Money(summary.TotalSales),
				export.Money(summary.TotalExpenses),
				export.Money(summary.TotalProfit),
			}})
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, summary)
}

// BalanceSheet returns the point-in-time statement.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	sales, expenses, products, ok := h.snapshots(w, r)
	if !ok {
		return
	}

	sheet := report.BalanceSheet(sales, expenses, products, h.now())

	if wantsCSV(r) {
		rows := make([][]export.Cell, 0, len(sheet.Assets)+len(sheet.Liabilities)+len(sheet.Equity))
		for _, section := range []struct {
			name  string
			items []domain.LineItem
		}{
			{"Assets", sheet.Assets},
			{"Liabilities", sheet.Liabilities},
			{"Equity", sheet.Equity},
		} {
			for _, item := range section.items {
				rows = append(rows, []export.Cell{
					export.Str(section.name),
					export.Str(item.Name),
					export.Money(item.Amount),
				})
			}
		}
		writeCSV(w, h.logger, "balance-sheet", []string{"Section", "Item", "Amount"}, rows)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sheet)
}

// ProfitLoss returns the statement for the inclusive ?start=&end= window
// (dates, YYYY-MM-DD). The end date covers the whole day.
func (h *ReportHandler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid or missing start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid or missing end date, expected YYYY-MM-DD")
		return
	}
	end = end.Add(24*time.Hour - time.Nanosecond)

	sales, expenses, _, ok := h.snapshots(w, r)
	if !ok {
		return
	}

	statement := report.ProfitLoss(sales, expenses, start, end)

	if wantsCSV(r) {
		rows := make([][]export.Cell, 0, len(statement.Revenue)+len(statement.Expenses)+1)
		for _, item := range statement.Revenue {
			rows = append(rows, []export.Cell{export.Str("Revenue"), export.Str(item.Name), export.Money(item.Amount)})
		}
		for _, item := range statement.Expenses {
			rows = append(rows, []export.Cell{export.Str("Expenses"), export.Str(item.Name), export.Money(item.Amount)})
		}
		rows = append(rows, []export.Cell{export.Str("Net Income"), export.Str(""), export.Money(statement.NetIncome)})
		writeCSV(w, h.logger, "profit-loss", []string{"Section", "Item", "Amount"}, rows)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, statement)
}

// SalesByDay returns the 30-day chart series.
func (h *ReportHandler) SalesByDay(w http.ResponseWriter, r *http.Request) {
	sales, _, _, ok := h.snapshots(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report.SalesByDay(sales, h.now()))
}

// SalesByProduct returns lifetime product sales ranked by amount.
func (h *ReportHandler) SalesByProduct(w http.ResponseWriter, r *http.Request) {
	sales, _, _, ok := h.snapshots(w, r)
	if !ok {
		return
	}

	ranking := report.SalesByProduct(sales)

	if wantsCSV(r) {
		rows := make([][]export.Cell, 0, len(ranking))
		for _, p := range ranking {
			rows = append(rows, []export.Cell{
				export.Str(p.Name),
				export.Money(p.Amount),
				export.Count(p.Quantity),
			})
		}
		writeCSV(w, h.logger, "sales-by-product", []string{"Product", "Sales", "Quantity"}, rows)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ranking)
}

// ExpensesByCategory returns the category breakdown.
func (h *ReportHandler) ExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	_, expenses, _, ok := h.snapshots(w, r)
	if !ok {
		return
	}

	breakdown := report.ExpensesByCategory(expenses)

	if wantsCSV(r) {
		rows := make([][]export.Cell, 0, len(breakdown))
		for _, c := range breakdown {
			rows = append(rows, []export.Cell{export.Str(c.Category), export.Money(c.Amount)})
		}
		writeCSV(w, h.logger, "expenses-by-category", []string{"Category", "Amount"}, rows)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, breakdown)
}

// MonthComparison returns current vs previous calendar month totals.
func (h *ReportHandler) MonthComparison(w http.ResponseWriter, r *http.Request) {
	sales, expenses, _, ok := h.snapshots(w, r)
	if !ok {
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, report.CompareMonths(sales, expenses, h.now()))
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func writeCSV(w http.ResponseWriter, logger *zap.Logger, reportName string, headers []string, rows [][]export.Cell) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(reportName)+`"`)
	if err := export.Write(w, headers, rows); err != nil {
		logger.Error("Failed to write csv export", zap.Error(err), zap.String("report", reportName))
	}
}
