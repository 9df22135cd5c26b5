package transport

import (
	"net/http"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/middleware"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExpenseRequest carries both create and update payloads. Date is optional
// on create; the store stamps "now" when it is omitted.
type ExpenseRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	Category    string  `json:"category" validate:"required"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string  `json:"notes"`
}

func (r ExpenseRequest) parsedDate() time.Time {
	if r.Date == "" {
		return time.Time{}
	}
	// Validated above, cannot fail.
	t, _ := time.Parse("2006-01-02", r.Date)
	return t
}

// ExpenseHandler handles expense CRUD.
type ExpenseHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewExpenseHandler(st store.Store, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{store: st, logger: logger}
}

func (h *ExpenseHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler, requireUser func(http.Handler) http.Handler) {
	r.Route("/api/expenses", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireUser)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.store.ListExpenses(r.Context())
	if err != nil {
		h.logger.Error("Failed to list expenses", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.store.AddExpense(r.Context(), domain.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.parsedDate(),
		Notes:       req.Notes,
	})
	if err != nil {
		h.logger.Error("Failed to create expense", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}

	h.logger.Info("Expense recorded",
		zap.String("expense_id", created.ID.String()),
		zap.String("category", created.Category),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req ExpenseRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense := domain.Expense{
		ID:          id,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.parsedDate(),
		Notes:       req.Notes,
	}
	if expense.Date.IsZero() {
		expense.Date = time.Now()
	}

	found, err := h.store.UpdateExpense(r.Context(), expense)
	if err != nil {
		h.logger.Error("Failed to update expense", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update expense")
		return
	}
	if !found {
		middleware.RespondWithNotFound(w, "expense not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, expense)
}

func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	found, err := h.store.DeleteExpense(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete expense", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	if !found {
		middleware.RespondWithNotFound(w, "expense not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}
