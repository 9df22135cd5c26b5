package transport

import (
	"errors"
	"net/http"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/middleware"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleItemRequest is one line of a new sale. Price and cost snapshots are
// resolved server-side from the current catalog.
type SaleItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Discount  float64 `json:"discount" validate:"gte=0"`
}

// SaleRequest creates a sale against an existing customer.
type SaleRequest struct {
	CustomerID    string            `json:"customer_id" validate:"required,uuid"`
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	Status        string            `json:"status" validate:"omitempty,oneof=completed pending cancelled"`
	Notes         string            `json:"notes"`
}

// SaleUpdateRequest mutates the mutable fields of an existing sale. Items
// and totals are fixed at creation and not editable.
type SaleUpdateRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	Status        string `json:"status" validate:"required,oneof=completed pending cancelled"`
	Notes         string `json:"notes"`
}

// SaleHandler handles sale recording and follow-up tracking.
type SaleHandler struct {
	store  store.Store
	logger *zap.Logger
}

func NewSaleHandler(st store.Store, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{store: st, logger: logger}
}

func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler, requireUser func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireUser)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/follow-up", h.MarkFollowedUp)
	})
}

func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.store.ListSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// Create resolves the customer and product snapshots, computes line totals
// and records the sale. The customer copy embedded in the sale is frozen
// at this moment; later customer edits do not touch it.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	customer, err := h.store.FindCustomerByID(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, store.ErrCustomerNotFound) {
			middleware.RespondWithNotFound(w, "customer not found")
			return
		}
		h.logger.Error("Failed to resolve customer", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create sale")
		return
	}

	sale := domain.Sale{
		Customer:      *customer,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.SaleStatus(req.Status),
		Notes:         req.Notes,
	}
	if sale.Status == "" {
		sale.Status = domain.SaleCompleted
	}

	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
			return
		}
		product, err := h.store.FindProductByID(r.Context(), productID)
		if err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				middleware.RespondWithNotFound(w, "product not found")
				return
			}
			h.logger.Error("Failed to resolve product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create sale")
			return
		}
		sale.Items = append(sale.Items, domain.SaleItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			SellPrice:   product.SellPrice,
			CostPrice:   product.CostPrice,
			Discount:    line.Discount,
		})
	}
	sale.ComputeTotals()

	created, err := h.store.AddSale(r.Context(), sale)
	if err != nil {
		h.logger.Error("Failed to record sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create sale")
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", created.ID.String()),
		zap.Float64("total_amount", created.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	var req SaleUpdateRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sales, err := h.store.ListSales(r.Context())
	if err != nil {
		h.logger.Error("Failed to load sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update sale")
		return
	}
	var existing *domain.Sale
	for i := range sales {
		if sales[i].ID == id {
			existing = &sales[i]
			break
		}
	}
	if existing == nil {
		middleware.RespondWithNotFound(w, "sale not found")
		return
	}

	existing.PaymentMethod = req.PaymentMethod
	existing.Status = domain.SaleStatus(req.Status)
	existing.Notes = req.Notes

	found, err := h.store.UpdateSale(r.Context(), *existing)
	if err != nil {
		h.logger.Error("Failed to update sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update sale")
		return
	}
	if !found {
		middleware.RespondWithNotFound(w, "sale not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, existing)
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	found, err := h.store.DeleteSale(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to delete sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete sale")
		return
	}
	if !found {
		middleware.RespondWithNotFound(w, "sale not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}

func (h *SaleHandler) MarkFollowedUp(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	found, err := h.store.MarkSaleFollowedUp(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to mark sale followed up", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to mark sale followed up")
		return
	}
	if !found {
		middleware.RespondWithNotFound(w, "sale not found")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "sale marked as followed up"})
}
