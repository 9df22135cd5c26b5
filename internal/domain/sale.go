package domain

import (
	"time"

	"github.com/google/uuid"
)

// SaleStatus is the settlement state of a sale.
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SalePending   SaleStatus = "pending"
	SaleCancelled SaleStatus = "cancelled"
)

// SaleItem is one line of a sale. ProductName, SellPrice and CostPrice are
// snapshots taken at sale time, not live joins against the catalog.
type SaleItem struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	SellPrice   float64   `json:"sell_price"`
	CostPrice   float64   `json:"cost_price"`
	Discount    float64   `json:"discount"`
	Total       float64   `json:"total"`
}

// LineTotal computes SellPrice*Quantity - Discount for the item.
func (i SaleItem) LineTotal() float64 {
	return i.SellPrice*float64(i.Quantity) - i.Discount
}

// Sale is a recorded transaction. Customer is a denormalized copy of the
// customer record at the moment of sale, so later customer edits never
// change historical sales. TotalAmount and Profit are fixed at creation
// and must stay consistent with Items; they are never recomputed on read.
type Sale struct {
	ID            uuid.UUID  `json:"id"`
	Customer      Customer   `json:"customer"`
	Items         []SaleItem `json:"items"`
	TotalAmount   float64    `json:"total_amount"`
	Profit        float64    `json:"profit"`
	PaymentMethod string     `json:"payment_method"`
	Status        SaleStatus `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	FollowedUp    bool       `json:"followed_up"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ComputeTotals derives TotalAmount and Profit from Items, setting each
// item's Total along the way. Called once when the sale is built.
func (s *Sale) ComputeTotals() {
	var total, cost float64
	for idx := range s.Items {
		s.Items[idx].Total = s.Items[idx].LineTotal()
		total += s.Items[idx].Total
		cost += s.Items[idx].CostPrice * float64(s.Items[idx].Quantity)
	}
	s.TotalAmount = total
	s.Profit = total - cost
}

// Expense is a recorded business cost.
type Expense struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
}
