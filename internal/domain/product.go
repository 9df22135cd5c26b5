package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents an item in the catalog. SellPrice, CostPrice and
// Stock are always non-negative; the transport layer rejects anything else
// before it reaches a store.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SellPrice   float64   `json:"sell_price"`
	CostPrice   float64   `json:"cost_price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Customer represents a buyer. LastPurchase is maintained by the store as
// a side effect of recording a sale that references the customer.
type Customer struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email,omitempty"`
	Address      string     `json:"address,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastPurchase *time.Time `json:"last_purchase,omitempty"`
}
