package memory

import (
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"

	"github.com/google/uuid"
)

// NewSeeded builds a store preloaded with the demo dataset: three accounts
// (one per role), the Cleanura catalog, a handful of business customers and
// recent sales/expenses spread over the last two months so every report and
// chart has data on first load.
//
// Demo accounts authenticate by email alone (no password hash); real
// accounts created through the admin endpoints always carry a hash.
func NewSeeded() *Store {
	s := New()
	now := time.Now()

	s.users = []domain.User{
		{
			ID:        uuid.New(),
			Name:      "Admin User",
			Email:     "admin@cleanura.com",
			Role:      domain.RoleAdmin,
			Avatar:    "https://ui-avatars.com/api/?name=Admin+User&background=0D8ABC&color=fff",
			CreatedAt: now.AddDate(0, -6, 0),
		},
		{
			ID:        uuid.New(),
			Name:      "Regular User",
			Email:     "user@cleanura.com",
			Role:      domain.RoleUser,
			Avatar:    "https://ui-avatars.com/api/?name=Regular+User&background=1A6DF0&color=fff",
			CreatedAt: now.AddDate(0, -6, 0),
		},
		{
			ID:        uuid.New(),
			Name:      "Guest User",
			Email:     "guest@cleanura.com",
			Role:      domain.RoleGuest,
			Avatar:    "https://ui-avatars.com/api/?name=Guest+User&background=9FB8D1&color=fff",
			CreatedAt: now.AddDate(0, -6, 0),
		},
	}

	s.products = []domain.Product{
		{
			ID:          uuid.New(),
			Name:        "Cleanura Pro Detergent",
			Description: "High-quality professional detergent for all types of surfaces",
			SellPrice:   150000,
			CostPrice:   85000,
			Stock:       245,
			Category:    "Cleaning Products",
			Image:       "https://placehold.co/300x300/1A6DF0/white?text=Cleanura+Pro",
			CreatedAt:   now.AddDate(0, -5, 0),
		},
		{
			ID:          uuid.New(),
			Name:        "Cleanura Surface Cleaner",
			Description: "All-purpose surface cleaner with fresh scent",
			SellPrice:   85000,
			CostPrice:   45000,
			Stock:       320,
			Category:    "Cleaning Products",
			Image:       "https://placehold.co/300x300/1A6DF0/white?text=Surface+Cleaner",
			CreatedAt:   now.AddDate(0, -4, -20),
		},
		{
			ID:          uuid.New(),
			Name:        "Cleanura Glass Polish",
			Description: "Premium glass polish for streak-free shine",
			SellPrice:   95000,
			CostPrice:   52000,
			Stock:       180,
			Category:    "Polishes",
			Image:       "https://placehold.co/300x300/1A6DF0/white?text=Glass+Polish",
			CreatedAt:   now.AddDate(0, -4, 0),
		},
		{
			ID:          uuid.New(),
			Name:        "Cleanura Floor Cleaner",
			Description: "Industrial strength floor cleaner for all floor types",
			SellPrice:   120000,
			CostPrice:   65000,
			Stock:       200,
			Category:    "Cleaning Products",
			Image:       "https://placehold.co/300x300/1A6DF0/white?text=Floor+Cleaner",
			CreatedAt:   now.AddDate(0, -3, -10),
		},
		{
			ID:          uuid.New(),
			Name:        "Cleanura Microfiber Cloth",
			Description: "High-quality microfiber cleaning cloth set (5pcs)",
			SellPrice:   75000,
			CostPrice:   35000,
			Stock:       150,
			Category:    "Accessories",
			Image:       "https://placehold.co/300x300/1A6DF0/white?text=Microfiber",
			CreatedAt:   now.AddDate(0, -3, 0),
		},
	}

	s.customers = []domain.Customer{
		{
			ID:        uuid.New(),
			Name:      "PT Maju Bersama",
			Phone:     "+6281234567890",
			Email:     "purchasing@majubersama.com",
			Address:   "Jl. Raya Industri No. 45, Jakarta",
			CreatedAt: now.AddDate(0, -5, 0),
		},
		{
			ID:        uuid.New(),
			Name:      "Hotel Nusantara",
			Phone:     "+6285678901234",
			Email:     "housekeeping@hotelnusantara.com",
			Address:   "Jl. Gatot Subroto No. 123, Jakarta",
			CreatedAt: now.AddDate(0, -4, -15),
		},
		{
			ID:        uuid.New(),
			Name:      "Klinik Sehat Selalu",
			Phone:     "+6287890123456",
			Email:     "admin@kliniksehat.com",
			Address:   "Jl. Pahlawan No. 56, Bandung",
			CreatedAt: now.AddDate(0, -4, 0),
		},
		{
			ID:        uuid.New(),
			Name:      "CV Berkah Jaya",
			Phone:     "+6289012345678",
			Email:     "office@berkahjaya.co.id",
			Address:   "Jl. Merdeka No. 78, Surabaya",
			CreatedAt: now.AddDate(0, -3, -5),
		},
		{
			ID:        uuid.New(),
			Name:      "Restoran Selera Rasa",
			Phone:     "+6282345678901",
			Email:     "manager@selerarasa.com",
			Address:   "Jl. Sudirman No. 90, Jakarta",
			CreatedAt: now.AddDate(0, -2, -20),
		},
	}

	// Sales spread across the current and previous month so the weekly,
	// monthly and month-over-month views all show movement.
	seedSale := func(daysAgo int, customerIdx int, lines []seedLine, method string) {
		at := now.AddDate(0, 0, -daysAgo)
		sale := domain.Sale{
			ID:            uuid.New(),
			Customer:      s.customers[customerIdx],
			PaymentMethod: method,
			Status:        domain.SaleCompleted,
			CreatedAt:     at,
		}
		for _, l := range lines {
			p := s.products[l.productIdx]
			sale.Items = append(sale.Items, domain.SaleItem{
				ID:          uuid.New(),
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    l.qty,
				SellPrice:   p.SellPrice,
				CostPrice:   p.CostPrice,
				Discount:    l.discount,
			})
		}
		sale.ComputeTotals()
		s.sales = append(s.sales, sale)
		s.customers[customerIdx].LastPurchase = &sale.CreatedAt
	}

	seedSale(48, 0, []seedLine{{0, 10, 50000}, {1, 5, 0}}, "bank_transfer")
	seedSale(40, 1, []seedLine{{3, 8, 0}}, "bank_transfer")
	seedSale(33, 2, []seedLine{{2, 4, 20000}, {4, 6, 0}}, "cash")
	seedSale(21, 3, []seedLine{{0, 6, 0}}, "bank_transfer")
	seedSale(14, 1, []seedLine{{1, 12, 60000}, {4, 3, 0}}, "credit")
	seedSale(9, 4, []seedLine{{3, 5, 0}, {2, 2, 0}}, "cash")
	seedSale(4, 0, []seedLine{{0, 4, 0}, {1, 4, 15000}}, "bank_transfer")
	seedSale(1, 2, []seedLine{{4, 10, 0}}, "cash")

	s.expenses = []domain.Expense{
		{ID: uuid.New(), Description: "Warehouse rent", Amount: 5000000, Category: "Rent", Date: now.AddDate(0, 0, -45)},
		{ID: uuid.New(), Description: "Delivery fuel", Amount: 750000, Category: "Transportation", Date: now.AddDate(0, 0, -38)},
		{ID: uuid.New(), Description: "Staff salaries", Amount: 12000000, Category: "Salaries", Date: now.AddDate(0, 0, -30)},
		{ID: uuid.New(), Description: "Electricity and water", Amount: 1250000, Category: "Utilities", Date: now.AddDate(0, 0, -18)},
		{ID: uuid.New(), Description: "Social media campaign", Amount: 2000000, Category: "Marketing", Date: now.AddDate(0, 0, -12)},
		{ID: uuid.New(), Description: "Warehouse rent", Amount: 5000000, Category: "Rent", Date: now.AddDate(0, 0, -15)},
		{ID: uuid.New(), Description: "Packaging supplies", Amount: 600000, Category: "Operations", Date: now.AddDate(0, 0, -3)},
	}

	return s
}

type seedLine struct {
	productIdx int
	qty        int
	discount   float64
}
