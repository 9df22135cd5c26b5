// Package memory implements the entity store over in-process slices. It is
// the default backend: the dashboard ships seeded with a demo dataset and
// keeps all state in memory for the lifetime of the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/google/uuid"
)

// Store keeps every collection as a slice so listing preserves insertion
// order. Collections are small (single back office), so linear scans are
// fine; the RWMutex exists because the HTTP layer reads concurrently.
type Store struct {
	mu        sync.RWMutex
	users     []domain.User
	products  []domain.Product
	customers []domain.Customer
	sales     []domain.Sale
	expenses  []domain.Expense

	now func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// WithClock overrides the store's clock. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Users

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			return true, nil
		}
	}
	return false, nil
}

// AddUser registers an account. Only used by seeding and the admin user
// management endpoints.
func (s *Store) AddUser(ctx context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users = append(s.users, user)
	cp := user
	return &cp, nil
}

// Products

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *Store) FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, store.ErrProductNotFound
}

func (s *Store) AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	product.ID = uuid.New()
	product.CreatedAt = s.now()
	s.products = append(s.products, product)
	cp := product
	return &cp, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == product.ID {
			product.CreatedAt = s.products[i].CreatedAt
			s.products[i] = product
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Customers

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Customer, len(s.customers))
	copy(out, s.customers)
	return out, nil
}

func (s *Store) FindCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.customers {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, store.ErrCustomerNotFound
}

func (s *Store) AddCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer.ID = uuid.New()
	customer.CreatedAt = s.now()
	customer.LastPurchase = nil
	s.customers = append(s.customers, customer)
	cp := customer
	return &cp, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == customer.ID {
			customer.CreatedAt = s.customers[i].CreatedAt
			s.customers[i] = customer
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Sales

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Sale, len(s.sales))
	for i, sale := range s.sales {
		out[i] = copySale(sale)
	}
	return out, nil
}

// AddSale records the sale and touches the referenced customer's
// LastPurchase under the same lock, so both land or neither does.
func (s *Store) AddSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.ID = uuid.New()
	sale.CreatedAt = s.now()
	sale.FollowedUp = false
	for i := range sale.Items {
		if sale.Items[i].ID == uuid.Nil {
			sale.Items[i].ID = uuid.New()
		}
	}
	for i := range s.customers {
		if s.customers[i].ID == sale.Customer.ID {
			ts := sale.CreatedAt
			s.customers[i].LastPurchase = &ts
			break
		}
	}
	s.sales = append(s.sales, copySale(sale))
	cp := copySale(sale)
	return &cp, nil
}

func (s *Store) UpdateSale(ctx context.Context, sale domain.Sale) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == sale.ID {
			sale.CreatedAt = s.sales[i].CreatedAt
			s.sales[i] = copySale(sale)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteSale(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) MarkSaleFollowedUp(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == id {
			s.sales[i].FollowedUp = true
			return true, nil
		}
	}
	return false, nil
}

// Expenses

func (s *Store) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

func (s *Store) AddExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense.ID = uuid.New()
	if expense.Date.IsZero() {
		expense.Date = s.now()
	}
	s.expenses = append(s.expenses, expense)
	cp := expense
	return &cp, nil
}

func (s *Store) UpdateExpense(ctx context.Context, expense domain.Expense) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == expense.ID {
			s.expenses[i] = expense
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// copySale clones the item slice so callers never share backing arrays
// with the store.
func copySale(sale domain.Sale) domain.Sale {
	items := make([]domain.SaleItem, len(sale.Items))
	copy(items, sale.Items)
	sale.Items = items
	return sale
}
