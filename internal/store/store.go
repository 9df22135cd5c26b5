package store

import (
	"context"
	"errors"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Store is the entity store behind the dashboard. Implementations own all
// entity collections; callers get copies, never aliases into internal state.
//
// Add* methods assign the ID and creation timestamp and return the created
// value. Update* and Delete* return found=false (with a nil error) when no
// record matches the id; missing records are tolerated, not failures.
// No field validation happens here; the transport layer enforces it.
type Store interface {
	// Users
	ListUsers(ctx context.Context) ([]domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	AddUser(ctx context.Context, user domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) (bool, error)

	// Products
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (bool, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error)

	// Customers
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	FindCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	AddCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) (bool, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) (bool, error)

	// Sales. AddSale also moves the referenced customer's LastPurchase to
	// the sale's creation time, atomically with recording the sale.
	ListSales(ctx context.Context) ([]domain.Sale, error)
	AddSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	UpdateSale(ctx context.Context, sale domain.Sale) (bool, error)
	DeleteSale(ctx context.Context, id uuid.UUID) (bool, error)
	MarkSaleFollowedUp(ctx context.Context, id uuid.UUID) (bool, error)

	// Expenses
	ListExpenses(ctx context.Context) ([]domain.Expense, error)
	AddExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) (bool, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error)
}
