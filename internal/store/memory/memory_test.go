package memory

import (
	"context"
	"testing"
	"time"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

func newTestStore() *Store {
	return New().WithClock(func() time.Time { return fixedNow })
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	created, err := s.AddProduct(ctx, domain.Product{
		Name:      "Glass Cleaner",
		SellPrice: 22000,
		CostPrice: 14000,
		Stock:     30,
		Category:  "Cleaning",
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("AddProduct should assign an id")
	}
	if !created.CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", created.CreatedAt, fixedNow)
	}

	found, err := s.FindProductByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindProductByID: %v", err)
	}
	if found.Name != "Glass Cleaner" {
		t.Errorf("found name %q", found.Name)
	}

	updated := *created
	updated.Stock = 25
	updated.CreatedAt = time.Time{} // callers cannot overwrite CreatedAt
	ok, err := s.UpdateProduct(ctx, updated)
	if err != nil || !ok {
		t.Fatalf("UpdateProduct: ok=%v err=%v", ok, err)
	}
	found, _ = s.FindProductByID(ctx, created.ID)
	if found.Stock != 25 {
		t.Errorf("stock = %d, want 25", found.Stock)
	}
	if !found.CreatedAt.Equal(fixedNow) {
		t.Errorf("update must preserve CreatedAt, got %v", found.CreatedAt)
	}

	ok, err = s.DeleteProduct(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteProduct: ok=%v err=%v", ok, err)
	}
	if _, err := s.FindProductByID(ctx, created.ID); err != store.ErrProductNotFound {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
}

func TestMissingIDsAreToleratedNoOps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	ghost := uuid.New()

	if ok, err := s.UpdateProduct(ctx, domain.Product{ID: ghost}); ok || err != nil {
		t.Errorf("UpdateProduct on missing id: ok=%v err=%v, want false/nil", ok, err)
	}
	if ok, err := s.DeleteCustomer(ctx, ghost); ok || err != nil {
		t.Errorf("DeleteCustomer on missing id: ok=%v err=%v, want false/nil", ok, err)
	}
	if ok, err := s.DeleteSale(ctx, ghost); ok || err != nil {
		t.Errorf("DeleteSale on missing id: ok=%v err=%v, want false/nil", ok, err)
	}
	if ok, err := s.MarkSaleFollowedUp(ctx, ghost); ok || err != nil {
		t.Errorf("MarkSaleFollowedUp on missing id: ok=%v err=%v, want false/nil", ok, err)
	}
	if ok, err := s.UpdateExpense(ctx, domain.Expense{ID: ghost}); ok || err != nil {
		t.Errorf("UpdateExpense on missing id: ok=%v err=%v, want false/nil", ok, err)
	}
}

func TestAddSaleTouchesCustomerLastPurchase(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	customer, err := s.AddCustomer(ctx, domain.Customer{Name: "Ibu Ratna", Phone: "0812"})
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}
	if customer.LastPurchase != nil {
		t.Fatal("new customer should have no LastPurchase")
	}

	sale := domain.Sale{
		Customer: *customer,
		Items: []domain.SaleItem{
			{ProductID: uuid.New(), ProductName: "Dish Soap", Quantity: 2, SellPrice: 25000, CostPrice: 15000},
		},
		PaymentMethod: "cash",
		Status:        domain.SaleCompleted,
	}
	sale.ComputeTotals()

	created, err := s.AddSale(ctx, sale)
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}
	if created.FollowedUp {
		t.Error("new sales start not followed up")
	}
	if created.Items[0].ID == uuid.Nil {
		t.Error("AddSale should assign item ids")
	}

	stored, err := s.FindCustomerByID(ctx, customer.ID)
	if err != nil {
		t.Fatalf("FindCustomerByID: %v", err)
	}
	if stored.LastPurchase == nil || !stored.LastPurchase.Equal(fixedNow) {
		t.Errorf("LastPurchase = %v, want %v", stored.LastPurchase, fixedNow)
	}
}

func TestAddSaleWithDeletedCustomerStillRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	sale := domain.Sale{
		Customer: domain.Customer{ID: uuid.New(), Name: "Walk-in"},
		Items: []domain.SaleItem{
			{ProductID: uuid.New(), ProductName: "Hand Soap", Quantity: 1, SellPrice: 15000, CostPrice: 9000},
		},
		PaymentMethod: "cash",
		Status:        domain.SaleCompleted,
	}
	sale.ComputeTotals()

	if _, err := s.AddSale(ctx, sale); err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	sales, err := s.ListSales(ctx)
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
}

func TestSaleTotalsAreComputedFromItems(t *testing.T) {
	sale := domain.Sale{
		Items: []domain.SaleItem{
			{Quantity: 2, SellPrice: 25000, CostPrice: 15000, Discount: 5000},
			{Quantity: 1, SellPrice: 85000, CostPrice: 60000},
		},
	}
	sale.ComputeTotals()

	// line 1: 2*25000 - 5000 = 45000; line 2: 85000
	if sale.Items[0].Total != 45000 {
		t.Errorf("item 0 total = %v, want 45000", sale.Items[0].Total)
	}
	if sale.TotalAmount != 130000 {
		t.Errorf("total = %v, want 130000", sale.TotalAmount)
	}
	// cost: 2*15000 + 60000 = 90000
	if sale.Profit != 40000 {
		t.Errorf("profit = %v, want 40000", sale.Profit)
	}
}

func TestListSalesReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	sale := domain.Sale{
		Customer: domain.Customer{ID: uuid.New(), Name: "Toko Jaya"},
		Items: []domain.SaleItem{
			{ProductID: uuid.New(), ProductName: "Detergent", Quantity: 1, SellPrice: 30000, CostPrice: 20000},
		},
		Status: domain.SaleCompleted,
	}
	sale.ComputeTotals()
	if _, err := s.AddSale(ctx, sale); err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	first, _ := s.ListSales(ctx)
	first[0].Items[0].ProductName = "mutated"

	second, _ := s.ListSales(ctx)
	if second[0].Items[0].ProductName != "Detergent" {
		t.Error("callers must not be able to mutate store state through returned slices")
	}
}

func TestUpdateSalePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	sale := domain.Sale{
		Customer: domain.Customer{ID: uuid.New(), Name: "Toko Jaya"},
		Items:    []domain.SaleItem{{ProductID: uuid.New(), ProductName: "Detergent", Quantity: 1, SellPrice: 30000, CostPrice: 20000}},
		Status:   domain.SalePending,
	}
	sale.ComputeTotals()
	created, err := s.AddSale(ctx, sale)
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	edited := *created
	edited.Status = domain.SaleCompleted
	edited.CreatedAt = time.Time{}
	if ok, err := s.UpdateSale(ctx, edited); !ok || err != nil {
		t.Fatalf("UpdateSale: ok=%v err=%v", ok, err)
	}

	sales, _ := s.ListSales(ctx)
	if sales[0].Status != domain.SaleCompleted {
		t.Errorf("status = %q, want completed", sales[0].Status)
	}
	if !sales[0].CreatedAt.Equal(fixedNow) {
		t.Errorf("CreatedAt = %v, want %v", sales[0].CreatedAt, fixedNow)
	}
}

func TestAddExpenseStampsDateWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	created, err := s.AddExpense(ctx, domain.Expense{Description: "Fuel", Amount: 50000, Category: "Transportation"})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if !created.Date.Equal(fixedNow) {
		t.Errorf("date = %v, want %v", created.Date, fixedNow)
	}

	explicit := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	created, err = s.AddExpense(ctx, domain.Expense{Description: "Rent", Amount: 2000000, Category: "Rent", Date: explicit})
	if err != nil {
		t.Fatalf("AddExpense: %v", err)
	}
	if !created.Date.Equal(explicit) {
		t.Errorf("explicit date = %v, want %v", created.Date, explicit)
	}
}

func TestSeededStore(t *testing.T) {
	ctx := context.Background()
	s := NewSeeded()

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 seeded users, got %d", len(users))
	}

	roles := map[domain.Role]bool{}
	for _, u := range users {
		roles[u.Role] = true
	}
	for _, want := range []domain.Role{domain.RoleAdmin, domain.RoleUser, domain.RoleGuest} {
		if !roles[want] {
			t.Errorf("missing seeded %s user", want)
		}
	}

	admin, err := s.FindUserByEmail(ctx, "admin@cleanura.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if admin.Role != domain.RoleAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}

	products, _ := s.ListProducts(ctx)
	if len(products) == 0 {
		t.Error("expected seeded products")
	}
	customers, _ := s.ListCustomers(ctx)
	if len(customers) == 0 {
		t.Error("expected seeded customers")
	}
	sales, _ := s.ListSales(ctx)
	if len(sales) == 0 {
		t.Error("expected seeded sales")
	}
	for _, sale := range sales {
		var total float64
		for _, item := range sale.Items {
			total += item.Total
		}
		if total != sale.TotalAmount {
			t.Errorf("sale %s TotalAmount %v does not match item totals %v", sale.ID, sale.TotalAmount, total)
		}
	}
	expenses, _ := s.ListExpenses(ctx)
	if len(expenses) == 0 {
		t.Error("expected seeded expenses")
	}
}
