package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/babahheri21/cleanura-salesight-pro/internal/domain"
	"github.com/babahheri21/cleanura-salesight-pro/internal/store"

	"github.com/google/uuid"
)

// Store implements store.Store on postgres. Sales rows carry a denormalized
// copy of the customer at sale time; sale_items rows carry product snapshots.
type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// DB exposes the underlying handle for migrations.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Users

func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, role, avatar, password_hash, created_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0, 8)
	for rows.Next() {
		var u domain.User
		var role string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Avatar, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role = domain.Role(role)
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, avatar, password_hash, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Name, &u.Email, &role, &u.Avatar, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (s *Store) AddUser(ctx context.Context, user domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, role, avatar, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, user.ID, user.Name, user.Email, string(user.Role), user.Avatar, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := user
	return &created, nil
}

func (s *Store) UpdateUser(ctx context.Context, user domain.User) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = $2, email = $3, role = $4, avatar = $5, password_hash = $6
		WHERE id = $1
	`, user.ID, user.Name, user.Email, string(user.Role), user.Avatar, user.PasswordHash)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// Products

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, sell_price, cost_price, stock, category, image, created_at
		FROM products
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 32)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SellPrice, &p.CostPrice, &p.Stock, &p.Category, &p.Image, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.CreatedAt = p.CreatedAt.UTC()
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) FindProductByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, sell_price, cost_price, stock, category, image, created_at
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.SellPrice, &p.CostPrice, &p.Stock, &p.Category, &p.Image, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProductNotFound
		}
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (s *Store) AddProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	product.ID = uuid.New()
	product.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (id, name, description, sell_price, cost_price, stock, category, image, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, product.ID, product.Name, product.Description, product.SellPrice, product.CostPrice, product.Stock, product.Category, product.Image, product.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET name = $2, description = $3, sell_price = $4, cost_price = $5, stock = $6, category = $7, image = $8
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.SellPrice, product.CostPrice, product.Stock, product.Category, product.Image)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// Customers

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, email, address, created_at, last_purchase
		FROM customers
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 32)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) FindCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, address, created_at, last_purchase
		FROM customers
		WHERE id = $1
	`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) AddCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	customer.ID = uuid.New()
	customer.CreatedAt = time.Now().UTC()
	customer.LastPurchase = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, address, created_at, last_purchase)
		VALUES ($1,$2,$3,$4,$5,$6,NULL)
	`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address, customer.CreatedAt)
	if err != nil {
		return nil, err
	}
	created := customer
	return &created, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, customer domain.Customer) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5
		WHERE id = $1
	`, customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (s *Store) DeleteCustomer(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// Sales

func (s *Store) ListSales(ctx context.Context) ([]domain.Sale, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, customer_name, customer_phone, customer_email, customer_address,
			total_amount, profit, payment_method, status, notes, followed_up, created_at
		FROM sales
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]domain.Sale, 0, 64)
	for rows.Next() {
		var sale domain.Sale
		var status string
		if err := rows.Scan(&sale.ID, &sale.Customer.ID, &sale.Customer.Name, &sale.Customer.Phone,
			&sale.Customer.Email, &sale.Customer.Address, &sale.TotalAmount, &sale.Profit,
			&sale.PaymentMethod, &status, &sale.Notes, &sale.FollowedUp, &sale.CreatedAt); err != nil {
			return nil, err
		}
		sale.Status = domain.SaleStatus(status)
		sale.CreatedAt = sale.CreatedAt.UTC()
		sales = append(sales, sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		items, err := s.listSaleItems(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func (s *Store) listSaleItems(ctx context.Context, saleID uuid.UUID) ([]domain.SaleItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, product_id, product_name, quantity, sell_price, cost_price, discount, total
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY position ASC
	`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.SaleItem, 0, 4)
	for rows.Next() {
		var item domain.SaleItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Quantity,
			&item.SellPrice, &item.CostPrice, &item.Discount, &item.Total); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) AddSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error) {
	sale.ID = uuid.New()
	sale.CreatedAt = time.Now().UTC()
	sale.FollowedUp = false
	for i := range sale.Items {
		sale.Items[i].ID = uuid.New()
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (
			id, customer_id, customer_name, customer_phone, customer_email, customer_address,
			total_amount, profit, payment_method, status, notes, followed_up, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`, sale.ID, sale.Customer.ID, sale.Customer.Name, sale.Customer.Phone, sale.Customer.Email,
		sale.Customer.Address, sale.TotalAmount, sale.Profit, sale.PaymentMethod,
		string(sale.Status), sale.Notes, sale.FollowedUp, sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	for pos, item := range sale.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sale_items (id, sale_id, position, product_id, product_name, quantity, sell_price, cost_price, discount, total)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`, item.ID, sale.ID, pos, item.ProductID, item.ProductName, item.Quantity,
			item.SellPrice, item.CostPrice, item.Discount, item.Total)
		if err != nil {
			return nil, err
		}
	}

	// The referenced customer may have been deleted since the snapshot was
	// taken; the sale still stands on its own in that case.
	_, err = tx.ExecContext(ctx, `
		UPDATE customers
		SET last_purchase = $2
		WHERE id = $1
	`, sale.Customer.ID, sale.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	created := sale
	return &created, nil
}

func (s *Store) UpdateSale(ctx context.Context, sale domain.Sale) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sales
		SET payment_method = $2, status = $3, notes = $4, followed_up = $5
		WHERE id = $1
	`, sale.ID, sale.PaymentMethod, string(sale.Status), sale.Notes, sale.FollowedUp)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (s *Store) DeleteSale(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (s *Store) MarkSaleFollowedUp(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sales
		SET followed_up = true
		WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// Expenses

func (s *Store) ListExpenses(ctx context.Context) ([]domain.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount, category, date, notes
		FROM expenses
		ORDER BY date ASC, id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 32)
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.Date, &e.Notes); err != nil {
			return nil, err
		}
		e.Date = e.Date.UTC()
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) AddExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	expense.ID = uuid.New()
	if expense.Date.IsZero() {
		expense.Date = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, description, amount, category, date, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date, expense.Notes)
	if err != nil {
		return nil, err
	}
	created := expense
	return &created, nil
}

func (s *Store) UpdateExpense(ctx context.Context, expense domain.Expense) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET description = $2, amount = $3, category = $4, date = $5, notes = $6
		WHERE id = $1
	`, expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date, expense.Notes)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row scanner) (domain.Customer, error) {
	var c domain.Customer
	var lastPurchase sql.NullTime
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.CreatedAt, &lastPurchase); err != nil {
		return c, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	if lastPurchase.Valid {
		t := lastPurchase.Time.UTC()
		c.LastPurchase = &t
	}
	return c, nil
}

func rowsAffected(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
