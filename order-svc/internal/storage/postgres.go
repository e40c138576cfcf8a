package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	shared "menugenius/domain"
	"menugenius/order-svc/internal/domain"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

const menuColumns = `id, name, description, price, category, cuisine, ingredients, dietary_tags,
	spice_level, calories, image_url, is_available, created_at, updated_at`

const orderColumns = `id, order_number, table_number, customer_name, language, notes,
	total_amount, service_charge, status, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMenuItem(row rowScanner) (shared.MenuItem, error) {
	var item shared.MenuItem
	var spice string
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Cuisine,
		pq.Array(&item.Ingredients), pq.Array(&item.DietaryTags), &spice, &item.Calories, &item.ImageURL,
		&item.IsAvailable, &item.CreatedAt, &item.UpdatedAt)
	item.SpiceLevel = shared.SpiceLevel(spice)
	return item, err
}

func (r *PostgresRepository) queryMenu(ctx context.Context, query string, args ...any) ([]shared.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []shared.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context) ([]shared.MenuItem, error) {
	return r.queryMenu(ctx, `SELECT `+menuColumns+` FROM menu_items ORDER BY id`)
}

func (r *PostgresRepository) GetMenuItem(ctx context.Context, id int) (*shared.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) GetMenuItems(ctx context.Context, ids []int) (map[int]shared.MenuItem, error) {
	keys := make([]int64, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}
	items, err := r.queryMenu(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = ANY($1)`, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	byID := make(map[int]shared.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

func (r *PostgresRepository) SearchMenuItems(ctx context.Context, query string) ([]shared.MenuItem, error) {
	pattern := "%" + query + "%"
	return r.queryMenu(ctx, `
		SELECT `+menuColumns+`
		FROM menu_items
		WHERE name ILIKE $1 OR description ILIKE $1 OR cuisine ILIKE $1 OR category ILIKE $1
		ORDER BY id`, pattern)
}

func (r *PostgresRepository) MenuItemsByCategory(ctx context.Context, category string) ([]shared.MenuItem, error) {
	return r.queryMenu(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE LOWER(category) = LOWER($1) ORDER BY id`, category)
}

// CreateMenuItem inserts item and fills in its id.
func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *shared.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, description, price, category, cuisine, ingredients, dietary_tags,
			spice_level, calories, image_url, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		item.Name, item.Description, item.Price, item.Category, item.Cuisine,
		pq.Array(item.Ingredients), pq.Array(item.DietaryTags), string(item.SpiceLevel),
		item.Calories, item.ImageURL, item.IsAvailable, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
}

func (r *PostgresRepository) UpdateMenuItem(ctx context.Context, item *shared.MenuItem) error {
	return r.DB.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, description = $2, price = $3, category = $4, cuisine = $5, ingredients = $6,
			dietary_tags = $7, spice_level = $8, calories = $9, image_url = $10, is_available = $11,
			updated_at = $12
		WHERE id = $13
		RETURNING created_at`,
		item.Name, item.Description, item.Price, item.Category, item.Cuisine,
		pq.Array(item.Ingredients), pq.Array(item.DietaryTags), string(item.SpiceLevel),
		item.Calories, item.ImageURL, item.IsAvailable, item.UpdatedAt, item.ID,
	).Scan(&item.CreatedAt)
}

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

// DeleteMenuItem removes the item and reports how many rows went. Items that
// past orders still reference fail with domain.ErrMenuItemReferenced.
func (r *PostgresRepository) DeleteMenuItem(ctx context.Context, id int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return 0, fmt.Errorf("%w: %s", domain.ErrMenuItemReferenced, pqErr.Detail)
		}
		return 0, err
	}
	return res.RowsAffected()
}

// SeedMenuItems fills an empty menu_items table. A populated table is left alone.
func (r *PostgresRepository) SeedMenuItems(ctx context.Context, items []shared.MenuItem) (int, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_items`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO menu_items (name, description, price, category, cuisine, ingredients, dietary_tags,
				spice_level, calories, image_url, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			item.Name, item.Description, item.Price, item.Category, item.Cuisine,
			pq.Array(item.Ingredients), pq.Array(item.DietaryTags), string(item.SpiceLevel),
			item.Calories, item.ImageURL, item.IsAvailable); err != nil {
			return 0, fmt.Errorf("seed menu item %q: %w", item.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_number, table_number, customer_name, language, notes,
			total_amount, service_charge, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		order.OrderNumber, order.TableNumber, order.CustomerName, order.Language, order.Notes,
		order.TotalAmount, order.ServiceCharge, int(order.Status), order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID); err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, menu_item_name, menu_item_description,
				price, quantity, special_instructions)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			order.ID, item.MenuItemID, item.MenuItemName, item.MenuItemDescription,
			item.Price, item.Quantity, item.SpecialInstructions,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var status int
	var completedAt sql.NullTime
	if err := row.Scan(&order.ID, &order.OrderNumber, &order.TableNumber, &order.CustomerName, &order.Language,
		&order.Notes, &order.TotalAmount, &order.ServiceCharge, &status, &order.CreatedAt, &order.UpdatedAt,
		&completedAt); err != nil {
		return nil, err
	}
	order.Status = shared.Status(status)
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}
	return &order, nil
}

func (r *PostgresRepository) loadItems(ctx context.Context, order *domain.Order) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, menu_item_id, menu_item_name, menu_item_description, price, quantity, special_instructions
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.MenuItemID, &item.MenuItemName, &item.MenuItemDescription,
			&item.Price, &item.Quantity, &item.SpecialInstructions); err != nil {
			return err
		}
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}

func (r *PostgresRepository) getOrderWhere(ctx context.Context, where string, arg any) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE `+where, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return r.getOrderWhere(ctx, "id = $1", id)
}

func (r *PostgresRepository) GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return r.getOrderWhere(ctx, "order_number = $1", orderNumber)
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var conditions []string
	var args []any
	if filter.Status != nil {
		args = append(args, int(*filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.TableNumber != "" {
		args = append(args, filter.TableNumber)
		conditions = append(conditions, "table_number = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.PageSize, (filter.PageNumber-1)*filter.PageSize)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.listOrders(ctx, query, args...)
}

func (r *PostgresRepository) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at`, int(shared.StatusCompleted), int(shared.StatusCancelled))
}

// UpdateStatus writes the new status only while the row still holds from.
// It reports the number of rows changed.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, order *domain.Order, from shared.Status) (int64, error) {
	var completedAt sql.NullTime
	if order.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *order.CompletedAt, Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, notes = $2, updated_at = $3, completed_at = $4
		WHERE id = $5 AND status = $6`,
		int(order.Status), order.Notes, order.UpdatedAt, completedAt, order.ID, int(from))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) SaveQRCode(ctx context.Context, orderNumber string, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE orders SET qr_code = $1 WHERE order_number = $2`, qr, orderNumber)
	return err
}

func (r *PostgresRepository) GetQRCode(ctx context.Context, orderNumber string) ([]byte, error) {
	var qrCode []byte
	if err := r.DB.QueryRowContext(ctx, `SELECT qr_code FROM orders WHERE order_number = $1`, orderNumber).Scan(&qrCode); err != nil {
		return nil, err
	}
	return qrCode, nil
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
			category TEXT NOT NULL DEFAULT '',
			cuisine TEXT NOT NULL DEFAULT '',
			ingredients TEXT[] NOT NULL DEFAULT '{}',
			dietary_tags TEXT[] NOT NULL DEFAULT '{}',
			spice_level TEXT NOT NULL DEFAULT '',
			calories INT NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			order_number TEXT NOT NULL UNIQUE,
			table_number TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			language TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			total_amount NUMERIC(10,2) NOT NULL,
			service_charge NUMERIC(10,2) NOT NULL DEFAULT 0,
			status SMALLINT NOT NULL DEFAULT 0,
			qr_code BYTEA,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id INT NOT NULL REFERENCES menu_items(id),
			menu_item_name TEXT NOT NULL,
			menu_item_description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL,
			quantity INT NOT NULL CHECK (quantity > 0),
			special_instructions TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
