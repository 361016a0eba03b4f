package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Driver SQLite puro Go

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
)

// OrderSQLiteRepository persistencia durable local de pedidos sobre SQLite.
// Es el registro que garantiza que un pedido confirmado nunca se pierde
// aunque el backend remoto esté caído.
type OrderSQLiteRepository struct {
	db *sql.DB
}

// NewOrderSQLiteRepository abre (o crea) la base local y aplica el esquema.
// Con ":memory:" se usa una base en memoria (tests).
func NewOrderSQLiteRepository(dbPath string) (*OrderSQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening order store: %w", err)
	}

	// WAL para mejor concurrencia de lecturas; un solo writer
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	return &OrderSQLiteRepository{db: db}, nil
}

func applyMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id            TEXT PRIMARY KEY,
		tenant_id           TEXT NOT NULL,
		session_id          TEXT NOT NULL,
		customer_name       TEXT NOT NULL,
		customer_phone      TEXT NOT NULL,
		delivery_method     TEXT NOT NULL,
		delivery_address    TEXT NOT NULL DEFAULT '',
		payment_method      TEXT NOT NULL,
		subtotal            TEXT NOT NULL,
		total               TEXT NOT NULL,
		status              TEXT NOT NULL,
		remote_order_id     TEXT NOT NULL DEFAULT '',
		remote_order_number TEXT NOT NULL DEFAULT '',
		created_at          TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		item_id           TEXT PRIMARY KEY,
		order_id          TEXT NOT NULL REFERENCES orders(order_id),
		product_id        TEXT NOT NULL,
		product_name      TEXT NOT NULL,
		presentation_id   TEXT NOT NULL DEFAULT '',
		presentation_name TEXT NOT NULL DEFAULT '',
		options           TEXT NOT NULL DEFAULT '[]',
		quantity          INTEGER NOT NULL,
		unit_price        TEXT NOT NULL,
		subtotal          TEXT NOT NULL,
		instructions      TEXT NOT NULL DEFAULT '',
		position          INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_tenant ON orders(tenant_id, created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Close cierra la base de datos
func (r *OrderSQLiteRepository) Close() error {
	return r.db.Close()
}

// Save persiste el pedido con sus items en una transacción (aggregate atómico)
func (r *OrderSQLiteRepository) Save(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	queryOrder := `
		INSERT INTO orders (
			order_id, tenant_id, session_id, customer_name, customer_phone,
			delivery_method, delivery_address, payment_method,
			subtotal, total, status, remote_order_id, remote_order_number, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, queryOrder,
		order.OrderID,
		order.TenantID,
		order.SessionID,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryMethod,
		order.DeliveryAddress,
		order.PaymentMethod,
		order.Subtotal.String(),
		order.Total.String(),
		string(order.Status),
		order.RemoteOrderID,
		order.RemoteOrderNumber,
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving order: %w", err)
	}

	queryItem := `
		INSERT INTO order_items (
			item_id, order_id, product_id, product_name,
			presentation_id, presentation_name, options,
			quantity, unit_price, subtotal, instructions, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for position, item := range order.Items {
		options, err := json.Marshal(item.Options)
		if err != nil {
			return fmt.Errorf("error marshalling item options: %w", err)
		}
		_, err = tx.ExecContext(ctx, queryItem,
			item.ItemID,
			order.OrderID,
			item.ProductID,
			item.ProductName,
			item.PresentationID,
			item.PresentationName,
			string(options),
			item.Quantity,
			item.UnitPrice.String(),
			item.Subtotal.String(),
			item.Instructions,
			position,
		)
		if err != nil {
			return fmt.Errorf("error saving order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}

// FindByID busca un pedido con sus items
func (r *OrderSQLiteRepository) FindByID(ctx context.Context, orderID, tenantID string) (*entity.Order, error) {
	query := `
		SELECT order_id, tenant_id, session_id, customer_name, customer_phone,
		       delivery_method, delivery_address, payment_method,
		       subtotal, total, status, remote_order_id, remote_order_number, created_at
		FROM orders
		WHERE order_id = ? AND tenant_id = ?
	`
	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, orderID, tenantID))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, order.OrderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// List devuelve pedidos de un tenant paginados, más recientes primero
func (r *OrderSQLiteRepository) List(ctx context.Context, tenantID string, page, pageSize int) ([]*entity.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE tenant_id = ?`, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting orders: %w", err)
	}

	query := `
		SELECT order_id, tenant_id, session_id, customer_name, customer_phone,
		       delivery_method, delivery_address, payment_method,
		       subtotal, total, status, remote_order_id, remote_order_number, created_at
		FROM orders
		WHERE tenant_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, tenantID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing orders: %w", err)
	}
	defer rows.Close()

	orders, err := r.collectOrders(ctx, rows)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateSyncStatus actualiza estado y IDs remotos de un pedido. Es el único
// camino de escritura después de Save: el resto del pedido es write-once.
func (r *OrderSQLiteRepository) UpdateSyncStatus(ctx context.Context, orderID string, status entity.SyncStatus, remoteOrderID, remoteOrderNumber string) error {
	query := `
		UPDATE orders
		SET status = ?, remote_order_id = ?, remote_order_number = ?
		WHERE order_id = ?
	`
	result, err := r.db.ExecContext(ctx, query, string(status), remoteOrderID, remoteOrderNumber, orderID)
	if err != nil {
		return fmt.Errorf("error updating sync status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking update result: %w", err)
	}
	if affected == 0 {
		return entity.ErrOrderNotFound
	}
	return nil
}

// FindPending devuelve pedidos en sync-pending, más viejos primero, para el
// job de resincronización
func (r *OrderSQLiteRepository) FindPending(ctx context.Context, limit int) ([]*entity.Order, error) {
	if limit < 1 {
		limit = 50
	}
	query := `
		SELECT order_id, tenant_id, session_id, customer_name, customer_phone,
		       delivery_method, delivery_address, payment_method,
		       subtotal, total, status, remote_order_id, remote_order_number, created_at
		FROM orders
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, string(entity.SyncStatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("error finding pending orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *OrderSQLiteRepository) scanOrder(row rowScanner) (*entity.Order, error) {
	order := &entity.Order{}
	var subtotal, total, status string
	var createdAt time.Time

	err := row.Scan(
		&order.OrderID,
		&order.TenantID,
		&order.SessionID,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.DeliveryMethod,
		&order.DeliveryAddress,
		&order.PaymentMethod,
		&subtotal,
		&total,
		&status,
		&order.RemoteOrderID,
		&order.RemoteOrderNumber,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning order: %w", err)
	}

	order.Subtotal, err = decimal.NewFromString(subtotal)
	if err != nil {
		return nil, fmt.Errorf("corrupted order store, bad subtotal for %s: %w", order.OrderID, err)
	}
	order.Total, err = decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("corrupted order store, bad total for %s: %w", order.OrderID, err)
	}
	order.Status = entity.SyncStatus(status)
	order.CreatedAt = createdAt

	return order, nil
}

func (r *OrderSQLiteRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]*entity.Order, error) {
	var orders []*entity.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.OrderID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}

	return orders, nil
}

func (r *OrderSQLiteRepository) loadItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT item_id, order_id, product_id, product_name,
		       presentation_id, presentation_name, options,
		       quantity, unit_price, subtotal, instructions
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("error loading order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var item entity.OrderItem
		var options, unitPrice, subtotal string
		err := rows.Scan(
			&item.ItemID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.PresentationID,
			&item.PresentationName,
			&options,
			&item.Quantity,
			&unitPrice,
			&subtotal,
			&item.Instructions,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &item.Options); err != nil {
			return nil, fmt.Errorf("corrupted order store, bad options for item %s: %w", item.ItemID, err)
		}
		item.UnitPrice, err = decimal.NewFromString(unitPrice)
		if err != nil {
			return nil, fmt.Errorf("corrupted order store, bad unit price for item %s: %w", item.ItemID, err)
		}
		item.Subtotal, err = decimal.NewFromString(subtotal)
		if err != nil {
			return nil, fmt.Errorf("corrupted order store, bad subtotal for item %s: %w", item.ItemID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}
