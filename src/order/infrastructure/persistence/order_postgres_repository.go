package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
)

// OrderPostgresRepository implementa OrderRepository sobre PostgreSQL.
// Es el almacenamiento de producción cuando hay DB configurada; el esquema
// es el espejo del repositorio SQLite local.
type OrderPostgresRepository struct {
	db *sql.DB
}

// NewOrderPostgresRepository crea una nueva instancia del repositorio
func NewOrderPostgresRepository(db *sql.DB) *OrderPostgresRepository {
	return &OrderPostgresRepository{
		db: db,
	}
}

// Save persiste un pedido con sus items en una transacción (aggregate atómico)
func (r *OrderPostgresRepository) Save(ctx context.Context, order *entity.Order) error {
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
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
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
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
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

// FindByID busca un pedido con sus items por su ID
func (r *OrderPostgresRepository) FindByID(ctx context.Context, orderID, tenantID string) (*entity.Order, error) {
	query := `
		SELECT order_id, tenant_id, session_id, customer_name, customer_phone,
		       delivery_method, delivery_address, payment_method,
		       subtotal, total, status, remote_order_id, remote_order_number, created_at
		FROM orders
		WHERE order_id = $1 AND tenant_id = $2
	`
	order, err := scanPostgresOrder(r.db.QueryRowContext(ctx, query, orderID, tenantID))
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
func (r *OrderPostgresRepository) List(ctx context.Context, tenantID string, page, pageSize int) ([]*entity.Order, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting orders: %w", err)
	}

	query := `
		SELECT order_id, tenant_id, session_id, customer_name, customer_phone,
		       delivery_method, delivery_address, payment_method,
		       subtotal, total, status, remote_order_id, remote_order_number, created_at
		FROM orders
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
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

// UpdateSyncStatus actualiza estado y IDs remotos de un pedido
func (r *OrderPostgresRepository) UpdateSyncStatus(ctx context.Context, orderID string, status entity.SyncStatus, remoteOrderID, remoteOrderNumber string) error {
	query := `
		UPDATE orders
		SET status = $1, remote_order_id = $2, remote_order_number = $3
		WHERE order_id = $4
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

// FindPending devuelve pedidos en sync-pending para resincronización
func (r *OrderPostgresRepository) FindPending(ctx context.Context, limit int) ([]*entity.Order, error) {
	if limit < 1 {
		limit = 50
	}
	query := `
		SELECT order_id, tenant_id, session_id, customer_name, customer_phone,
		       delivery_method, delivery_address, payment_method,
		       subtotal, total, status, remote_order_id, remote_order_number, created_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, string(entity.SyncStatusPending), limit)
	if err != nil {
		return nil, fmt.Errorf("error finding pending orders: %w", err)
	}
	defer rows.Close()

	return r.collectOrders(ctx, rows)
}

func scanPostgresOrder(row rowScanner) (*entity.Order, error) {
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

func (r *OrderPostgresRepository) collectOrders(ctx context.Context, rows *sql.Rows) ([]*entity.Order, error) {
	var orders []*entity.Order
	for rows.Next() {
		order, err := scanPostgresOrder(rows)
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

func (r *OrderPostgresRepository) loadItems(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT item_id, order_id, product_id, product_name,
		       presentation_id, presentation_name, options,
		       quantity, unit_price, subtotal, instructions
		FROM order_items
		WHERE order_id = $1
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
