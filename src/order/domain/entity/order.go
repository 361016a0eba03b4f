package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncStatus estado de sincronización de un pedido con el backend remoto
type SyncStatus string

const (
	// SyncStatusLocalOnly el pedido está persistido localmente, el envío
	// remoto todavía no se intentó
	SyncStatusLocalOnly SyncStatus = "local-only"
	// SyncStatusSynced el backend remoto confirmó el pedido
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusPending los reintentos se agotaron, queda encolado para
	// resincronización en background
	SyncStatusPending SyncStatus = "sync-pending"
)

// OrderItem snapshot por valor de un item del carrito al momento de crear el
// pedido. Mutaciones posteriores del carrito no afectan un pedido ya creado.
type OrderItem struct {
	ItemID           string            `json:"item_id"`
	OrderID          string            `json:"order_id"`
	ProductID        string            `json:"product_id"`
	ProductName      string            `json:"product_name"`
	PresentationID   string            `json:"presentation_id,omitempty"`
	PresentationName string            `json:"presentation_name,omitempty"`
	Options          []OrderItemOption `json:"options,omitempty"`
	Quantity         int               `json:"quantity"`
	UnitPrice        decimal.Decimal   `json:"unit_price"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	Instructions     string            `json:"instructions,omitempty"`
}

// OrderItemOption snapshot de una opción de modificador seleccionada
type OrderItemOption struct {
	ModifierID string          `json:"modifier_id"`
	OptionID   string          `json:"option_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// Order pedido confirmado (Aggregate Root). Write-once después de creado,
// salvo los campos de estado/IDs remotos que se actualizan exactamente una
// vez al sincronizar. El OrderID local se asigna siempre y funciona como
// clave de idempotencia ante el backend remoto.
type Order struct {
	OrderID           string          `json:"order_id"`
	TenantID          string          `json:"tenant_id"`
	SessionID         string          `json:"session_id"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	DeliveryMethod    string          `json:"delivery_method"`
	DeliveryAddress   string          `json:"delivery_address,omitempty"`
	PaymentMethod     string          `json:"payment_method"`
	Items             []OrderItem     `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	Total             decimal.Decimal `json:"total"`
	Status            SyncStatus      `json:"status"`
	RemoteOrderID     string          `json:"remote_order_id,omitempty"`
	RemoteOrderNumber string          `json:"remote_order_number,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// NewOrder crea un pedido con ID local generado y estado local-only.
// La dirección es obligatoria si y solo si el método es delivery.
func NewOrder(
	tenantID, sessionID, customerName, customerPhone string,
	deliveryMethod, deliveryAddress, paymentMethod string,
	items []OrderItem,
) (*Order, error) {
	if tenantID == "" {
		return nil, ErrTenantIDRequired
	}
	if customerName == "" {
		return nil, ErrCustomerNameRequired
	}
	if customerPhone == "" {
		return nil, ErrCustomerPhoneRequired
	}
	if len(items) == 0 {
		return nil, ErrOrderMustHaveItems
	}
	if deliveryMethod == "delivery" && deliveryAddress == "" {
		return nil, ErrAddressRequired
	}

	orderID := uuid.New().String()

	subtotal := decimal.Zero
	for i := range items {
		items[i].OrderID = orderID
		if items[i].ItemID == "" {
			items[i].ItemID = uuid.New().String()
		}
		items[i].Subtotal = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		subtotal = subtotal.Add(items[i].Subtotal)
	}

	return &Order{
		OrderID:         orderID,
		TenantID:        tenantID,
		SessionID:       sessionID,
		CustomerName:    customerName,
		CustomerPhone:   customerPhone,
		DeliveryMethod:  deliveryMethod,
		DeliveryAddress: deliveryAddress,
		PaymentMethod:   paymentMethod,
		Items:           items,
		Subtotal:        subtotal,
		Total:           subtotal,
		Status:          SyncStatusLocalOnly,
		CreatedAt:       time.Now(),
	}, nil
}

// MarkSynced registra la confirmación remota. Solo vale una vez, desde
// local-only o sync-pending.
func (o *Order) MarkSynced(remoteOrderID, remoteOrderNumber string) error {
	if o.Status == SyncStatusSynced {
		return ErrAlreadySynced
	}
	o.Status = SyncStatusSynced
	o.RemoteOrderID = remoteOrderID
	o.RemoteOrderNumber = remoteOrderNumber
	return nil
}

// MarkSyncPending deja el pedido encolado para resincronización
func (o *Order) MarkSyncPending() error {
	if o.Status == SyncStatusSynced {
		return ErrInvalidStatusChange
	}
	o.Status = SyncStatusPending
	return nil
}

// TotalItems retorna el número total de items
func (o *Order) TotalItems() int {
	return len(o.Items)
}
