package response

import (
	cartEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/cart/domain/entity"
	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
	orderEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
)

// ResponseKind tipo de "pedido de presentación" abstracto que la capa de
// transporte traduce a botones/listas/carruseles del canal. El core nunca
// arma payloads de wire.
type ResponseKind string

const (
	KindCategoryList      ResponseKind = "category_list"
	KindProductList       ResponseKind = "product_list"
	KindCustomization     ResponseKind = "customization"
	KindItemAdded         ResponseKind = "item_added"
	KindCartSummary       ResponseKind = "cart_summary"
	KindDeliveryOptions   ResponseKind = "delivery_options"
	KindAddressRequest    ResponseKind = "address_request"
	KindPaymentOptions    ResponseKind = "payment_options"
	KindOrderPreview      ResponseKind = "order_preview"
	KindOrderConfirmation ResponseKind = "order_confirmation"
	// KindOrderProcessing: el pedido quedó durable local pero el backend
	// todavía no confirmó; el usuario ve "procesando" en vez de un número
	KindOrderProcessing ResponseKind = "order_processing"
	KindCancelled       ResponseKind = "cancelled"
	KindError           ResponseKind = "error"
	// KindPassthrough: el texto no es un token de la gramática, lo resuelve
	// la capa conversacional
	KindPassthrough ResponseKind = "passthrough"
)

// InteractionResponse respuesta abstracta de una interacción procesada
type InteractionResponse struct {
	Kind          ResponseKind             `json:"kind"`
	Stage         string                   `json:"stage"`
	Message       string                   `json:"message,omitempty"`
	CatalogSource string                   `json:"catalog_source,omitempty"`
	Categories    []catalogEntity.Category `json:"categories,omitempty"`
	Products      []catalogEntity.Product  `json:"products,omitempty"`
	Product       *catalogEntity.Product   `json:"product,omitempty"`
	Item          *cartEntity.CartItem     `json:"item,omitempty"`
	Cart          *cartEntity.CartSummary  `json:"cart,omitempty"`
	Order         *OrderResult             `json:"order,omitempty"`
	Text          string                   `json:"text,omitempty"`
}

// OrderResult vista del pedido para la confirmación al usuario
type OrderResult struct {
	OrderID           string `json:"order_id"`
	RemoteOrderNumber string `json:"remote_order_number,omitempty"`
	Status            string `json:"status"`
	Total             string `json:"total"`
}

// NewOrderResult arma la vista de confirmación desde la entidad
func NewOrderResult(order *orderEntity.Order) *OrderResult {
	return &OrderResult{
		OrderID:           order.OrderID,
		RemoteOrderNumber: order.RemoteOrderNumber,
		Status:            string(order.Status),
		Total:             order.Total.String(),
	}
}
