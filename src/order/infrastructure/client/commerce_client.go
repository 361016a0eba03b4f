package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
)

// CreateOrderItemRequest representa un renglón del pedido para el backend
type CreateOrderItemRequest struct {
	ProductID      string   `json:"product_id"`
	PresentationID string   `json:"presentation_id,omitempty"`
	OptionIDs      []string `json:"option_ids,omitempty"`
	Quantity       int      `json:"quantity"`
	Instructions   string   `json:"instructions,omitempty"`
}

// CreateOrderRequest representa el request de creación de pedido.
// LocalOrderID es la clave de idempotencia: el backend deduplica reenvíos
// del mismo pedido local.
type CreateOrderRequest struct {
	LocalOrderID    string                   `json:"local_order_id"`
	CustomerName    string                   `json:"customer_name"`
	CustomerPhone   string                   `json:"customer_phone"`
	Items           []CreateOrderItemRequest `json:"items"`
	DeliveryMethod  string                   `json:"delivery_method"`
	DeliveryAddress string                   `json:"delivery_address,omitempty"`
	PaymentMethod   string                   `json:"payment_method"`
	Total           string                   `json:"total"`
}

// CreateOrderResponse representa la respuesta del backend de comercio
type CreateOrderResponse struct {
	RemoteOrderID string `json:"order_id"`
	OrderNumber   string `json:"order_number"`
}

// CommerceClient cliente HTTP para crear pedidos en commerce-service vía Kong
type CommerceClient struct {
	httpClient   *http.Client
	kongURL      string
	commercePath string
}

// NewCommerceClient crea una nueva instancia del cliente
func NewCommerceClient() *CommerceClient {
	kongURL := os.Getenv("KONG_INTERNAL_URL")
	if kongURL == "" {
		kongURL = "http://kong:8000" // Default para entorno Docker
	}

	commercePath := os.Getenv("COMMERCE_SERVICE_PATH")
	if commercePath == "" {
		commercePath = "/commerce" // Default
	}

	return &CommerceClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		kongURL:      kongURL,
		commercePath: commercePath,
	}
}

// NewCommerceClientWithBaseURL crea un cliente apuntando a una URL fija (tests)
func NewCommerceClientWithBaseURL(baseURL string) *CommerceClient {
	return &CommerceClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		kongURL:      baseURL,
		commercePath: "",
	}
}

// CreateOrder envía el pedido al backend de comercio. Un 409 con body
// parseable se trata como deduplicación del backend (el pedido ya existe
// para ese local_order_id) y se devuelve como éxito.
func (c *CommerceClient) CreateOrder(ctx context.Context, tenantID string, order *entity.Order) (*CreateOrderResponse, error) {
	reqBody := toCreateOrderRequest(order)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	url := fmt.Sprintf("%s%s/api/v1/orders", c.kongURL, c.commercePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Headers obligatorios
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID)
	req.Header.Set("Idempotency-Key", order.OrderID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling commerce-service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusConflict:
		// 409 = el backend ya tenía el pedido (dedup por local_order_id)
	default:
		return nil, fmt.Errorf("commerce-service returned status %d: %s", resp.StatusCode, string(body))
	}

	var orderResp CreateOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}
	if orderResp.RemoteOrderID == "" {
		return nil, fmt.Errorf("commerce-service response missing order_id: %s", string(body))
	}

	return &orderResp, nil
}

func toCreateOrderRequest(order *entity.Order) CreateOrderRequest {
	items := make([]CreateOrderItemRequest, 0, len(order.Items))
	for _, item := range order.Items {
		optionIDs := make([]string, 0, len(item.Options))
		for _, opt := range item.Options {
			optionIDs = append(optionIDs, opt.OptionID)
		}
		items = append(items, CreateOrderItemRequest{
			ProductID:      item.ProductID,
			PresentationID: item.PresentationID,
			OptionIDs:      optionIDs,
			Quantity:       item.Quantity,
			Instructions:   item.Instructions,
		})
	}

	return CreateOrderRequest{
		LocalOrderID:    order.OrderID,
		CustomerName:    order.CustomerName,
		CustomerPhone:   order.CustomerPhone,
		Items:           items,
		DeliveryMethod:  order.DeliveryMethod,
		DeliveryAddress: order.DeliveryAddress,
		PaymentMethod:   order.PaymentMethod,
		Total:           order.Total.String(),
	}
}
