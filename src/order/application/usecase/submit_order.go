package usecase

import (
	"context"
	"fmt"
	"log"

	cartEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/cart/domain/entity"
	catalogPort "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/port"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/port"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/infrastructure/client"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/shared/infrastructure/metrics"
)

// RemoteCommerce define lo que el caso de uso necesita del backend de comercio
type RemoteCommerce interface {
	CreateOrder(ctx context.Context, tenantID string, order *entity.Order) (*client.CreateOrderResponse, error)
}

// SubmitOrderInput datos de checkout para convertir un carrito en pedido
type SubmitOrderInput struct {
	TenantID        string
	SessionID       string
	CustomerName    string
	CustomerPhone   string
	DeliveryMethod  string
	DeliveryAddress string
	PaymentMethod   string
}

// SubmitOrderUseCase convierte un carrito finalizado en un pedido con
// escritura dual: primero el registro durable local, después el backend
// remoto. El pedido nunca se pierde: si el remoto no responde queda en
// sync-pending y lo levanta el job de resincronización.
//
// Pasos, cada uno reintentable por separado:
//  1. Validar que el carrito esté completo (precios autoritativos recalculados
//     contra el catálogo) — si falla no se crea ningún pedido parcial
//  2. Armar el snapshot inmutable con ID local y estado local-only
//  3. Persistir el snapshot localmente ANTES de cualquier llamada remota;
//     si esta escritura falla, falla el envío completo
//  4. Intentar el envío remoto con reintentos acotados; éxito → synced,
//     reintentos agotados → sync-pending + resincronización en background
type SubmitOrderUseCase struct {
	orderRepo port.OrderRepository
	commerce  RemoteCommerce
	catalog   catalogPort.CatalogGateway
	retryCfg  RetryConfig
}

// NewSubmitOrderUseCase crea una nueva instancia del caso de uso
func NewSubmitOrderUseCase(
	orderRepo port.OrderRepository,
	commerce RemoteCommerce,
	catalog catalogPort.CatalogGateway,
	retryCfg RetryConfig,
) *SubmitOrderUseCase {
	return &SubmitOrderUseCase{
		orderRepo: orderRepo,
		commerce:  commerce,
		catalog:   catalog,
		retryCfg:  retryCfg,
	}
}

// Execute ejecuta el envío del pedido. Devuelve el pedido persistido, con
// estado synced o sync-pending según haya respondido el backend remoto.
func (uc *SubmitOrderUseCase) Execute(ctx context.Context, input SubmitOrderInput, cart *cartEntity.Cart) (*entity.Order, error) {
	// ========================================================================
	// PASO 1: Validar el carrito completo y recalcular precios autoritativos
	// ========================================================================
	if cart.IsEmpty() {
		return nil, fmt.Errorf("cannot submit order: %w", entity.ErrOrderMustHaveItems)
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for i := range cart.Items {
		item, err := uc.buildOrderItem(ctx, input.TenantID, &cart.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	// ========================================================================
	// PASO 2: Snapshot inmutable con ID local, estado local-only
	// ========================================================================
	order, err := entity.NewOrder(
		input.TenantID,
		input.SessionID,
		input.CustomerName,
		input.CustomerPhone,
		input.DeliveryMethod,
		input.DeliveryAddress,
		input.PaymentMethod,
		items,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating order entity: %w", err)
	}

	// ========================================================================
	// PASO 3: Escritura durable local ANTES de tocar el backend remoto
	// ========================================================================
	if err := uc.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("error saving order locally: %w", err)
	}
	metrics.OrdersSubmittedTotal.Inc()

	// A partir de acá el envío siempre completa al menos hasta local-only:
	// la pata remota se reintenta o se abandona, nunca tumba el pedido
	uc.syncRemote(ctx, order)

	return order, nil
}

// Resync reintenta la sincronización remota de un pedido ya persistido.
// Reenviar un pedido synced es un no-op; un sync-pending reutiliza el mismo
// ID local como clave de idempotencia para que el backend deduplique.
func (uc *SubmitOrderUseCase) Resync(ctx context.Context, order *entity.Order) error {
	if order.Status == entity.SyncStatusSynced {
		return nil
	}

	resp, err := uc.commerce.CreateOrder(ctx, order.TenantID, order)
	if err != nil {
		return fmt.Errorf("error resyncing order %s: %w", order.OrderID, err)
	}

	if err := order.MarkSynced(resp.RemoteOrderID, resp.OrderNumber); err != nil {
		return err
	}
	if err := uc.orderRepo.UpdateSyncStatus(ctx, order.OrderID, entity.SyncStatusSynced, resp.RemoteOrderID, resp.OrderNumber); err != nil {
		return fmt.Errorf("error persisting sync status for %s: %w", order.OrderID, err)
	}
	metrics.OrdersSyncedTotal.Inc()
	metrics.OrdersSyncPending.Dec()
	return nil
}

// syncRemote intenta el envío remoto con backoff. Los errores remotos no se
// propagan al usuario: el pedido queda sync-pending y se resincroniza después.
func (uc *SubmitOrderUseCase) syncRemote(ctx context.Context, order *entity.Order) {
	resp, err := retryWithBackoff(ctx, uc.retryCfg, func() (*client.CreateOrderResponse, error) {
		return uc.commerce.CreateOrder(ctx, order.TenantID, order)
	})
	if err != nil {
		log.Printf("⚠️  Backend de comercio no disponible para pedido %s, queda sync-pending: %v", order.OrderID, err)
		_ = order.MarkSyncPending()
		if updErr := uc.orderRepo.UpdateSyncStatus(ctx, order.OrderID, entity.SyncStatusPending, "", ""); updErr != nil {
			// CRÍTICO: el pedido sigue durable como local-only, el job de
			// resincronización también levanta ese estado
			log.Printf("🚨 No se pudo marcar sync-pending el pedido %s: %v", order.OrderID, updErr)
		}
		metrics.OrdersSyncPending.Inc()
		return
	}

	if err := order.MarkSynced(resp.RemoteOrderID, resp.OrderNumber); err != nil {
		log.Printf("🚨 Estado inconsistente al marcar synced el pedido %s: %v", order.OrderID, err)
		return
	}
	if err := uc.orderRepo.UpdateSyncStatus(ctx, order.OrderID, entity.SyncStatusSynced, resp.RemoteOrderID, resp.OrderNumber); err != nil {
		log.Printf("🚨 No se pudo persistir el estado synced del pedido %s: %v", order.OrderID, err)
		return
	}
	metrics.OrdersSyncedTotal.Inc()
}

// buildOrderItem valida un item del carrito contra el catálogo vigente y
// arma su snapshot con precio recalculado
func (uc *SubmitOrderUseCase) buildOrderItem(ctx context.Context, tenantID string, cartItem *cartEntity.CartItem) (*entity.OrderItem, error) {
	product, _, err := uc.catalog.GetProduct(ctx, tenantID, cartItem.ProductID)
	if err != nil {
		return nil, fmt.Errorf("error resolving product %s: %w", cartItem.ProductID, err)
	}

	// Ningún item con modificadores obligatorios sin satisfacer entra al pedido
	if err := cartEntity.ValidateRequiredModifiers(product, cartItem.ModifierSelections); err != nil {
		return nil, fmt.Errorf("item %s incompleto: %w", cartItem.ProductName, err)
	}

	unitPrice, err := cartEntity.ComputeUnitPrice(product, cartItem.PresentationID, cartItem.ModifierSelections)
	if err != nil {
		return nil, fmt.Errorf("error pricing item %s: %w", cartItem.ProductName, err)
	}

	presentationName := ""
	if cartItem.PresentationID != "" {
		if p, ok := product.FindPresentation(cartItem.PresentationID); ok {
			presentationName = p.Name
		}
	}

	var options []entity.OrderItemOption
	for modifierID, optionIDs := range cartItem.ModifierSelections {
		modifier, ok := product.FindModifier(modifierID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", cartEntity.ErrModifierNotInProduct, modifierID)
		}
		for _, optionID := range optionIDs {
			option, ok := modifier.FindOption(optionID)
			if !ok {
				return nil, fmt.Errorf("%w: %s", cartEntity.ErrOptionNotInModifier, optionID)
			}
			options = append(options, entity.OrderItemOption{
				ModifierID: modifierID,
				OptionID:   optionID,
				Name:       option.Name,
				PriceDelta: option.PriceDelta,
			})
		}
	}

	return &entity.OrderItem{
		ProductID:        product.ProductID,
		ProductName:      product.Name,
		PresentationID:   cartItem.PresentationID,
		PresentationName: presentationName,
		Options:          options,
		Quantity:         cartItem.Quantity,
		UnitPrice:        unitPrice,
		Instructions:     cartItem.Instructions,
	}, nil
}
