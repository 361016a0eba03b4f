package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cartEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/cart/domain/entity"
	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
	catalogPort "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/port"
	orderUseCase "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/application/usecase"
	orderEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/application/response"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/infrastructure/store"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/shared/infrastructure/metrics"
)

// ProcessInteractionUseCase orquesta una interacción completa: parsea el
// token, resuelve catálogo, muta el carrito y valida la transición de etapa.
// Las interacciones de una misma sesión se procesan de a una (lock de la
// sesión); sesiones distintas corren en paralelo.
type ProcessInteractionUseCase struct {
	sessions *store.SessionStore
	catalog  catalogPort.CatalogGateway
	submitUC *orderUseCase.SubmitOrderUseCase
}

// NewProcessInteractionUseCase crea una nueva instancia del caso de uso
func NewProcessInteractionUseCase(
	sessions *store.SessionStore,
	catalog catalogPort.CatalogGateway,
	submitUC *orderUseCase.SubmitOrderUseCase,
) *ProcessInteractionUseCase {
	return &ProcessInteractionUseCase{
		sessions: sessions,
		catalog:  catalog,
		submitUC: submitUC,
	}
}

// Execute procesa una interacción de la conversación. Los errores de
// validación no son errores de Go: vuelven como respuesta Kind=error con el
// motivo, el carrito y la etapa quedan sin cambios.
func (uc *ProcessInteractionUseCase) Execute(ctx context.Context, tenantID, sessionID, customerName, customerPhone, text string) (*response.InteractionResponse, error) {
	sess := uc.sessions.GetOrCreate(tenantID, sessionID)
	sess.Lock()
	defer sess.Unlock()
	sess.Touch()

	if customerName != "" {
		sess.CustomerName = customerName
	}
	if customerPhone != "" {
		sess.CustomerPhone = customerPhone
	}

	cmd := ParseToken(text)
	metrics.InteractionsTotal.WithLabelValues(string(cmd.Kind)).Inc()

	// Texto libre mientras se espera la dirección de entrega: es la dirección
	if cmd.Kind == CmdPassthrough && sess.AwaitingAddress {
		return uc.handleAddress(sess, strings.TrimSpace(text))
	}

	switch cmd.Kind {
	case CmdSelectCategory:
		return uc.handleSelectCategory(ctx, sess, cmd)
	case CmdDirectAdd:
		return uc.handleDirectAdd(ctx, sess, cmd)
	case CmdSelectProduct:
		return uc.handleSelectProduct(ctx, sess, cmd.ProductID)
	case CmdChooseSize:
		return uc.handleChooseSize(ctx, sess, cmd)
	case CmdToggleModifier:
		return uc.handleToggleModifier(ctx, sess, cmd)
	case CmdSetQuantity:
		return uc.handleSetQuantity(sess, cmd)
	case CmdCustomizationDone:
		return uc.handleCustomizationDone(ctx, sess)
	case CmdViewCart:
		return uc.cartSummaryResponse(sess, response.KindCartSummary, ""), nil
	case CmdCheckout:
		return uc.handleCheckout(sess)
	case CmdClearCart:
		sess.ClearCart()
		return uc.cartSummaryResponse(sess, response.KindCartSummary, "Carrito vacío"), nil
	case CmdRemoveItem:
		return uc.handleRemoveItem(sess, cmd.CartItemID)
	case CmdChooseDelivery:
		return uc.handleChooseDelivery(sess, cmd.Method)
	case CmdChoosePayment:
		return uc.handleChoosePayment(sess, cmd.Method)
	case CmdConfirm:
		return uc.handleConfirm(ctx, sess)
	case CmdCancel:
		return uc.handleCancel(sess)
	default:
		return &response.InteractionResponse{
			Kind:  response.KindPassthrough,
			Stage: string(sess.Stage),
			Text:  cmd.Raw,
		}, nil
	}
}

func (uc *ProcessInteractionUseCase) handleSelectCategory(ctx context.Context, sess *entity.Session, cmd Command) (*response.InteractionResponse, error) {
	if err := sess.Browse(); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	categories, source, err := uc.catalog.GetCategories(ctx, sess.TenantID)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}

	for i := range categories {
		if categories[i].CategoryID == cmd.CategoryID {
			return &response.InteractionResponse{
				Kind:          response.KindProductList,
				Stage:         string(sess.Stage),
				CatalogSource: string(source),
				Products:      categories[i].Products,
			}, nil
		}
	}

	// Categoría desconocida o vieja (ej: link de un menú anterior): se vuelve
	// a ofrecer el listado vigente en lugar de cortar la conversación
	return &response.InteractionResponse{
		Kind:          response.KindCategoryList,
		Stage:         string(sess.Stage),
		CatalogSource: string(source),
		Categories:    categories,
		Message:       fmt.Errorf("%w: %s", catalogEntity.ErrCategoryNotFound, cmd.CategoryID).Error(),
	}, nil
}

func (uc *ProcessInteractionUseCase) handleDirectAdd(ctx context.Context, sess *entity.Session, cmd Command) (*response.InteractionResponse, error) {
	// El identificador posicional legado se traduce a ID canónico antes de
	// tocar el carrito
	productID, err := uc.catalog.ResolveLegacyID(cmd.CategoryKey, cmd.Index)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return uc.handleSelectProduct(ctx, sess, productID)
}

func (uc *ProcessInteractionUseCase) handleSelectProduct(ctx context.Context, sess *entity.Session, productID string) (*response.InteractionResponse, error) {
	if err := sess.Browse(); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	product, source, err := uc.catalog.GetProduct(ctx, sess.TenantID, productID)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}

	if product.RequiresCustomization() {
		if _, err := sess.Cart.StartItem(product, 1); err != nil {
			return uc.errorResponse(sess, err), nil
		}
		if err := sess.ItemAdded(true); err != nil {
			sess.Cart.DiscardInProgress()
			return uc.errorResponse(sess, err), nil
		}
		return &response.InteractionResponse{
			Kind:          response.KindCustomization,
			Stage:         string(sess.Stage),
			CatalogSource: string(source),
			Product:       product,
			Item:          sess.Cart.InProgress,
		}, nil
	}

	item, err := sess.Cart.AddItem(product, 1, "", nil, "")
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}
	if err := sess.ItemAdded(false); err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return uc.itemAddedResponse(sess, item, source), nil
}

func (uc *ProcessInteractionUseCase) handleChooseSize(ctx context.Context, sess *entity.Session, cmd Command) (*response.InteractionResponse, error) {
	if sess.Stage != entity.StageCustomizing || sess.Cart.InProgress == nil {
		return uc.errorResponse(sess, entity.ErrStageMismatch), nil
	}

	product, source, err := uc.catalog.GetProduct(ctx, sess.TenantID, sess.Cart.InProgress.ProductID)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}
	if err := sess.Cart.SetPresentation(product, cmd.PresentationID); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	return &response.InteractionResponse{
		Kind:          response.KindCustomization,
		Stage:         string(sess.Stage),
		CatalogSource: string(source),
		Product:       product,
		Item:          sess.Cart.InProgress,
	}, nil
}

func (uc *ProcessInteractionUseCase) handleToggleModifier(ctx context.Context, sess *entity.Session, cmd Command) (*response.InteractionResponse, error) {
	if sess.Stage != entity.StageCustomizing || sess.Cart.InProgress == nil {
		return uc.errorResponse(sess, entity.ErrStageMismatch), nil
	}

	product, source, err := uc.catalog.GetProduct(ctx, sess.TenantID, sess.Cart.InProgress.ProductID)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}
	if err := sess.Cart.ToggleOption(product, cmd.ModifierID, cmd.OptionID); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	return &response.InteractionResponse{
		Kind:          response.KindCustomization,
		Stage:         string(sess.Stage),
		CatalogSource: string(source),
		Product:       product,
		Item:          sess.Cart.InProgress,
	}, nil
}

func (uc *ProcessInteractionUseCase) handleSetQuantity(sess *entity.Session, cmd Command) (*response.InteractionResponse, error) {
	if sess.Stage != entity.StageCustomizing || sess.Cart.InProgress == nil {
		return uc.errorResponse(sess, entity.ErrStageMismatch), nil
	}
	if err := sess.Cart.SetQuantity(cmd.Quantity); err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return &response.InteractionResponse{
		Kind:  response.KindCustomization,
		Stage: string(sess.Stage),
		Item:  sess.Cart.InProgress,
	}, nil
}

func (uc *ProcessInteractionUseCase) handleCustomizationDone(ctx context.Context, sess *entity.Session) (*response.InteractionResponse, error) {
	if sess.Stage != entity.StageCustomizing || sess.Cart.InProgress == nil {
		return uc.errorResponse(sess, entity.ErrStageMismatch), nil
	}

	product, source, err := uc.catalog.GetProduct(ctx, sess.TenantID, sess.Cart.InProgress.ProductID)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}

	item, err := sess.Cart.PromoteInProgress(product)
	if err != nil {
		// El item queda en el slot hasta que la selección obligatoria esté
		// completa; el usuario recibe la corrección específica
		return uc.errorResponse(sess, err), nil
	}
	if err := sess.CustomizationComplete(); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	return uc.itemAddedResponse(sess, item, source), nil
}

func (uc *ProcessInteractionUseCase) handleCheckout(sess *entity.Session) (*response.InteractionResponse, error) {
	if err := sess.CheckoutRequested(); err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return &response.InteractionResponse{
		Kind:  response.KindDeliveryOptions,
		Stage: string(sess.Stage),
		Cart:  uc.summaryRef(sess),
	}, nil
}

func (uc *ProcessInteractionUseCase) handleRemoveItem(sess *entity.Session, cartItemID string) (*response.InteractionResponse, error) {
	if sess.Stage != entity.StageSelecting {
		return uc.errorResponse(sess, entity.ErrStageMismatch), nil
	}
	if err := sess.Cart.RemoveItem(cartItemID); err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return uc.cartSummaryResponse(sess, response.KindCartSummary, ""), nil
}

func (uc *ProcessInteractionUseCase) handleChooseDelivery(sess *entity.Session, rawMethod string) (*response.InteractionResponse, error) {
	method, err := entity.ParseDeliveryMethod(rawMethod)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}

	err = sess.DeliveryChosen(method, "")
	if errors.Is(err, entity.ErrAddressRequired) {
		return &response.InteractionResponse{
			Kind:  response.KindAddressRequest,
			Stage: string(sess.Stage),
		}, nil
	}
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}

	return &response.InteractionResponse{
		Kind:  response.KindPaymentOptions,
		Stage: string(sess.Stage),
	}, nil
}

func (uc *ProcessInteractionUseCase) handleAddress(sess *entity.Session, address string) (*response.InteractionResponse, error) {
	if err := sess.AddressProvided(address); err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return &response.InteractionResponse{
		Kind:  response.KindPaymentOptions,
		Stage: string(sess.Stage),
	}, nil
}

func (uc *ProcessInteractionUseCase) handleChoosePayment(sess *entity.Session, rawMethod string) (*response.InteractionResponse, error) {
	method, err := entity.ParsePaymentMethod(rawMethod)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}
	if err := sess.PaymentChosen(method); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	return &response.InteractionResponse{
		Kind:  response.KindOrderPreview,
		Stage: string(sess.Stage),
		Cart:  uc.summaryRef(sess),
	}, nil
}

func (uc *ProcessInteractionUseCase) handleConfirm(ctx context.Context, sess *entity.Session) (*response.InteractionResponse, error) {
	if sess.Stage != entity.StageConfirming {
		return uc.errorResponse(sess, entity.ErrStageMismatch), nil
	}

	// El envío corre antes de la transición: si la validación del carrito
	// falla no se crea ningún pedido y la sesión sigue en Confirming
	order, err := uc.submitUC.Execute(ctx, orderUseCase.SubmitOrderInput{
		TenantID:        sess.TenantID,
		SessionID:       sess.SessionID,
		CustomerName:    sess.CustomerName,
		CustomerPhone:   sess.CustomerPhone,
		DeliveryMethod:  string(sess.DeliveryMethod),
		DeliveryAddress: sess.DeliveryAddress,
		PaymentMethod:   string(sess.Payment),
	}, sess.Cart)
	if err != nil {
		return uc.errorResponse(sess, err), nil
	}

	if err := sess.Confirmed(); err != nil {
		return uc.errorResponse(sess, err), nil
	}

	kind := response.KindOrderConfirmation
	if order.Status != orderEntity.SyncStatusSynced {
		kind = response.KindOrderProcessing
	}
	return &response.InteractionResponse{
		Kind:  kind,
		Stage: string(sess.Stage),
		Order: response.NewOrderResult(order),
	}, nil
}

func (uc *ProcessInteractionUseCase) handleCancel(sess *entity.Session) (*response.InteractionResponse, error) {
	if err := sess.Cancel(); err != nil {
		return uc.errorResponse(sess, err), nil
	}
	return &response.InteractionResponse{
		Kind:  response.KindCancelled,
		Stage: string(sess.Stage),
	}, nil
}

func (uc *ProcessInteractionUseCase) itemAddedResponse(sess *entity.Session, item *cartEntity.CartItem, source catalogEntity.CatalogSource) *response.InteractionResponse {
	return &response.InteractionResponse{
		Kind:          response.KindItemAdded,
		Stage:         string(sess.Stage),
		CatalogSource: string(source),
		Item:          item,
		Cart:          uc.summaryRef(sess),
	}
}

func (uc *ProcessInteractionUseCase) cartSummaryResponse(sess *entity.Session, kind response.ResponseKind, message string) *response.InteractionResponse {
	return &response.InteractionResponse{
		Kind:    kind,
		Stage:   string(sess.Stage),
		Message: message,
		Cart:    uc.summaryRef(sess),
	}
}

func (uc *ProcessInteractionUseCase) summaryRef(sess *entity.Session) *cartEntity.CartSummary {
	summary := sess.Cart.Summary()
	return &summary
}

// errorResponse arma la respuesta de corrección inmediata para errores de
// validación; carrito y etapa quedan como estaban
func (uc *ProcessInteractionUseCase) errorResponse(sess *entity.Session, err error) *response.InteractionResponse {
	return &response.InteractionResponse{
		Kind:    response.KindError,
		Stage:   string(sess.Stage),
		Message: err.Error(),
	}
}
