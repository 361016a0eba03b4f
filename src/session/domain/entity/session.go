package entity

import (
	"fmt"
	"sync"
	"time"

	cartEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/cart/domain/entity"
)

// Session estado de una conversación (Aggregate Root): carrito, etapa del
// pedido y datos de entrega/pago. Cada sesión tiene exactamente un carrito y
// una máquina de etapas; no se comparte entre sesiones.
type Session struct {
	SessionID       string
	TenantID        string
	Stage           OrderStage
	Cart            *cartEntity.Cart
	CustomerName    string
	CustomerPhone   string
	DeliveryMethod  DeliveryMethod
	DeliveryAddress string
	AwaitingAddress bool
	Payment         PaymentMethod
	LastActivity    time.Time

	// mu serializa las interacciones de la sesión: una interacción nueva no
	// empieza a mutar carrito/etapa mientras otra está en vuelo
	mu sync.Mutex
}

// NewSession crea una sesión nueva en etapa Idle con carrito vacío
func NewSession(tenantID, sessionID string) *Session {
	return &Session{
		SessionID:    sessionID,
		TenantID:     tenantID,
		Stage:        StageIdle,
		Cart:         cartEntity.NewCart(),
		LastActivity: time.Now(),
	}
}

// Lock toma el lock de la sesión (una interacción a la vez)
func (s *Session) Lock() { s.mu.Lock() }

// Unlock libera el lock de la sesión
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch registra actividad para la ventana de expiración por inactividad
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// ExpiredSince indica si la sesión superó la ventana de inactividad
func (s *Session) ExpiredSince(ttl time.Duration) bool {
	return time.Since(s.LastActivity) > ttl
}

func (s *Session) mismatch(event string) error {
	return fmt.Errorf("%w: evento %s en etapa %s", ErrStageMismatch, event, s.Stage)
}

// Browse pasa a Selecting. Vale desde Idle, desde Selecting (sigue
// navegando) y desde los estados terminales de un pedido anterior
// (Submitted/Cancelled abren un pedido nuevo).
func (s *Session) Browse() error {
	switch s.Stage {
	case StageIdle, StageSelecting, StageSubmitted, StageCancelled:
		if s.Stage == StageSubmitted || s.Stage == StageCancelled {
			s.Cart.Clear()
			s.resetCheckoutData()
		}
		s.Stage = StageSelecting
		return nil
	default:
		return s.mismatch("browse")
	}
}

// ItemAdded registra que se agregó un item. Si el producto requiere
// personalización pasa a Customizing, si no se queda en Selecting
// acumulando items.
func (s *Session) ItemAdded(requiresCustomization bool) error {
	if s.Stage != StageSelecting {
		return s.mismatch("item_added")
	}
	if requiresCustomization {
		s.Stage = StageCustomizing
	}
	return nil
}

// CustomizationComplete vuelve de Customizing a Selecting
func (s *Session) CustomizationComplete() error {
	if s.Stage != StageCustomizing {
		return s.mismatch("customization_complete")
	}
	s.Stage = StageSelecting
	return nil
}

// CheckoutRequested pasa a DeliveryMethod si el carrito no está vacío.
// Con carrito vacío se rechaza y la sesión permanece en Selecting.
func (s *Session) CheckoutRequested() error {
	if s.Stage != StageSelecting {
		return s.mismatch("checkout")
	}
	if s.Cart.IsEmpty() {
		return ErrCartEmpty
	}
	s.Stage = StageDeliveryMethod
	return nil
}

// DeliveryChosen registra el método de entrega. Si es delivery y todavía no
// hay dirección, la máquina se queda en DeliveryMethod y señala que falta la
// dirección; la transición a PaymentMethod recién ocurre con dirección cargada.
func (s *Session) DeliveryChosen(method DeliveryMethod, address string) error {
	if s.Stage != StageDeliveryMethod {
		return s.mismatch("delivery_chosen")
	}

	if method == DeliveryMethodDelivery && address == "" {
		s.DeliveryMethod = method
		s.AwaitingAddress = true
		return ErrAddressRequired
	}

	s.DeliveryMethod = method
	s.DeliveryAddress = address
	s.AwaitingAddress = false
	s.Stage = StagePaymentMethod
	return nil
}

// AddressProvided completa la dirección pendiente y avanza a PaymentMethod
func (s *Session) AddressProvided(address string) error {
	if s.Stage != StageDeliveryMethod || !s.AwaitingAddress {
		return s.mismatch("address_provided")
	}
	if address == "" {
		return ErrAddressRequired
	}
	s.DeliveryAddress = address
	s.AwaitingAddress = false
	s.Stage = StagePaymentMethod
	return nil
}

// PaymentChosen registra el método de pago y pasa a Confirming
func (s *Session) PaymentChosen(method PaymentMethod) error {
	if s.Stage != StagePaymentMethod {
		return s.mismatch("payment_chosen")
	}
	s.Payment = method
	s.Stage = StageConfirming
	return nil
}

// Confirmed cierra el pedido: Confirming → Submitted. El carrito se vacía,
// el pedido ya quedó snapshoteado por el servicio de envío.
func (s *Session) Confirmed() error {
	if s.Stage != StageConfirming {
		return s.mismatch("confirmed")
	}
	s.Stage = StageSubmitted
	s.Cart.Clear()
	s.resetCheckoutData()
	return nil
}

// Cancel cancela explícitamente desde cualquier estado no terminal
func (s *Session) Cancel() error {
	if s.Stage == StageCancelled {
		return ErrSessionCancelled
	}
	s.Stage = StageCancelled
	s.Cart.Clear()
	s.resetCheckoutData()
	return nil
}

// ClearCart vacía el carrito. Si la sesión estaba en etapas de checkout
// vuelve a Selecting: ninguna etapa de checkout es alcanzable con carrito
// vacío.
func (s *Session) ClearCart() {
	s.Cart.Clear()
	s.resetCheckoutData()
	switch s.Stage {
	case StageCustomizing, StageDeliveryMethod, StagePaymentMethod, StageConfirming:
		s.Stage = StageSelecting
	}
}

func (s *Session) resetCheckoutData() {
	s.DeliveryMethod = ""
	s.DeliveryAddress = ""
	s.AwaitingAddress = false
	s.Payment = ""
}
