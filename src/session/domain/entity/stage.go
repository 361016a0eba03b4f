package entity

// OrderStage etapa del flujo de pedido de una sesión. Es la única fuente de
// verdad sobre qué entrada se espera del usuario en cada momento.
type OrderStage string

const (
	StageIdle           OrderStage = "IDLE"
	StageSelecting      OrderStage = "SELECTING"
	StageCustomizing    OrderStage = "CUSTOMIZING"
	StageDeliveryMethod OrderStage = "DELIVERY_METHOD"
	StagePaymentMethod  OrderStage = "PAYMENT_METHOD"
	StageConfirming     OrderStage = "CONFIRMING"
	StageSubmitted      OrderStage = "SUBMITTED"
	StageCancelled      OrderStage = "CANCELLED"
)

// DeliveryMethod método de entrega del pedido
type DeliveryMethod string

const (
	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDineIn   DeliveryMethod = "dinein"
)

// ParseDeliveryMethod valida y normaliza un método de entrega
func ParseDeliveryMethod(raw string) (DeliveryMethod, error) {
	switch DeliveryMethod(raw) {
	case DeliveryMethodDelivery, DeliveryMethodPickup, DeliveryMethodDineIn:
		return DeliveryMethod(raw), nil
	default:
		return "", ErrInvalidDeliveryMethod
	}
}

// PaymentMethod método de pago declarado por el cliente. No hay captura de
// pago: solo se registra y se reenvía al backend de comercio.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// ParsePaymentMethod valida y normaliza un método de pago
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(raw) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer:
		return PaymentMethod(raw), nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
