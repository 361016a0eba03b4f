package entity

import "errors"

var (
	// ErrStageMismatch señala un evento que no es válido para la etapa actual.
	// La etapa queda sin cambios, nunca se corrige en silencio.
	ErrStageMismatch = errors.New("stage mismatch")

	ErrCartEmpty             = errors.New("cart is empty")
	ErrAddressRequired       = errors.New("delivery address required")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrSessionCancelled      = errors.New("session already cancelled")
)
