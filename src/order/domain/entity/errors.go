package entity

import "errors"

var (
	ErrTenantIDRequired      = errors.New("tenant_id is required")
	ErrCustomerNameRequired  = errors.New("customer name is required")
	ErrCustomerPhoneRequired = errors.New("customer phone is required")
	ErrOrderMustHaveItems    = errors.New("order must have at least one item")
	ErrAddressRequired       = errors.New("delivery address is required for delivery orders")
	ErrOrderNotFound         = errors.New("order not found")
	ErrAlreadySynced         = errors.New("order already synced")
	ErrInvalidStatusChange   = errors.New("invalid sync status change")
)
