package entity

import "errors"

var (
	ErrInvalidQuantity          = errors.New("quantity must be greater than 0")
	ErrPresentationNotInProduct = errors.New("presentation does not belong to product")
	ErrModifierNotInProduct     = errors.New("modifier does not belong to product")
	ErrOptionNotInModifier      = errors.New("option does not belong to modifier")
	ErrMaxSelectionsExceeded    = errors.New("modifier max selections exceeded")
	ErrRequiredModifierMissing  = errors.New("required modifier selection missing")
	ErrCartItemNotFound         = errors.New("cart item not found")
	ErrNoItemInProgress         = errors.New("no item in progress")
	ErrItemInProgressExists     = errors.New("another item is already in progress")
	ErrProductMismatch          = errors.New("product does not match cart item")
)
