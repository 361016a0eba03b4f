package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// Cart carrito de una sesión de conversación (Aggregate Root). Mantiene los
// items confirmados en orden de inserción más un único slot para el item en
// personalización. El slot es un campo del aggregate, no una variable global:
// cada sesión tiene el suyo y no hay fugas entre sesiones.
type Cart struct {
	Items      []CartItem `json:"items"`
	InProgress *CartItem  `json:"in_progress,omitempty"`
}

// CartSummary resumen del carrito para mostrar al usuario
type CartSummary struct {
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// NewCart crea un carrito vacío
func NewCart() *Cart {
	return &Cart{}
}

// StartItem abre el slot de personalización con un item nuevo. El item puede
// estar incompleto (modificadores obligatorios sin elegir) mientras viva en
// el slot; recién al promoverlo se exige que esté completo.
func (c *Cart) StartItem(product *catalogEntity.Product, quantity int) (*CartItem, error) {
	if c.InProgress != nil {
		return nil, ErrItemInProgressExists
	}

	item, err := newCartItem(product, quantity, "", nil, "")
	if err != nil {
		return nil, err
	}
	c.InProgress = item
	return item, nil
}

// SetPresentation elige la presentación del item en personalización
func (c *Cart) SetPresentation(product *catalogEntity.Product, presentationID string) error {
	if c.InProgress == nil {
		return ErrNoItemInProgress
	}
	if c.InProgress.ProductID != product.ProductID {
		return ErrProductMismatch
	}
	if _, ok := product.FindPresentation(presentationID); !ok {
		return fmt.Errorf("%w: %s", ErrPresentationNotInProduct, presentationID)
	}
	c.InProgress.PresentationID = presentationID
	return c.InProgress.reprice(product)
}

// ToggleOption agrega o quita una opción del item en personalización
func (c *Cart) ToggleOption(product *catalogEntity.Product, modifierID, optionID string) error {
	if c.InProgress == nil {
		return ErrNoItemInProgress
	}
	if c.InProgress.ProductID != product.ProductID {
		return ErrProductMismatch
	}
	return c.InProgress.toggleOption(product, modifierID, optionID)
}

// SetQuantity cambia la cantidad del item en personalización
func (c *Cart) SetQuantity(quantity int) error {
	if c.InProgress == nil {
		return ErrNoItemInProgress
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.InProgress.Quantity = quantity
	return nil
}

// SetInstructions agrega instrucciones especiales al item en personalización
func (c *Cart) SetInstructions(instructions string) error {
	if c.InProgress == nil {
		return ErrNoItemInProgress
	}
	c.InProgress.Instructions = instructions
	return nil
}

// PromoteInProgress valida que el item del slot esté completo y lo pasa a la
// lista confirmada. Un item con modificadores obligatorios sin satisfacer no
// puede entrar al checkout.
func (c *Cart) PromoteInProgress(product *catalogEntity.Product) (*CartItem, error) {
	if c.InProgress == nil {
		return nil, ErrNoItemInProgress
	}
	if c.InProgress.ProductID != product.ProductID {
		return nil, ErrProductMismatch
	}
	if err := ValidateRequiredModifiers(product, c.InProgress.ModifierSelections); err != nil {
		return nil, err
	}
	if err := c.InProgress.reprice(product); err != nil {
		return nil, err
	}

	item := c.InProgress
	c.Items = append(c.Items, *item)
	c.InProgress = nil
	return item, nil
}

// DiscardInProgress descarta el item del slot sin confirmarlo
func (c *Cart) DiscardInProgress() {
	c.InProgress = nil
}

// AddItem agrega directamente un item completo a la lista confirmada.
// Falla si la cantidad es inválida, la configuración no valida contra el
// producto, o faltan modificadores obligatorios.
func (c *Cart) AddItem(product *catalogEntity.Product, quantity int, presentationID string, selections map[string][]string, instructions string) (*CartItem, error) {
	if err := ValidateRequiredModifiers(product, selections); err != nil {
		return nil, err
	}
	item, err := newCartItem(product, quantity, presentationID, selections, instructions)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, *item)
	return item, nil
}

// UpdateItem reconfigura un item confirmado y recalcula su precio
func (c *Cart) UpdateItem(cartItemID string, product *catalogEntity.Product, quantity int, presentationID string, selections map[string][]string, instructions string) error {
	idx := c.indexOf(cartItemID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if c.Items[idx].ProductID != product.ProductID {
		return ErrProductMismatch
	}
	if err := ValidateRequiredModifiers(product, selections); err != nil {
		return err
	}

	unitPrice, err := ComputeUnitPrice(product, presentationID, selections)
	if err != nil {
		return err
	}

	item := &c.Items[idx]
	item.Quantity = quantity
	item.PresentationID = presentationID
	item.ModifierSelections = selections
	item.Instructions = instructions
	item.UnitPrice = unitPrice
	item.refreshPresentationName(product)
	return nil
}

// RemoveItem quita un item confirmado del carrito
func (c *Cart) RemoveItem(cartItemID string) error {
	idx := c.indexOf(cartItemID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return nil
}

// Clear vacía el carrito por completo, incluido el slot en personalización
func (c *Cart) Clear() {
	c.Items = nil
	c.InProgress = nil
}

// IsEmpty indica si no hay items confirmados
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Summary arma el resumen con subtotal y cantidad de unidades. Solo cuenta
// los items confirmados, el slot en personalización no participa.
func (c *Cart) Summary() CartSummary {
	subtotal := decimal.Zero
	count := 0
	for i := range c.Items {
		subtotal = subtotal.Add(c.Items[i].Subtotal())
		count += c.Items[i].Quantity
	}
	return CartSummary{
		Items:     c.Items,
		Subtotal:  subtotal,
		ItemCount: count,
	}
}

func (c *Cart) indexOf(cartItemID string) int {
	for i := range c.Items {
		if c.Items[i].CartItemID == cartItemID {
			return i
		}
	}
	return -1
}
