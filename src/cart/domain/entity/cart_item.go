package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// CartItem representa un item del carrito. El precio unitario se recalcula
// con cada mutación vía ComputeUnitPrice, nunca queda cacheado viejo.
type CartItem struct {
	CartItemID         string              `json:"cart_item_id"`
	ProductID          string              `json:"product_id"`
	ProductName        string              `json:"product_name"`
	PresentationID     string              `json:"presentation_id,omitempty"`
	PresentationName   string              `json:"presentation_name,omitempty"`
	ModifierSelections map[string][]string `json:"modifier_selections,omitempty"`
	Quantity           int                 `json:"quantity"`
	UnitPrice          decimal.Decimal     `json:"unit_price"`
	Instructions       string              `json:"instructions,omitempty"`
}

// newCartItem crea un item con ID generado y precio calculado
func newCartItem(product *catalogEntity.Product, quantity int, presentationID string, selections map[string][]string, instructions string) (*CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if selections == nil {
		selections = make(map[string][]string)
	}

	unitPrice, err := ComputeUnitPrice(product, presentationID, selections)
	if err != nil {
		return nil, err
	}

	item := &CartItem{
		CartItemID:         uuid.New().String(),
		ProductID:          product.ProductID,
		ProductName:        product.Name,
		PresentationID:     presentationID,
		ModifierSelections: selections,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		Instructions:       instructions,
	}
	item.refreshPresentationName(product)
	return item, nil
}

// Subtotal devuelve unitario * cantidad
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsComplete indica si el item satisface los modificadores obligatorios
func (i *CartItem) IsComplete(product *catalogEntity.Product) bool {
	return ValidateRequiredModifiers(product, i.ModifierSelections) == nil
}

// reprice recalcula el precio unitario contra el producto actual
func (i *CartItem) reprice(product *catalogEntity.Product) error {
	unitPrice, err := ComputeUnitPrice(product, i.PresentationID, i.ModifierSelections)
	if err != nil {
		return err
	}
	i.UnitPrice = unitPrice
	i.refreshPresentationName(product)
	return nil
}

func (i *CartItem) refreshPresentationName(product *catalogEntity.Product) {
	i.PresentationName = ""
	if i.PresentationID != "" {
		if p, ok := product.FindPresentation(i.PresentationID); ok {
			i.PresentationName = p.Name
		}
	}
}

// toggleOption agrega o quita una opción del item, validando pertenencia
// y el máximo del grupo al agregar
func (i *CartItem) toggleOption(product *catalogEntity.Product, modifierID, optionID string) error {
	modifier, ok := product.FindModifier(modifierID)
	if !ok {
		return ErrModifierNotInProduct
	}
	if _, ok := modifier.FindOption(optionID); !ok {
		return ErrOptionNotInModifier
	}

	current := i.ModifierSelections[modifierID]
	for idx, id := range current {
		if id == optionID {
			// Ya estaba seleccionada: se quita
			i.ModifierSelections[modifierID] = append(current[:idx], current[idx+1:]...)
			if len(i.ModifierSelections[modifierID]) == 0 {
				delete(i.ModifierSelections, modifierID)
			}
			return i.reprice(product)
		}
	}

	if modifier.MaxSelections > 0 && len(current)+1 > modifier.MaxSelections {
		return ErrMaxSelectionsExceeded
	}
	i.ModifierSelections[modifierID] = append(current, optionID)
	return i.reprice(product)
}
