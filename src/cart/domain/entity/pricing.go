package entity

import (
	"fmt"

	"github.com/shopspring/decimal"

	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// ComputeUnitPrice calcula el precio unitario de un item a partir del
// producto, la presentación elegida (opcional) y las opciones seleccionadas.
// Es una función pura: la cantidad la aplica el caller (unitario * cantidad)
// para que sirva igual para mostrar precios y para totales.
//
// Resolución: si hay presentación, su precio absoluto reemplaza al precio
// base; luego se suman los deltas de cada opción seleccionada. Seleccionar
// una opción que no pertenece al producto, o superar MaxSelections de un
// grupo, es un error de validación, nunca se ignora en silencio.
func ComputeUnitPrice(
	product *catalogEntity.Product,
	presentationID string,
	modifierSelections map[string][]string,
) (decimal.Decimal, error) {
	unitPrice := product.BasePrice

	if presentationID != "" {
		presentation, ok := product.FindPresentation(presentationID)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrPresentationNotInProduct, presentationID)
		}
		unitPrice = presentation.Price
	}

	for modifierID, optionIDs := range modifierSelections {
		modifier, ok := product.FindModifier(modifierID)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrModifierNotInProduct, modifierID)
		}
		if modifier.MaxSelections > 0 && len(optionIDs) > modifier.MaxSelections {
			return decimal.Zero, fmt.Errorf("%w: %s admite hasta %d", ErrMaxSelectionsExceeded, modifier.Name, modifier.MaxSelections)
		}
		for _, optionID := range optionIDs {
			option, ok := modifier.FindOption(optionID)
			if !ok {
				return decimal.Zero, fmt.Errorf("%w: %s en %s", ErrOptionNotInModifier, optionID, modifierID)
			}
			unitPrice = unitPrice.Add(option.PriceDelta)
		}
	}

	return unitPrice, nil
}

// ValidateRequiredModifiers verifica que toda selección obligatoria
// (MinSelections >= 1) esté satisfecha. Un item incompleto puede existir
// transitoriamente durante la personalización pero no puede entrar al checkout.
func ValidateRequiredModifiers(product *catalogEntity.Product, modifierSelections map[string][]string) error {
	for _, modifier := range product.Modifiers {
		if modifier.MinSelections < 1 {
			continue
		}
		selected := len(modifierSelections[modifier.ModifierID])
		if selected < modifier.MinSelections {
			return fmt.Errorf("%w: %s requiere al menos %d", ErrRequiredModifierMissing, modifier.Name, modifier.MinSelections)
		}
	}
	return nil
}
