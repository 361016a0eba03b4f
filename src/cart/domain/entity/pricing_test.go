package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogEntity "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

func pizzaProduct() *catalogEntity.Product {
	return &catalogEntity.Product{
		ProductID:  "prod-pizza-muzzarella",
		Name:       "Pizza Muzzarella",
		CategoryID: "cat-pizzas",
		BasePrice:  decimal.RequireFromString("12.99"),
		Presentations: []catalogEntity.Presentation{
			{PresentationID: "pres-pizza-chica", Name: "Chica", Price: decimal.RequireFromString("12.99")},
			{PresentationID: "pres-pizza-mediana", Name: "Mediana", Price: decimal.RequireFromString("14.50")},
			{PresentationID: "pres-pizza-grande", Name: "Grande", Price: decimal.RequireFromString("15.99")},
		},
		Modifiers: []catalogEntity.Modifier{
			{
				ModifierID:    "mod-pizza-extras",
				Name:          "Extras",
				MinSelections: 0,
				MaxSelections: 3,
				Options: []catalogEntity.ModifierOption{
					{OptionID: "opt-queso-extra", Name: "Queso extra", PriceDelta: decimal.RequireFromString("2.00")},
					{OptionID: "opt-aceitunas", Name: "Aceitunas", PriceDelta: decimal.RequireFromString("1.50")},
					{OptionID: "opt-jamon", Name: "Jamón", PriceDelta: decimal.RequireFromString("2.50")},
					{OptionID: "opt-morron", Name: "Morrón", PriceDelta: decimal.RequireFromString("1.00")},
				},
			},
		},
	}
}

func burgerProduct() *catalogEntity.Product {
	return &catalogEntity.Product{
		ProductID:  "prod-burger-clasica",
		Name:       "Hamburguesa Clásica",
		CategoryID: "cat-burgers",
		BasePrice:  decimal.RequireFromString("9.50"),
		Modifiers: []catalogEntity.Modifier{
			{
				ModifierID:    "mod-burger-punto",
				Name:          "Punto de cocción",
				MinSelections: 1,
				MaxSelections: 1,
				Options: []catalogEntity.ModifierOption{
					{OptionID: "opt-punto-medio", Name: "A punto", PriceDelta: decimal.Zero},
					{OptionID: "opt-punto-cocido", Name: "Bien cocida", PriceDelta: decimal.Zero},
				},
			},
		},
	}
}

func TestComputeUnitPrice_BasePriceOnly(t *testing.T) {
	product := pizzaProduct()

	price, err := ComputeUnitPrice(product, "", nil)

	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("12.99")), "precio base sin presentación: %s", price)
}

func TestComputeUnitPrice_PresentationReplacesBase(t *testing.T) {
	product := pizzaProduct()

	price, err := ComputeUnitPrice(product, "pres-pizza-grande", nil)

	require.NoError(t, err)
	// La presentación es precio absoluto, no un delta sobre 12.99
	assert.True(t, price.Equal(decimal.RequireFromString("15.99")), "got %s", price)
}

func TestComputeUnitPrice_PresentationPlusOptionDelta(t *testing.T) {
	product := pizzaProduct()
	selections := map[string][]string{
		"mod-pizza-extras": {"opt-queso-extra"},
	}

	price, err := ComputeUnitPrice(product, "pres-pizza-grande", selections)

	require.NoError(t, err)
	// 15.99 + 2.00 = 17.99
	assert.True(t, price.Equal(decimal.RequireFromString("17.99")), "got %s", price)
}

func TestComputeUnitPrice_Deterministic(t *testing.T) {
	product := pizzaProduct()
	selections := map[string][]string{
		"mod-pizza-extras": {"opt-queso-extra", "opt-aceitunas"},
	}

	first, err := ComputeUnitPrice(product, "pres-pizza-mediana", selections)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := ComputeUnitPrice(product, "pres-pizza-mediana", selections)
		require.NoError(t, err)
		assert.True(t, first.Equal(again), "misma entrada debe dar mismo precio")
	}
}

func TestComputeUnitPrice_UnknownPresentation(t *testing.T) {
	product := pizzaProduct()

	_, err := ComputeUnitPrice(product, "pres-inexistente", nil)

	assert.ErrorIs(t, err, ErrPresentationNotInProduct)
}

func TestComputeUnitPrice_OptionNotInModifier(t *testing.T) {
	product := pizzaProduct()
	selections := map[string][]string{
		"mod-pizza-extras": {"opt-no-existe"},
	}

	_, err := ComputeUnitPrice(product, "", selections)

	assert.ErrorIs(t, err, ErrOptionNotInModifier)
}

func TestComputeUnitPrice_ModifierNotInProduct(t *testing.T) {
	product := pizzaProduct()
	selections := map[string][]string{
		"mod-ajeno": {"opt-cualquiera"},
	}

	_, err := ComputeUnitPrice(product, "", selections)

	assert.ErrorIs(t, err, ErrModifierNotInProduct)
}

func TestComputeUnitPrice_MaxSelectionsExceeded(t *testing.T) {
	product := pizzaProduct()
	selections := map[string][]string{
		"mod-pizza-extras": {"opt-queso-extra", "opt-aceitunas", "opt-jamon", "opt-morron"},
	}

	_, err := ComputeUnitPrice(product, "", selections)

	assert.ErrorIs(t, err, ErrMaxSelectionsExceeded)
}

func TestValidateRequiredModifiers(t *testing.T) {
	product := burgerProduct()

	err := ValidateRequiredModifiers(product, nil)
	assert.ErrorIs(t, err, ErrRequiredModifierMissing)

	err = ValidateRequiredModifiers(product, map[string][]string{
		"mod-burger-punto": {"opt-punto-medio"},
	})
	assert.NoError(t, err)
}

func TestValidateRequiredModifiers_OptionalGroupsNotRequired(t *testing.T) {
	product := pizzaProduct()

	// Extras tiene MinSelections 0: sin selecciones sigue siendo válido
	assert.NoError(t, ValidateRequiredModifiers(product, nil))
}
