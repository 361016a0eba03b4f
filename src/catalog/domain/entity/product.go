package entity

import (
	"github.com/shopspring/decimal"
)

// CatalogSource indica de dónde salió un resultado del catálogo
type CatalogSource string

const (
	SourceRemote   CatalogSource = "remote"
	SourceFallback CatalogSource = "fallback"
)

// Category representa una categoría del catálogo
type Category struct {
	CategoryID string    `json:"category_id"`
	Name       string    `json:"name"`
	Products   []Product `json:"products"`
}

// Product representa un producto del catálogo (snapshot inmutable)
// Presentations y Modifiers vacíos significan "sin personalización",
// nunca "desconocido"
type Product struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    string          `json:"category_id"`
	BasePrice     decimal.Decimal `json:"base_price"`
	Presentations []Presentation  `json:"presentations,omitempty"`
	Modifiers     []Modifier      `json:"modifiers,omitempty"`
}

// Presentation representa una variante/tamaño con precio absoluto
// (reemplaza BasePrice, no es un delta)
type Presentation struct {
	PresentationID string          `json:"presentation_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
}

// Modifier representa un grupo de agregados opcionales con límites de selección
type Modifier struct {
	ModifierID    string           `json:"modifier_id"`
	Name          string           `json:"name"`
	MinSelections int              `json:"min_selections"`
	MaxSelections int              `json:"max_selections"`
	Options       []ModifierOption `json:"options"`
}

// ModifierOption representa un agregado seleccionable con su delta de precio
type ModifierOption struct {
	OptionID   string          `json:"option_id"`
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// RequiresCustomization indica si el producto necesita pasar por la etapa
// de personalización antes de entrar al carrito
func (p *Product) RequiresCustomization() bool {
	if len(p.Presentations) > 0 {
		return true
	}
	for _, m := range p.Modifiers {
		if m.MinSelections >= 1 {
			return true
		}
	}
	return false
}

// FindPresentation busca una presentación por ID
func (p *Product) FindPresentation(presentationID string) (*Presentation, bool) {
	for i := range p.Presentations {
		if p.Presentations[i].PresentationID == presentationID {
			return &p.Presentations[i], true
		}
	}
	return nil, false
}

// FindModifier busca un grupo de modificadores por ID
func (p *Product) FindModifier(modifierID string) (*Modifier, bool) {
	for i := range p.Modifiers {
		if p.Modifiers[i].ModifierID == modifierID {
			return &p.Modifiers[i], true
		}
	}
	return nil, false
}

// FindOption busca una opción dentro del grupo por ID
func (m *Modifier) FindOption(optionID string) (*ModifierOption, bool) {
	for i := range m.Options {
		if m.Options[i].OptionID == optionID {
			return &m.Options[i], true
		}
	}
	return nil, false
}
