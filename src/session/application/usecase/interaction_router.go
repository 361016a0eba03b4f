package usecase

import (
	"strconv"
	"strings"
)

// CommandKind tipo de comando reconocido en un token de interacción
type CommandKind string

const (
	CmdSelectCategory    CommandKind = "select_category"
	CmdDirectAdd         CommandKind = "direct_add"
	CmdSelectProduct     CommandKind = "select_product"
	CmdChooseSize        CommandKind = "choose_size"
	CmdToggleModifier    CommandKind = "toggle_modifier"
	CmdSetQuantity       CommandKind = "set_quantity"
	CmdCustomizationDone CommandKind = "customization_done"
	CmdViewCart          CommandKind = "view_cart"
	CmdCheckout          CommandKind = "checkout"
	CmdClearCart         CommandKind = "clear_cart"
	CmdRemoveItem        CommandKind = "remove_item"
	CmdChooseDelivery    CommandKind = "choose_delivery"
	CmdChoosePayment     CommandKind = "choose_payment"
	CmdConfirm           CommandKind = "confirm"
	CmdCancel            CommandKind = "cancel"
	// CmdPassthrough: el token no pertenece a la gramática; se devuelve a la
	// capa conversacional como texto común, no es un error
	CmdPassthrough CommandKind = "passthrough"
)

// Command comando tipado resultante de parsear un token compacto
type Command struct {
	Kind           CommandKind
	CategoryID     string
	CategoryKey    string
	Index          int
	ProductID      string
	PresentationID string
	ModifierID     string
	OptionID       string
	CartItemID     string
	Quantity       int
	Method         string
	Raw            string
}

// ParseToken traduce un token compacto a un comando tipado. El router es un
// despachador puro: no toca catálogo, precios ni estado. Tokens malformados
// de familias conocidas (ej: "add:pizzas" sin índice) también pasan como
// passthrough, igual que cualquier texto libre.
func ParseToken(raw string) Command {
	token := strings.TrimSpace(raw)

	switch token {
	case "view-cart":
		return Command{Kind: CmdViewCart, Raw: raw}
	case "checkout":
		return Command{Kind: CmdCheckout, Raw: raw}
	case "clear-cart":
		return Command{Kind: CmdClearCart, Raw: raw}
	case "done":
		return Command{Kind: CmdCustomizationDone, Raw: raw}
	case "confirm":
		return Command{Kind: CmdConfirm, Raw: raw}
	case "cancel":
		return Command{Kind: CmdCancel, Raw: raw}
	}

	prefix, rest, found := strings.Cut(token, ":")
	if !found {
		return Command{Kind: CmdPassthrough, Raw: raw}
	}

	switch prefix {
	case "category":
		if rest == "" {
			break
		}
		return Command{Kind: CmdSelectCategory, CategoryID: rest, Raw: raw}

	case "add":
		// add:<categoryKey>:<index> — identificador posicional legado
		categoryKey, indexStr, ok := strings.Cut(rest, ":")
		if !ok || categoryKey == "" {
			break
		}
		index, err := strconv.Atoi(indexStr)
		if err != nil || index < 0 {
			break
		}
		return Command{Kind: CmdDirectAdd, CategoryKey: categoryKey, Index: index, Raw: raw}

	case "product":
		if rest == "" {
			break
		}
		return Command{Kind: CmdSelectProduct, ProductID: rest, Raw: raw}

	case "size":
		if rest == "" {
			break
		}
		return Command{Kind: CmdChooseSize, PresentationID: rest, Raw: raw}

	case "mod":
		modifierID, optionID, ok := strings.Cut(rest, ":")
		if !ok || modifierID == "" || optionID == "" {
			break
		}
		return Command{Kind: CmdToggleModifier, ModifierID: modifierID, OptionID: optionID, Raw: raw}

	case "qty":
		quantity, err := strconv.Atoi(rest)
		if err != nil || quantity < 1 {
			break
		}
		return Command{Kind: CmdSetQuantity, Quantity: quantity, Raw: raw}

	case "remove":
		if rest == "" {
			break
		}
		return Command{Kind: CmdRemoveItem, CartItemID: rest, Raw: raw}

	case "delivery":
		if rest == "" {
			break
		}
		return Command{Kind: CmdChooseDelivery, Method: rest, Raw: raw}

	case "payment":
		if rest == "" {
			break
		}
		return Command{Kind: CmdChoosePayment, Method: rest, Raw: raw}
	}

	return Command{Kind: CmdPassthrough, Raw: raw}
}
