package fallback

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// StaticCatalog catálogo local de respaldo. Se usa cuando catalog-service
// no responde, para que la conversación nunca se quede sin menú.
type StaticCatalog struct {
	categories []entity.Category
}

// NewStaticCatalog crea el catálogo de respaldo con el menú compilado
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		categories: defaultCategories(),
	}
}

// Categories devuelve todas las categorías del catálogo de respaldo
func (s *StaticCatalog) Categories() []entity.Category {
	return s.categories
}

// FindProduct busca un producto por ID en el catálogo de respaldo
func (s *StaticCatalog) FindProduct(productID string) (*entity.Product, bool) {
	for i := range s.categories {
		for j := range s.categories[i].Products {
			if s.categories[i].Products[j].ProductID == productID {
				return &s.categories[i].Products[j], true
			}
		}
	}
	return nil, false
}

// Search busca productos por término (case-insensitive, por nombre)
func (s *StaticCatalog) Search(term string) []entity.Product {
	needle := strings.ToLower(strings.TrimSpace(term))
	var results []entity.Product
	if needle == "" {
		return results
	}
	for i := range s.categories {
		for _, p := range s.categories[i].Products {
			if strings.Contains(strings.ToLower(p.Name), needle) ||
				strings.Contains(strings.ToLower(p.Description), needle) {
				results = append(results, p)
			}
		}
	}
	return results
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// defaultCategories arma el menú de respaldo. Los IDs coinciden con los del
// catálogo remoto para que el cache y los pedidos sean consistentes entre
// fuentes.
func defaultCategories() []entity.Category {
	return []entity.Category{
		{
			CategoryID: "cat-pizzas",
			Name:       "Pizzas",
			Products: []entity.Product{
				{
					ProductID:  "prod-pizza-muzzarella",
					Name:       "Pizza Muzzarella",
					CategoryID: "cat-pizzas",
					BasePrice:  price("12.99"),
					Presentations: []entity.Presentation{
						{PresentationID: "pres-pizza-chica", Name: "Chica", Price: price("12.99")},
						{PresentationID: "pres-pizza-mediana", Name: "Mediana", Price: price("14.50")},
						{PresentationID: "pres-pizza-grande", Name: "Grande", Price: price("15.99")},
					},
					Modifiers: []entity.Modifier{
						{
							ModifierID:    "mod-pizza-extras",
							Name:          "Extras",
							MinSelections: 0,
							MaxSelections: 3,
							Options: []entity.ModifierOption{
								{OptionID: "opt-queso-extra", Name: "Queso extra", PriceDelta: price("2.00")},
								{OptionID: "opt-jamon", Name: "Jamón", PriceDelta: price("1.50")},
								{OptionID: "opt-aceitunas", Name: "Aceitunas", PriceDelta: price("1.00")},
							},
						},
					},
				},
				{
					ProductID:  "prod-pizza-napolitana",
					Name:       "Pizza Napolitana",
					CategoryID: "cat-pizzas",
					BasePrice:  price("14.99"),
					Presentations: []entity.Presentation{
						{PresentationID: "pres-napo-mediana", Name: "Mediana", Price: price("14.99")},
						{PresentationID: "pres-napo-grande", Name: "Grande", Price: price("17.50")},
					},
				},
			},
		},
		{
			CategoryID: "cat-hamburguesas",
			Name:       "Hamburguesas",
			Products: []entity.Product{
				{
					ProductID:  "prod-burger-clasica",
					Name:       "Hamburguesa Clásica",
					CategoryID: "cat-hamburguesas",
					BasePrice:  price("9.50"),
					Modifiers: []entity.Modifier{
						{
							ModifierID:    "mod-burger-punto",
							Name:          "Punto de cocción",
							MinSelections: 1,
							MaxSelections: 1,
							Options: []entity.ModifierOption{
								{OptionID: "opt-punto-jugoso", Name: "Jugoso", PriceDelta: price("0.00")},
								{OptionID: "opt-punto-cocido", Name: "Bien cocido", PriceDelta: price("0.00")},
							},
						},
						{
							ModifierID:    "mod-burger-extras",
							Name:          "Extras",
							MinSelections: 0,
							MaxSelections: 4,
							Options: []entity.ModifierOption{
								{OptionID: "opt-bacon", Name: "Bacon", PriceDelta: price("1.75")},
								{OptionID: "opt-cheddar", Name: "Cheddar", PriceDelta: price("1.25")},
								{OptionID: "opt-huevo", Name: "Huevo frito", PriceDelta: price("1.00")},
							},
						},
					},
				},
			},
		},
		{
			CategoryID: "cat-bebidas",
			Name:       "Bebidas",
			Products: []entity.Product{
				{
					ProductID:  "prod-gaseosa-cola",
					Name:       "Gaseosa Cola",
					CategoryID: "cat-bebidas",
					BasePrice:  price("2.50"),
					Presentations: []entity.Presentation{
						{PresentationID: "pres-cola-500", Name: "500ml", Price: price("2.50")},
						{PresentationID: "pres-cola-15", Name: "1.5L", Price: price("4.00")},
					},
				},
				{
					ProductID:  "prod-agua-mineral",
					Name:       "Agua Mineral",
					CategoryID: "cat-bebidas",
					BasePrice:  price("1.80"),
				},
			},
		},
	}
}
