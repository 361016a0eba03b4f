package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// CatalogCategoryResponse representa una categoría devuelta por catalog-service
type CatalogCategoryResponse struct {
	CategoryID string                   `json:"category_id"`
	Name       string                   `json:"name"`
	Products   []CatalogProductResponse `json:"products"`
}

// CatalogProductResponse representa un producto devuelto por catalog-service
// La ausencia de presentations/modifiers significa "sin variantes"/"sin
// agregados", no es un error
type CatalogProductResponse struct {
	ProductID     string                        `json:"product_id"`
	Name          string                        `json:"name"`
	Description   string                        `json:"description,omitempty"`
	CategoryID    string                        `json:"category_id"`
	BasePrice     float64                       `json:"base_price"`
	Presentations []CatalogPresentationResponse `json:"presentations,omitempty"`
	Modifiers     []CatalogModifierResponse     `json:"modifiers,omitempty"`
}

// CatalogPresentationResponse representa una variante con precio absoluto
type CatalogPresentationResponse struct {
	PresentationID string  `json:"presentation_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
}

// CatalogModifierResponse representa un grupo de agregados
type CatalogModifierResponse struct {
	ModifierID    string                  `json:"modifier_id"`
	Name          string                  `json:"name"`
	MinSelections int                     `json:"min_selections"`
	MaxSelections int                     `json:"max_selections"`
	Options       []CatalogOptionResponse `json:"options"`
}

// CatalogOptionResponse representa una opción con su delta de precio
type CatalogOptionResponse struct {
	OptionID   string  `json:"option_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// CatalogClient cliente HTTP para comunicarse con catalog-service vía Kong
type CatalogClient struct {
	httpClient  *http.Client
	kongURL     string
	catalogPath string
}

// NewCatalogClient crea una nueva instancia del cliente
func NewCatalogClient() *CatalogClient {
	kongURL := os.Getenv("KONG_INTERNAL_URL")
	if kongURL == "" {
		kongURL = "http://kong:8000" // Default para entorno Docker
	}

	catalogPath := os.Getenv("CATALOG_SERVICE_PATH")
	if catalogPath == "" {
		catalogPath = "/catalog" // Default
	}

	return &CatalogClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		kongURL:     kongURL,
		catalogPath: catalogPath,
	}
}

// NewCatalogClientWithBaseURL crea un cliente apuntando a una URL fija (tests)
func NewCatalogClientWithBaseURL(baseURL string) *CatalogClient {
	return &CatalogClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		kongURL:     baseURL,
		catalogPath: "",
	}
}

// FetchCategories obtiene todas las categorías con sus productos
// Si el decode falla a mitad de camino, la llamada completa se considera
// fallida: nunca se devuelven resultados parciales
func (c *CatalogClient) FetchCategories(ctx context.Context, tenantID string) ([]entity.Category, error) {
	reqURL := fmt.Sprintf("%s%s/api/v1/categories", c.kongURL, c.catalogPath)

	body, err := c.doGet(ctx, reqURL, tenantID)
	if err != nil {
		return nil, err
	}

	var resp []CatalogCategoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	categories := make([]entity.Category, 0, len(resp))
	for _, cat := range resp {
		categories = append(categories, toCategoryEntity(cat))
	}

	return categories, nil
}

// FetchProduct obtiene un producto por su ID de catálogo
func (c *CatalogClient) FetchProduct(ctx context.Context, tenantID, productID string) (*entity.Product, error) {
	reqURL := fmt.Sprintf("%s%s/api/v1/products/%s", c.kongURL, c.catalogPath, url.PathEscape(productID))

	body, err := c.doGet(ctx, reqURL, tenantID)
	if err != nil {
		return nil, err
	}

	var resp CatalogProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	product := toProductEntity(resp)
	return &product, nil
}

// SearchProducts busca productos por término
func (c *CatalogClient) SearchProducts(ctx context.Context, tenantID, term string) ([]entity.Product, error) {
	reqURL := fmt.Sprintf("%s%s/api/v1/products/search?q=%s", c.kongURL, c.catalogPath, url.QueryEscape(term))

	body, err := c.doGet(ctx, reqURL, tenantID)
	if err != nil {
		return nil, err
	}

	var resp []CatalogProductResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}

	products := make([]entity.Product, 0, len(resp))
	for _, p := range resp {
		products = append(products, toProductEntity(p))
	}

	return products, nil
}

// doGet ejecuta un GET con los headers obligatorios y valida el status code
func (c *CatalogClient) doGet(ctx context.Context, reqURL, tenantID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Headers obligatorios
	req.Header.Set("X-Tenant-ID", tenantID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling catalog-service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, entity.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog-service returned status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

func toCategoryEntity(c CatalogCategoryResponse) entity.Category {
	products := make([]entity.Product, 0, len(c.Products))
	for _, p := range c.Products {
		products = append(products, toProductEntity(p))
	}
	return entity.Category{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Products:   products,
	}
}

func toProductEntity(p CatalogProductResponse) entity.Product {
	presentations := make([]entity.Presentation, 0, len(p.Presentations))
	for _, pr := range p.Presentations {
		presentations = append(presentations, entity.Presentation{
			PresentationID: pr.PresentationID,
			Name:           pr.Name,
			Price:          decimal.NewFromFloat(pr.Price),
		})
	}

	modifiers := make([]entity.Modifier, 0, len(p.Modifiers))
	for _, m := range p.Modifiers {
		options := make([]entity.ModifierOption, 0, len(m.Options))
		for _, o := range m.Options {
			options = append(options, entity.ModifierOption{
				OptionID:   o.OptionID,
				Name:       o.Name,
				PriceDelta: decimal.NewFromFloat(o.PriceDelta),
			})
		}
		modifiers = append(modifiers, entity.Modifier{
			ModifierID:    m.ModifierID,
			Name:          m.Name,
			MinSelections: m.MinSelections,
			MaxSelections: m.MaxSelections,
			Options:       options,
		})
	}

	return entity.Product{
		ProductID:     p.ProductID,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		BasePrice:     decimal.NewFromFloat(p.BasePrice),
		Presentations: presentations,
		Modifiers:     modifiers,
	}
}
