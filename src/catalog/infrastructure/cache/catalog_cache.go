package cache

import (
	"sync"
	"time"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// CatalogCache cache en memoria con TTL para respuestas del catálogo remoto.
// Las entradas se indexan por (tenant, id de categoría/producto). Solo se
// cachean respuestas remotas exitosas, nunca resultados del fallback.
type CatalogCache struct {
	categories map[string]categoriesEntry
	products   map[string]productEntry
	ttl        time.Duration
	mu         sync.RWMutex
}

type categoriesEntry struct {
	categories []entity.Category
	expiresAt  time.Time
}

type productEntry struct {
	product   entity.Product
	expiresAt time.Time
}

// NewCatalogCache crea un nuevo cache con el TTL indicado
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		categories: make(map[string]categoriesEntry),
		products:   make(map[string]productEntry),
		ttl:        ttl,
	}
}

// GetCategories devuelve las categorías cacheadas de un tenant si no expiraron
func (c *CatalogCache) GetCategories(tenantID string) ([]entity.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.categories[tenantID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.categories, true
}

// SetCategories cachea las categorías de un tenant
func (c *CatalogCache) SetCategories(tenantID string, categories []entity.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories[tenantID] = categoriesEntry{
		categories: categories,
		expiresAt:  time.Now().Add(c.ttl),
	}
}

// GetProduct devuelve un producto cacheado si no expiró
func (c *CatalogCache) GetProduct(tenantID, productID string) (*entity.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.products[productKey(tenantID, productID)]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	product := entry.product
	return &product, true
}

// SetProduct cachea un producto
func (c *CatalogCache) SetProduct(tenantID string, product entity.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products[productKey(tenantID, product.ProductID)] = productEntry{
		product:   product,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// PurgeExpired elimina las entradas vencidas y devuelve cuántas se borraron
func (c *CatalogCache) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	purged := 0
	for key, entry := range c.categories {
		if now.After(entry.expiresAt) {
			delete(c.categories, key)
			purged++
		}
	}
	for key, entry := range c.products {
		if now.After(entry.expiresAt) {
			delete(c.products, key)
			purged++
		}
	}
	return purged
}

func productKey(tenantID, productID string) string {
	return tenantID + ":" + productID
}
