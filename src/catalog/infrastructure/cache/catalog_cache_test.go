package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

func TestCatalogCache_SetAndGet(t *testing.T) {
	c := NewCatalogCache(15 * time.Minute)
	categories := []entity.Category{{CategoryID: "cat-1", Name: "Pizzas"}}

	c.SetCategories("tenant-1", categories)

	got, ok := c.GetCategories("tenant-1")
	require.True(t, ok)
	assert.Equal(t, "cat-1", got[0].CategoryID)

	_, ok = c.GetCategories("tenant-2")
	assert.False(t, ok, "los tenants no comparten entradas")
}

func TestCatalogCache_Expiration(t *testing.T) {
	c := NewCatalogCache(10 * time.Millisecond)
	c.SetCategories("tenant-1", []entity.Category{{CategoryID: "cat-1"}})
	c.SetProduct("tenant-1", entity.Product{ProductID: "prod-1", BasePrice: decimal.Zero})

	time.Sleep(20 * time.Millisecond)

	_, ok := c.GetCategories("tenant-1")
	assert.False(t, ok)
	_, ok = c.GetProduct("tenant-1", "prod-1")
	assert.False(t, ok)
}

func TestCatalogCache_ProductIsolatedByTenant(t *testing.T) {
	c := NewCatalogCache(15 * time.Minute)
	c.SetProduct("tenant-1", entity.Product{ProductID: "prod-1", Name: "Pizza"})

	got, ok := c.GetProduct("tenant-1", "prod-1")
	require.True(t, ok)
	assert.Equal(t, "Pizza", got.Name)

	_, ok = c.GetProduct("tenant-2", "prod-1")
	assert.False(t, ok)
}

func TestCatalogCache_GetProductReturnsCopy(t *testing.T) {
	c := NewCatalogCache(15 * time.Minute)
	c.SetProduct("tenant-1", entity.Product{ProductID: "prod-1", Name: "Pizza"})

	first, ok := c.GetProduct("tenant-1", "prod-1")
	require.True(t, ok)
	first.Name = "Mutada"

	second, ok := c.GetProduct("tenant-1", "prod-1")
	require.True(t, ok)
	assert.Equal(t, "Pizza", second.Name, "mutar el resultado no toca la entrada cacheada")
}

func TestCatalogCache_PurgeExpired(t *testing.T) {
	c := NewCatalogCache(10 * time.Millisecond)
	c.SetCategories("tenant-1", []entity.Category{{CategoryID: "cat-1"}})
	c.SetProduct("tenant-1", entity.Product{ProductID: "prod-1"})

	time.Sleep(20 * time.Millisecond)
	c.SetProduct("tenant-1", entity.Product{ProductID: "prod-2"})

	purged := c.PurgeExpired()

	assert.Equal(t, 2, purged)
	_, ok := c.GetProduct("tenant-1", "prod-2")
	assert.True(t, ok, "las entradas vigentes sobreviven la purga")
}
