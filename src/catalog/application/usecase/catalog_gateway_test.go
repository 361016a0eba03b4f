package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/cache"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/fallback"
)

// fakeRemote implementa RemoteCatalog para los tests; cuenta las llamadas
// para verificar el comportamiento del cache
type fakeRemote struct {
	categories     []entity.Category
	err            error
	categoryCalls  int
	productCalls   int
	searchCalls    int
}

func (f *fakeRemote) FetchCategories(ctx context.Context, tenantID string) ([]entity.Category, error) {
	f.categoryCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeRemote) FetchProduct(ctx context.Context, tenantID, productID string) (*entity.Product, error) {
	f.productCalls++
	if f.err != nil {
		return nil, f.err
	}
	for _, cat := range f.categories {
		for i := range cat.Products {
			if cat.Products[i].ProductID == productID {
				return &cat.Products[i], nil
			}
		}
	}
	return nil, entity.ErrProductNotFound
}

func (f *fakeRemote) SearchProducts(ctx context.Context, tenantID, term string) ([]entity.Product, error) {
	f.searchCalls++
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func remoteCategories() []entity.Category {
	return []entity.Category{
		{
			CategoryID: "cat-remote-1",
			Name:       "Promos",
			Products: []entity.Product{
				{ProductID: "prod-promo-1", Name: "Promo del día", CategoryID: "cat-remote-1", BasePrice: decimal.RequireFromString("20.00")},
			},
		},
	}
}

func newGateway(remote RemoteCatalog) *CatalogGatewayUseCase {
	legacy, _ := fallback.LoadLegacyMapping("")
	return NewCatalogGatewayUseCase(
		remote,
		cache.NewCatalogCache(15*time.Minute),
		fallback.NewStaticCatalog(),
		legacy,
	)
}

func TestGateway_RemoteAvailable(t *testing.T) {
	remote := &fakeRemote{categories: remoteCategories()}
	gw := newGateway(remote)

	categories, source, err := gw.GetCategories(context.Background(), "tenant-1")

	require.NoError(t, err)
	assert.Equal(t, entity.SourceRemote, source)
	require.Len(t, categories, 1)
	assert.Equal(t, "cat-remote-1", categories[0].CategoryID)
}

func TestGateway_CategoriesServedFromCache(t *testing.T) {
	remote := &fakeRemote{categories: remoteCategories()}
	gw := newGateway(remote)

	_, _, err := gw.GetCategories(context.Background(), "tenant-1")
	require.NoError(t, err)
	_, _, err = gw.GetCategories(context.Background(), "tenant-1")
	require.NoError(t, err)

	assert.Equal(t, 1, remote.categoryCalls, "la segunda lectura sale del cache")
}

func TestGateway_CategoriesPopulateProductCache(t *testing.T) {
	remote := &fakeRemote{categories: remoteCategories()}
	gw := newGateway(remote)

	_, _, err := gw.GetCategories(context.Background(), "tenant-1")
	require.NoError(t, err)

	product, source, err := gw.GetProduct(context.Background(), "tenant-1", "prod-promo-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SourceRemote, source)
	assert.Equal(t, "Promo del día", product.Name)
	assert.Equal(t, 0, remote.productCalls, "el producto ya estaba cacheado por la lectura de categorías")
}

func TestGateway_RemoteDownFallsBackToStatic(t *testing.T) {
	remote := &fakeRemote{err: errors.New("connection refused")}
	gw := newGateway(remote)

	categories, source, err := gw.GetCategories(context.Background(), "tenant-1")

	require.NoError(t, err, "el remoto caído no es un error para el usuario")
	assert.Equal(t, entity.SourceFallback, source)
	assert.NotEmpty(t, categories, "el catálogo de respaldo siempre tiene contenido")
}

func TestGateway_FallbackProductIsOrderable(t *testing.T) {
	remote := &fakeRemote{err: errors.New("timeout")}
	gw := newGateway(remote)

	product, source, err := gw.GetProduct(context.Background(), "tenant-1", "prod-pizza-muzzarella")

	require.NoError(t, err)
	assert.Equal(t, entity.SourceFallback, source)
	assert.True(t, product.BasePrice.GreaterThan(decimal.Zero), "los items de respaldo tienen precio y se pueden pedir")
}

func TestGateway_FallbackProductNotFound(t *testing.T) {
	remote := &fakeRemote{err: errors.New("timeout")}
	gw := newGateway(remote)

	_, source, err := gw.GetProduct(context.Background(), "tenant-1", "prod-inexistente")

	assert.ErrorIs(t, err, entity.ErrProductNotFound)
	assert.Equal(t, entity.SourceFallback, source)
}

func TestGateway_SearchFallsBack(t *testing.T) {
	remote := &fakeRemote{err: errors.New("503")}
	gw := newGateway(remote)

	products, source, err := gw.Search(context.Background(), "tenant-1", "pizza")

	require.NoError(t, err)
	assert.Equal(t, entity.SourceFallback, source)
	assert.NotEmpty(t, products)
}

func TestGateway_ResolveLegacyID(t *testing.T) {
	gw := newGateway(&fakeRemote{})

	productID, err := gw.ResolveLegacyID("pizzas", 0)
	require.NoError(t, err)
	assert.Equal(t, "prod-pizza-muzzarella", productID)

	_, err = gw.ResolveLegacyID("pizzas", 99)
	assert.ErrorIs(t, err, entity.ErrLegacyIDNotFound)
}
