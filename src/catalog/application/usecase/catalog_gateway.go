package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/cache"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/fallback"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/shared/infrastructure/metrics"
)

// RemoteCatalog define lo que el gateway necesita del cliente remoto
type RemoteCatalog interface {
	FetchCategories(ctx context.Context, tenantID string) ([]entity.Category, error)
	FetchProduct(ctx context.Context, tenantID, productID string) (*entity.Product, error)
	SearchProducts(ctx context.Context, tenantID, term string) ([]entity.Product, error)
}

// CatalogGatewayUseCase resuelve el catálogo con la cadena remoto → cache →
// fallback local. Las respuestas remotas exitosas alimentan el cache TTL;
// ante cualquier error de red/timeout/status se sirve el catálogo de
// respaldo completo, nunca una mezcla de fuentes.
type CatalogGatewayUseCase struct {
	remote RemoteCatalog
	cache  *cache.CatalogCache
	static *fallback.StaticCatalog
	legacy fallback.LegacyMapping
	group  singleflight.Group
}

// NewCatalogGatewayUseCase crea una nueva instancia del gateway
func NewCatalogGatewayUseCase(
	remote RemoteCatalog,
	catalogCache *cache.CatalogCache,
	static *fallback.StaticCatalog,
	legacy fallback.LegacyMapping,
) *CatalogGatewayUseCase {
	return &CatalogGatewayUseCase{
		remote: remote,
		cache:  catalogCache,
		static: static,
		legacy: legacy,
	}
}

// GetCategories devuelve las categorías del tenant con su fuente
func (uc *CatalogGatewayUseCase) GetCategories(ctx context.Context, tenantID string) ([]entity.Category, entity.CatalogSource, error) {
	if cached, ok := uc.cache.GetCategories(tenantID); ok {
		return cached, entity.SourceRemote, nil
	}

	// singleflight: un solo refresh por tenant aunque lleguen N sesiones a la vez
	result, err, _ := uc.group.Do("categories:"+tenantID, func() (interface{}, error) {
		categories, err := uc.remote.FetchCategories(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		uc.cache.SetCategories(tenantID, categories)
		// Las categorías traen los productos completos, aprovechamos para
		// poblar el cache por producto
		for _, cat := range categories {
			for _, p := range cat.Products {
				uc.cache.SetProduct(tenantID, p)
			}
		}
		return categories, nil
	})
	if err != nil {
		log.Printf("⚠️  Catálogo remoto no disponible (categories, tenant %s): %v", tenantID, err)
		metrics.CatalogFallbackTotal.Inc()
		return uc.static.Categories(), entity.SourceFallback, nil
	}

	return result.([]entity.Category), entity.SourceRemote, nil
}

// GetProduct devuelve un producto por su ID canónico con su fuente
func (uc *CatalogGatewayUseCase) GetProduct(ctx context.Context, tenantID, productID string) (*entity.Product, entity.CatalogSource, error) {
	if cached, ok := uc.cache.GetProduct(tenantID, productID); ok {
		return cached, entity.SourceRemote, nil
	}

	result, err, _ := uc.group.Do("product:"+tenantID+":"+productID, func() (interface{}, error) {
		product, err := uc.remote.FetchProduct(ctx, tenantID, productID)
		if err != nil {
			return nil, err
		}
		uc.cache.SetProduct(tenantID, *product)
		return product, nil
	})
	if err != nil {
		log.Printf("⚠️  Catálogo remoto no disponible (product %s, tenant %s): %v", productID, tenantID, err)
		metrics.CatalogFallbackTotal.Inc()

		product, ok := uc.static.FindProduct(productID)
		if !ok {
			return nil, entity.SourceFallback, fmt.Errorf("%w: %s", entity.ErrProductNotFound, productID)
		}
		return product, entity.SourceFallback, nil
	}

	return result.(*entity.Product), entity.SourceRemote, nil
}

// Search busca productos por término con su fuente. Los resultados de
// búsqueda no se cachean: el cache se indexa por (tenant, id), no por término
func (uc *CatalogGatewayUseCase) Search(ctx context.Context, tenantID, term string) ([]entity.Product, entity.CatalogSource, error) {
	term = strings.TrimSpace(term)

	products, err := uc.remote.SearchProducts(ctx, tenantID, term)
	if err != nil {
		log.Printf("⚠️  Catálogo remoto no disponible (search %q, tenant %s): %v", term, tenantID, err)
		metrics.CatalogFallbackTotal.Inc()
		return uc.static.Search(term), entity.SourceFallback, nil
	}

	return products, entity.SourceRemote, nil
}

// ResolveLegacyID traduce un identificador posicional legado al ID canónico
func (uc *CatalogGatewayUseCase) ResolveLegacyID(categoryKey string, index int) (string, error) {
	return uc.legacy.Resolve(categoryKey, index)
}
