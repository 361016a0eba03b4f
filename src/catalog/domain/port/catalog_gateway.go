package port

import (
	"context"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/domain/entity"
)

// CatalogGateway define el acceso al catálogo (remoto con fallback local).
// Cada método anota la fuente del resultado para observabilidad.
type CatalogGateway interface {
	GetCategories(ctx context.Context, tenantID string) ([]entity.Category, entity.CatalogSource, error)
	GetProduct(ctx context.Context, tenantID, productID string) (*entity.Product, entity.CatalogSource, error)
	Search(ctx context.Context, tenantID, term string) ([]entity.Product, entity.CatalogSource, error)
	ResolveLegacyID(categoryKey string, index int) (string, error)
}
