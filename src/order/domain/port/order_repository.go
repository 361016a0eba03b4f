package port

import (
	"context"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
)

// OrderRepository define la persistencia durable local de pedidos.
// El Save local debe completarse antes de cualquier llamada remota.
type OrderRepository interface {
	Save(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, orderID, tenantID string) (*entity.Order, error)
	List(ctx context.Context, tenantID string, page, pageSize int) ([]*entity.Order, int, error)
	UpdateSyncStatus(ctx context.Context, orderID string, status entity.SyncStatus, remoteOrderID, remoteOrderNumber string) error
	FindPending(ctx context.Context, limit int) ([]*entity.Order, error)
}
