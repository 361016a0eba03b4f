package usecase

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/port"
)

// ResyncOrdersUseCase job de reconciliación: barre los pedidos en
// sync-pending y reintenta el envío remoto reutilizando el ID local como
// clave de idempotencia. Es una tarea programada de primera clase, no un
// detalle: sin ella un backend caído dejaría pedidos locales sin confirmar
// para siempre.
type ResyncOrdersUseCase struct {
	orderRepo port.OrderRepository
	submitUC  *SubmitOrderUseCase
	batchSize int
}

// NewResyncOrdersUseCase crea una nueva instancia del job
func NewResyncOrdersUseCase(orderRepo port.OrderRepository, submitUC *SubmitOrderUseCase) *ResyncOrdersUseCase {
	return &ResyncOrdersUseCase{
		orderRepo: orderRepo,
		submitUC:  submitUC,
		batchSize: 50,
	}
}

// Execute resincroniza un lote de pedidos pendientes. Devuelve cuántos se
// sincronizaron. Los errores por pedido se loguean para el operador, nunca
// se le muestran al usuario final.
func (uc *ResyncOrdersUseCase) Execute(ctx context.Context) (int, error) {
	pending, err := uc.orderRepo.FindPending(ctx, uc.batchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	log.Printf("🔄 Resincronizando %d pedidos pendientes...", len(pending))

	synced := 0
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	results := make([]bool, len(pending))

	for i, order := range pending {
		i, order := i, order
		g.Go(func() error {
			if err := uc.submitUC.Resync(gctx, order); err != nil {
				log.Printf("⚠️  Pedido %s sigue pendiente: %v", order.OrderID, err)
				return nil // el lote continúa, el pedido queda para la próxima pasada
			}
			results[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, ok := range results {
		if ok {
			synced++
		}
	}

	if synced > 0 {
		log.Printf("✅ %d pedidos resincronizados", synced)
	}
	return synced, nil
}

// Run ejecuta el job en loop con el intervalo configurado hasta que el
// contexto se cancele. Pensado para correr en una goroutine desde main.
func (uc *ResyncOrdersUseCase) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Job de resincronización detenido")
			return
		case <-ticker.C:
			if _, err := uc.Execute(ctx); err != nil {
				log.Printf("⚠️  Error en job de resincronización: %v", err)
			}
		}
	}
}
