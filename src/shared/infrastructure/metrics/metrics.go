package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas Prometheus del servicio. Se registran en el registry global y se
// exponen en /metrics cuando PROMETHEUS_ENABLED=true.
var (
	// CatalogFallbackTotal cuenta las veces que el catálogo remoto falló y
	// se sirvió desde el catálogo local de respaldo
	CatalogFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatcommerce_catalog_fallback_total",
		Help: "Respuestas de catálogo servidas desde el fallback local",
	})

	// OrdersSubmittedTotal cuenta los pedidos confirmados y persistidos localmente
	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatcommerce_orders_submitted_total",
		Help: "Pedidos confirmados y persistidos en el almacenamiento local",
	})

	// OrdersSyncedTotal cuenta los pedidos sincronizados con el backend de comercio
	OrdersSyncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatcommerce_orders_synced_total",
		Help: "Pedidos sincronizados con el backend remoto",
	})

	// OrdersSyncPending indica cuántos pedidos esperan resincronización
	OrdersSyncPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatcommerce_orders_sync_pending",
		Help: "Pedidos pendientes de sincronización con el backend remoto",
	})

	// InteractionsTotal cuenta las interacciones procesadas por tipo de comando
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatcommerce_interactions_total",
		Help: "Interacciones procesadas, etiquetadas por tipo de comando",
	}, []string{"command"})
)
