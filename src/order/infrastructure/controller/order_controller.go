package controller

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/application/usecase"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/entity"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/port"
)

// OrderController superficie de operación para pedidos: consulta y disparo
// manual de la resincronización
type OrderController struct {
	orderRepo port.OrderRepository
	resyncUC  *usecase.ResyncOrdersUseCase
}

// NewOrderController crea una nueva instancia del controlador
func NewOrderController(orderRepo port.OrderRepository, resyncUC *usecase.ResyncOrdersUseCase) *OrderController {
	return &OrderController{
		orderRepo: orderRepo,
		resyncUC:  resyncUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *OrderController) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders")
	{
		orders.GET("", c.ListOrders)
		orders.GET("/:order_id", c.GetOrder)
		orders.POST("/resync", c.ResyncOrders)
	}

	log.Println("Rutas Order disponibles:")
	log.Println("  GET    /api/v1/orders")
	log.Println("  GET    /api/v1/orders/:order_id")
	log.Println("  POST   /api/v1/orders/resync")
}

// ListOrders lista los pedidos del tenant paginados
func (c *OrderController) ListOrders(ctx *gin.Context) {
	tenantID := ctx.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-ID header is required"})
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))

	orders, total, err := c.orderRepo.List(ctx.Request.Context(), tenantID, page, pageSize)
	if err != nil {
		log.Printf("⚠️  Error listando pedidos: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetOrder devuelve un pedido con sus items
func (c *OrderController) GetOrder(ctx *gin.Context) {
	tenantID := ctx.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-ID header is required"})
		return
	}

	order, err := c.orderRepo.FindByID(ctx.Request.Context(), ctx.Param("order_id"), tenantID)
	if errors.Is(err, entity.ErrOrderNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		log.Printf("⚠️  Error buscando pedido: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// ResyncOrders dispara manualmente una pasada de resincronización (operadores)
func (c *OrderController) ResyncOrders(ctx *gin.Context) {
	synced, err := c.resyncUC.Execute(ctx.Request.Context())
	if err != nil {
		log.Printf("⚠️  Error en resincronización manual: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"synced": synced})
}
