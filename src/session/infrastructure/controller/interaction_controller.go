package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/application/request"
	"github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/application/usecase"
)

// InteractionController recibe las interacciones que la capa de transporte
// (webhook del canal de chat) ya verificó y tradujo a tokens
type InteractionController struct {
	processUC *usecase.ProcessInteractionUseCase
}

// NewInteractionController crea una nueva instancia del controlador
func NewInteractionController(processUC *usecase.ProcessInteractionUseCase) *InteractionController {
	return &InteractionController{
		processUC: processUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *InteractionController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/interactions", c.ProcessInteraction)

	log.Println("Rutas Interaction disponibles:")
	log.Println("  POST   /api/v1/interactions")
}

// ProcessInteraction procesa un token de interacción de una sesión.
// Los errores de validación del dominio vuelven como 200 con kind=error:
// para la conversación son respuestas normales de corrección, no fallas HTTP.
func (c *InteractionController) ProcessInteraction(ctx *gin.Context) {
	tenantID := ctx.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-ID header is required"})
		return
	}

	var req request.InteractionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := c.processUC.Execute(
		ctx.Request.Context(),
		tenantID,
		req.SessionID,
		req.CustomerName,
		req.CustomerPhone,
		req.Text,
	)
	if err != nil {
		log.Printf("⚠️  Error procesando interacción de %s: %v", req.SessionID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}
