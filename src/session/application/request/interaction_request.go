package request

// InteractionRequest interacción entrante desde la capa de transporte.
// El texto es el token compacto (o texto libre) tal cual llegó del canal;
// nombre y teléfono vienen del perfil del canal de mensajería.
type InteractionRequest struct {
	SessionID     string `json:"session_id" binding:"required"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Text          string `json:"text" binding:"required"`
}
