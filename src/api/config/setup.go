package config

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIConfig contiene la configuración del módulo API (health y versión)
type APIConfig struct {
	DB      *sql.DB
	Version string
}

// DefaultAPIConfig devuelve una configuración por defecto
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		Version: "dev",
	}
}

// SetupAPIModule registra los endpoints de health en la raíz y bajo /api/v1
func SetupAPIModule(router *gin.Engine, v1 *gin.RouterGroup, cfg APIConfig) {
	handler := healthHandler(cfg)
	router.GET("/health", handler)
	v1.GET("/health", handler)
}

func healthHandler(cfg APIConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "disabled"
		if cfg.DB != nil {
			if err := cfg.DB.Ping(); err != nil {
				dbStatus = "down"
			} else {
				dbStatus = "up"
			}
		}

		ctx.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"version":  cfg.Version,
			"database": dbStatus,
		})
	}
}
