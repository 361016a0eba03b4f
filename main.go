package main

import (
	"context"
	"database/sql"
	"log"

	apiConfig "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/api/config"
	catalogUseCase "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/application/usecase"
	catalogCache "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/cache"
	catalogClient "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/client"
	catalogFallback "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/catalog/infrastructure/fallback"
	orderUseCase "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/application/usecase"
	orderPort "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/domain/port"
	orderClient "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/infrastructure/client"
	orderController "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/infrastructure/controller"
	orderPersistence "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/order/infrastructure/persistence"
	sessionUseCase "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/application/usecase"
	sessionController "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/infrastructure/controller"
	sessionStore "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/session/infrastructure/store"
	sharedConfig "github.com/SergeWilfried/ava-whatsapp-agent-sub001/src/shared/infrastructure/config"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq" // Driver de PostgreSQL
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.Println("🚀 ChatCommerce Service - Iniciando...")

	cfg := sharedConfig.Load()

	// Configurar el router con Gin
	router := gin.New()

	// Agregar middlewares básicos necesarios
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	if cfg.PrometheusEnabled {
		log.Println("Registering /metrics endpoint")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	} else {
		log.Println("Prometheus metrics disabled")
	}

	// Repositorio de pedidos: Postgres si hay DB_HOST, SQLite embebido si no.
	// El servicio tiene que poder cerrar pedidos aunque no haya ninguna
	// dependencia externa viva, así que el SQLite local es el default.
	var orderRepo orderPort.OrderRepository
	var pgDB *sql.DB
	if cfg.DBHost != "" {
		connStr := cfg.PostgresConnString()
		log.Printf("Intentando conectar a %s en %s:%s", cfg.DBName, cfg.DBHost, cfg.DBPort)

		db, err := sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
		}
		if err != nil {
			log.Printf("⚠️  Advertencia: Error al conectar a la base de datos: %v", err)
			log.Println("⚠️  Usando SQLite local como almacén de pedidos")
		} else {
			log.Println("✅ Conexión a Postgres establecida con éxito")
			defer db.Close()
			pgDB = db
			orderRepo = orderPersistence.NewOrderPostgresRepository(db)
		}
	}
	if orderRepo == nil {
		sqliteRepo, err := orderPersistence.NewOrderSQLiteRepository(cfg.OrderDBPath)
		if err != nil {
			log.Fatalf("🚨 Error fatal: no se pudo abrir el almacén local de pedidos: %v", err)
		}
		defer sqliteRepo.Close()
		orderRepo = sqliteRepo
		log.Printf("✅ Almacén local de pedidos en %s", cfg.OrderDBPath)
	}

	// Mapa legacy: un archivo malformado es error fatal, un mapa viejo pero
	// consistente no lo es
	legacyMap, err := catalogFallback.LoadLegacyMapping(cfg.LegacyMapPath)
	if err != nil {
		log.Fatalf("🚨 Error fatal: mapa legacy inválido: %v", err)
	}

	// Gateway de catálogo: remoto via Kong → cache TTL → catálogo estático
	catGateway := catalogUseCase.NewCatalogGatewayUseCase(
		catalogClient.NewCatalogClient(),
		catalogCache.NewCatalogCache(cfg.CatalogCacheTTL),
		catalogFallback.NewStaticCatalog(),
		legacyMap,
	)

	// Sesiones en memoria con janitor de expiración
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := sessionStore.NewSessionStore(cfg.SessionTTL)
	go sessions.StartJanitor(ctx, cfg.JanitorInterval)

	// Envío de pedidos con doble escritura local/remota
	retryCfg := orderUseCase.RetryConfig{
		MaxAttempts: cfg.SyncMaxAttempts,
		BaseDelay:   cfg.SyncBackoffBase,
		MaxDelay:    cfg.SyncBackoffMax,
		Multiplier:  2.0,
	}
	submitUC := orderUseCase.NewSubmitOrderUseCase(orderRepo, orderClient.NewCommerceClient(), catGateway, retryCfg)

	// Resincronización periódica de pedidos sync-pending
	resyncUC := orderUseCase.NewResyncOrdersUseCase(orderRepo, submitUC)
	go resyncUC.Run(ctx, cfg.ResyncInterval)

	processUC := sessionUseCase.NewProcessInteractionUseCase(sessions, catGateway, submitUC)

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")

	// Configurar el módulo API (health check)
	apiCfg := apiConfig.DefaultAPIConfig()
	apiCfg.DB = pgDB
	apiCfg.Version = "1.0.0"
	apiConfig.SetupAPIModule(router, v1, apiCfg)

	// Registrar rutas de los módulos
	sessionController.NewInteractionController(processUC).RegisterRoutes(v1)
	orderController.NewOrderController(orderRepo, resyncUC).RegisterRoutes(v1)

	// Iniciar el servidor
	log.Printf("✅ Servidor ChatCommerce iniciado en http://localhost:%s", cfg.Port)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/health", cfg.Port)
	router.Run(":" + cfg.Port)
}
