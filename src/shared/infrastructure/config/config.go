package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig configuración del servicio cargada de variables de entorno.
// Los valores de ventanas y reintentos son acotados y configurables en vez
// de adivinados.
type AppConfig struct {
	Port string

	// Catálogo
	CatalogCacheTTL time.Duration
	LegacyMapPath   string

	// Sesiones
	SessionTTL      time.Duration
	JanitorInterval time.Duration

	// Pedidos
	OrderDBPath       string
	SyncMaxAttempts   int
	SyncBackoffBase   time.Duration
	SyncBackoffMax    time.Duration
	ResyncInterval    time.Duration
	PrometheusEnabled bool

	// Postgres opcional (si DB_HOST está seteado se usa en vez de SQLite)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

// Load carga la configuración. Si existe un .env lo incorpora primero
// (best-effort, en Docker las variables vienen del entorno).
func Load() AppConfig {
	if err := godotenv.Load(); err == nil {
		log.Println("✅ Variables cargadas desde .env")
	}

	return AppConfig{
		Port: getEnv("PORT", "8080"),

		CatalogCacheTTL: time.Duration(getEnvInt("CATALOG_CACHE_TTL_MINUTES", 15)) * time.Minute,
		LegacyMapPath:   getEnv("LEGACY_MAP_PATH", ""),

		SessionTTL:      time.Duration(getEnvInt("SESSION_TTL_MINUTES", 30)) * time.Minute,
		JanitorInterval: time.Duration(getEnvInt("SESSION_JANITOR_SECONDS", 60)) * time.Second,

		OrderDBPath:       getEnv("ORDER_DB_PATH", "data/orders.db"),
		SyncMaxAttempts:   getEnvInt("ORDER_SYNC_MAX_RETRIES", 3),
		SyncBackoffBase:   time.Duration(getEnvInt("ORDER_SYNC_BACKOFF_MS", 500)) * time.Millisecond,
		SyncBackoffMax:    time.Duration(getEnvInt("ORDER_SYNC_BACKOFF_MAX_MS", 10000)) * time.Millisecond,
		ResyncInterval:    time.Duration(getEnvInt("ORDER_RESYNC_INTERVAL_SECONDS", 60)) * time.Second,
		PrometheusEnabled: getEnv("PROMETHEUS_ENABLED", "") == "true",

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "chatcommerce_db"),
	}
}

// PostgresConnString arma el string de conexión para el Postgres opcional
func (c AppConfig) PostgresConnString() string {
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

// getEnv obtiene una variable de entorno o devuelve un valor por defecto
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt obtiene una variable de entorno numérica o el valor por defecto
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("⚠️  Valor inválido para %s (%q), usando %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
