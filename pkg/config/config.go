package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config agrupa la configuración del servicio (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Ledger LedgerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	Driver         string // postgres | memory
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int
	MinConns       int
	MigrateOnStart bool
	// LockTimeoutMs espera máxima por el lock de filas de inventario.
	LockTimeoutMs  int

	// Circuit breaker sobre las transacciones: fallos seguidos para abrir y segundos abierto.
	BreakerFailures       int
	BreakerTimeoutSeconds int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de verificación de tokens.
type JWTConfig struct {
	Secret string
	Issuer string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LedgerConfig reglas de negocio configurables del ledger.
type LedgerConfig struct {
	// EnforceReasonCategory exige que la categoría del código de motivo coincida con el tipo de movimiento.
	EnforceReasonCategory bool
	HistoryDefaultLimit   int
	HistoryMaxLimit       int
	BatchMaxItems         int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, LEDGER_*, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "wms-ledger"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:         strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverPostgres)),
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "wms"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MaxConns:       getInt(v, "DB_MAX_CONNS", 25),
			MinConns:       getInt(v, "DB_MIN_CONNS", 2),
			LockTimeoutMs:  getInt(v, "DB_LOCK_TIMEOUT_MS", 5000),
			MigrateOnStart: getBool(v, "DB_MIGRATE_ON_START", false),

			BreakerFailures:       getInt(v, "DB_BREAKER_FAILURES", 5),
			BreakerTimeoutSeconds: getInt(v, "DB_BREAKER_TIMEOUT_SECONDS", 30),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", "wms-auth"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "HTTP_SWAGGER_FILE", "./docs/swagger.json"),
		},
		Ledger: LedgerConfig{
			EnforceReasonCategory: getBool(v, "LEDGER_ENFORCE_REASON_CATEGORY", true),
			HistoryDefaultLimit:   getInt(v, "LEDGER_HISTORY_DEFAULT_LIMIT", 100),
			HistoryMaxLimit:       getInt(v, "LEDGER_HISTORY_MAX_LIMIT", 500),
			BatchMaxItems:         getInt(v, "LEDGER_BATCH_MAX_ITEMS", 1000),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER desconocido: %q", c.DB.Driver)
	}
	if c.Ledger.HistoryDefaultLimit <= 0 || c.Ledger.HistoryMaxLimit < c.Ledger.HistoryDefaultLimit {
		return fmt.Errorf("límites de historial inválidos: default=%d max=%d",
			c.Ledger.HistoryDefaultLimit, c.Ledger.HistoryMaxLimit)
	}
	if c.DB.MaxConns <= 0 || c.DB.MinConns < 0 || c.DB.LockTimeoutMs <= 0 {
		return fmt.Errorf("pool inválido: max=%d min=%d lock_timeout=%dms",
			c.DB.MaxConns, c.DB.MinConns, c.DB.LockTimeoutMs)
	}
	if c.DB.BreakerFailures <= 0 || c.DB.BreakerTimeoutSeconds <= 0 {
		return fmt.Errorf("circuit breaker inválido: failures=%d timeout=%ds",
			c.DB.BreakerFailures, c.DB.BreakerTimeoutSeconds)
	}
	if c.JWT.Secret == "" && c.App.Env == "production" {
		return fmt.Errorf("JWT_SECRET es obligatorio en production")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	default:
		return v.GetBool(key)
	}
}
