package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App          AppConfig
	DB           DBConfig
	JWT          JWTConfig
	HTTP         HTTPConfig
	Limits       LimitsConfig
	Registration RegistrationConfig
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
	DatabaseURL   string
	Host          string
	Port          int
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MaxConns      int
	MinConns      int
	LockTimeoutMS int // lock_timeout local de las tx de registro; 0 = sin límite

	// Vida de las conexiones del pool; 0 deja el valor por defecto de pgxpool.
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// ApplicationName aparece en pg_stat_activity.
	ApplicationName string
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

// LockTimeout devuelve el lock_timeout como duración.
func (c DBConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMS) * time.Millisecond
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LimitsConfig topes de negocio que protegen las creaciones.
type LimitsConfig struct {
	MaxProducts      int64
	MaxStores        int64
	MaxSalesPerStore int64
}

// RegistrationConfig política de reintentos ante colisiones de nomor_kepesertaan.
type RegistrationConfig struct {
	MaxAttempts     int
	RetryIntervalMS int
}

// RetryInterval espera entre intentos.
func (c RegistrationConfig) RetryInterval() time.Duration {
	return time.Duration(c.RetryIntervalMS) * time.Millisecond
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, LIMIT_MAX_STORES, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "garansi-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:   getString(v, "DATABASE_URL", ""),
			Host:          getString(v, "DB_HOST", "localhost"),
			Port:          getInt(v, "DB_PORT", 5432),
			User:          getString(v, "DB_USER", "postgres"),
			Password:      getString(v, "DB_PASSWORD", ""),
			DBName:        getString(v, "DB_NAME", "garansi"),
			SSLMode:       getString(v, "DB_SSLMODE", "disable"),
			MaxConns:      getInt(v, "DB_MAX_CONNS", 25),
			MinConns:      getInt(v, "DB_MIN_CONNS", 2),
			LockTimeoutMS: getInt(v, "DB_LOCK_TIMEOUT_MS", 5000),

			MaxConnLifetime:   getSeconds(v, "DB_MAX_CONN_LIFETIME_SEC", 3600),
			MaxConnIdleTime:   getSeconds(v, "DB_MAX_CONN_IDLE_SEC", 1800),
			HealthCheckPeriod: getSeconds(v, "DB_HEALTH_CHECK_SEC", 60),
			ApplicationName:   getString(v, "APP_NAME", "garansi-api"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "garansi-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Limits: LimitsConfig{
			MaxProducts:      int64(getInt(v, "LIMIT_MAX_PRODUCTS", 10_000_000)),
			MaxStores:        int64(getInt(v, "LIMIT_MAX_STORES", 300)),
			MaxSalesPerStore: int64(getInt(v, "LIMIT_MAX_SALES_PER_STORE", 20)),
		},
		Registration: RegistrationConfig{
			MaxAttempts:     getInt(v, "REGISTRATION_MAX_ATTEMPTS", 3),
			RetryIntervalMS: getInt(v, "REGISTRATION_RETRY_INTERVAL_MS", 25),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Limits.MaxProducts <= 0 || c.Limits.MaxStores <= 0 || c.Limits.MaxSalesPerStore <= 0 {
		return fmt.Errorf("config: los límites deben ser mayores que cero")
	}
	if c.Registration.MaxAttempts < 1 {
		return fmt.Errorf("config: REGISTRATION_MAX_ATTEMPTS debe ser >= 1")
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
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getSeconds(v *viper.Viper, key string, def int) time.Duration {
	return time.Duration(getInt(v, key, def)) * time.Second
}
