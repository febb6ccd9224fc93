package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "QRDINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "QRDINE_DB_DSN"
	EnvDBHost = "QRDINE_DB_HOST"
	EnvDBUser = "QRDINE_DB_USER"
	EnvDBName = "QRDINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
	Paystack      PaystackConfig
	Flutterwave   FlutterwaveConfig
	Discovery     DiscoveryConfig
	Orders        OrdersConfig
	Notifications NotificationsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QRDINE_APP_ENV" required:"true"`
	Port         string `envconfig:"QRDINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QRDINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QRDINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"QRDINE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"QRDINE_DB_DSN"`
	Driver string `envconfig:"QRDINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"QRDINE_DB_HOST"`
	LegacyPort     int    `envconfig:"QRDINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"QRDINE_DB_USER"`
	LegacyPassword string `envconfig:"QRDINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"QRDINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"QRDINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"QRDINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"QRDINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"QRDINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"QRDINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QRDINE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"QRDINE_REDIS_ADDR"`
	Password     string        `envconfig:"QRDINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"QRDINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QRDINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QRDINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QRDINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QRDINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QRDINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"QRDINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"QRDINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"QRDINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"QRDINE_CORS_ALLOWED_ORIGINS" default:"*"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"QRDINE_AUTO_MIGRATE" default:"false"`
}

type PaystackConfig struct {
	SecretKey string        `envconfig:"QRDINE_PAYSTACK_SECRET_KEY"`
	BaseURL   string        `envconfig:"QRDINE_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	Timeout   time.Duration `envconfig:"QRDINE_PAYSTACK_TIMEOUT" default:"15s"`
}

type FlutterwaveConfig struct {
	SecretKey string        `envconfig:"QRDINE_FLUTTERWAVE_SECRET_KEY"`
	BaseURL   string        `envconfig:"QRDINE_FLUTTERWAVE_BASE_URL" default:"https://api.flutterwave.com/v3"`
	Timeout   time.Duration `envconfig:"QRDINE_FLUTTERWAVE_TIMEOUT" default:"15s"`
}

type DiscoveryConfig struct {
	Concurrency  int `envconfig:"QRDINE_DISCOVERY_CONCURRENCY" default:"6"`
	DefaultLimit int `envconfig:"QRDINE_DISCOVERY_DEFAULT_LIMIT" default:"25"`
}

type OrdersConfig struct {
	PlacedTTL time.Duration `envconfig:"QRDINE_ORDERS_PLACED_TTL" default:"2h"`
}

type NotificationsConfig struct {
	Retention time.Duration `envconfig:"QRDINE_NOTIFICATIONS_RETENTION" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
