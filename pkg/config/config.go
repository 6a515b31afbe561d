package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Permissions  PermissionsConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OPSDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"OPSDESK_APP_PORT" required:"true"`
	PublicURL    string `envconfig:"OPSDESK_APP_PUBLIC_URL" default:"http://localhost:5173"`
	LogLevel     string `envconfig:"OPSDESK_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"OPSDESK_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"OPSDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"OPSDESK_DB_DSN"`
	Driver string `envconfig:"OPSDESK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"OPSDESK_DB_HOST"`
	Port     int    `envconfig:"OPSDESK_DB_PORT" default:"5432"`
	User     string `envconfig:"OPSDESK_DB_USER"`
	Password string `envconfig:"OPSDESK_DB_PASSWORD"`
	Name     string `envconfig:"OPSDESK_DB_NAME"`
	SSLMode  string `envconfig:"OPSDESK_DB_SSLMODE" default:"disable"`

	SQLitePath string `envconfig:"OPSDESK_SQLITE_PATH" default:"opsdesk.db"`

	MaxOpenConns    int           `envconfig:"OPSDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OPSDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OPSDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OPSDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional; an empty URL and address disables caching.
type RedisConfig struct {
	URL          string        `envconfig:"OPSDESK_REDIS_URL"`
	Address      string        `envconfig:"OPSDESK_REDIS_ADDR"`
	Password     string        `envconfig:"OPSDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"OPSDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OPSDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OPSDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OPSDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OPSDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OPSDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// JWTConfig verifies access tokens minted by the identity provider.
// JWTConfig verifies identity-provider access tokens. Audience is optional;
// ExpirationMinutes only applies to locally minted tokens.
type JWTConfig struct {
	Secret            string `envconfig:"OPSDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OPSDESK_JWT_ISSUER" required:"true"`
	Audience          string `envconfig:"OPSDESK_JWT_AUDIENCE"`
	LeewaySeconds     int    `envconfig:"OPSDESK_JWT_LEEWAY_SECONDS" default:"30"`
	ExpirationMinutes int    `envconfig:"OPSDESK_JWT_EXPIRATION_MINUTES" default:"60"`
}

type SMTPConfig struct {
	Host     string `envconfig:"OPSDESK_SMTP_HOST"`
	Port     int    `envconfig:"OPSDESK_SMTP_PORT" default:"587"`
	User     string `envconfig:"OPSDESK_SMTP_USER"`
	Password string `envconfig:"OPSDESK_SMTP_PASSWORD"`
	From     string `envconfig:"OPSDESK_SMTP_FROM"`
}

// Enabled reports whether outbound email is configured.
func (s SMTPConfig) Enabled() bool {
	return strings.TrimSpace(s.Host) != ""
}

type PermissionsConfig struct {
	TemplateCacheTTL time.Duration `envconfig:"OPSDESK_PERMISSIONS_TEMPLATE_CACHE_TTL" default:"5m"`
}

// CronConfig drives cmd/cron-worker.
type CronConfig struct {
	Interval                  time.Duration `envconfig:"OPSDESK_CRON_INTERVAL" default:"24h"`
	NotificationRetentionDays int           `envconfig:"OPSDESK_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"OPSDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"OPSDESK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		if db.DSN == "" {
			db.DSN = db.SQLitePath
		}
		db.Driver = DriverSQLite
		return nil
	}
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
