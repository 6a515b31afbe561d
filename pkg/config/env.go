package config

const EnvPrefix = "OPSDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv      = "OPSDESK_APP_ENV"
	EnvPort        = "OPSDESK_APP_PORT"
	EnvDBDSN       = "OPSDESK_DB_DSN"
	EnvDBHost      = "OPSDESK_DB_HOST"
	EnvDBUser      = "OPSDESK_DB_USER"
	EnvDBName      = "OPSDESK_DB_NAME"
	EnvDBPassword  = "OPSDESK_DB_PASSWORD"
	EnvRedisURL    = "OPSDESK_REDIS_URL"
	EnvJWTSecret   = "OPSDESK_JWT_SECRET"
	EnvJWTIssuer   = "OPSDESK_JWT_ISSUER"
	EnvSMTPHost    = "OPSDESK_SMTP_HOST"
	EnvUseSQLite   = "OPSDESK_USE_SQLITE"
	EnvTemplateTTL = "OPSDESK_PERMISSIONS_TEMPLATE_CACHE_TTL"
	EnvLogFormat   = "LOG_FORMAT"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
