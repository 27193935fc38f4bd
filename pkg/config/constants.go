package config

const (
	EnvPrefix = "LENDOM"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	DBDriverSQLite   = "sqlite"
	DBDriverPostgres = "postgres"

	EnvAppEnv         = "LENDOM_APP_ENV"
	EnvDBDSN          = "LENDOM_DB_DSN"
	EnvRedisURL       = "LENDOM_REDIS_URL"
	EnvWhatsAppNumber = "LENDOM_WHATSAPP_NUMBER"
)
