package config

// EnvPrefix namespaces envconfig lookups; every field also carries its full
// variable name as an explicit tag.
const EnvPrefix = "LICENSETRACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv   = "LICENSETRACK_APP_ENV"
	EnvPort     = "LICENSETRACK_APP_PORT"
	EnvLogLevel = "LICENSETRACK_LOG_LEVEL"

	EnvDBDSN    = "LICENSETRACK_DB_DSN"
	EnvDBDriver = "LICENSETRACK_DB_DRIVER"
	EnvDBHost   = "LICENSETRACK_DB_HOST"
	EnvDBUser   = "LICENSETRACK_DB_USER"
	EnvDBName   = "LICENSETRACK_DB_NAME"

	EnvRedisURL = "LICENSETRACK_REDIS_URL"

	EnvDirectoryBaseURL  = "LICENSETRACK_DIRECTORY_BASE_URL"
	EnvDirectoryCustomer = "LICENSETRACK_DIRECTORY_CUSTOMER_NUMBER"
	EnvDirectoryPIN      = "LICENSETRACK_DIRECTORY_PIN"
	EnvDirectoryTimeout  = "LICENSETRACK_DIRECTORY_TIMEOUT"

	EnvCronInterval = "LICENSETRACK_CRON_INTERVAL"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
