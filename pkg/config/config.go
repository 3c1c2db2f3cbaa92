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
	Directory    DirectoryConfig
	Cron         CronConfig
	Import       ImportConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Directory.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LICENSETRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"LICENSETRACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"LICENSETRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LICENSETRACK_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow-list; empty uses the local dev origins.
	CORSOrigins []string `envconfig:"LICENSETRACK_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LICENSETRACK_DB_DSN"`
	Driver string `envconfig:"LICENSETRACK_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"LICENSETRACK_DB_HOST"`
	Port     int    `envconfig:"LICENSETRACK_DB_PORT" default:"5432"`
	User     string `envconfig:"LICENSETRACK_DB_USER"`
	Password string `envconfig:"LICENSETRACK_DB_PASSWORD"`
	Name     string `envconfig:"LICENSETRACK_DB_NAME"`
	SSLMode  string `envconfig:"LICENSETRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LICENSETRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LICENSETRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LICENSETRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LICENSETRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold is the duration above which statements are logged.
	SlowQueryThreshold time.Duration `envconfig:"LICENSETRACK_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the configured driver is SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"LICENSETRACK_REDIS_URL"`
	Address      string        `envconfig:"LICENSETRACK_REDIS_ADDR"`
	Password     string        `envconfig:"LICENSETRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"LICENSETRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LICENSETRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LICENSETRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LICENSETRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LICENSETRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LICENSETRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether any Redis endpoint is configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// DirectoryConfig holds the producer directory endpoint and account credentials.
type DirectoryConfig struct {
	BaseURL        string        `envconfig:"LICENSETRACK_DIRECTORY_BASE_URL" default:"https://pdb-services.nipr.com/pdb-xml-reports/entityinfo_xml.cgi"`
	CustomerNumber string        `envconfig:"LICENSETRACK_DIRECTORY_CUSTOMER_NUMBER"`
	PIN            string        `envconfig:"LICENSETRACK_DIRECTORY_PIN"`
	ReportType     string        `envconfig:"LICENSETRACK_DIRECTORY_REPORT_TYPE" default:"1"`
	Timeout        time.Duration `envconfig:"LICENSETRACK_DIRECTORY_TIMEOUT" default:"30s"`
}

func (d DirectoryConfig) validate() error {
	if strings.TrimSpace(d.BaseURL) == "" {
		return fmt.Errorf("%s is required", EnvDirectoryBaseURL)
	}
	if _, err := url.Parse(d.BaseURL); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvDirectoryBaseURL, err)
	}
	if (d.CustomerNumber == "") != (d.PIN == "") {
		return fmt.Errorf("%s and %s must be set together", EnvDirectoryCustomer, EnvDirectoryPIN)
	}
	return nil
}

type CronConfig struct {
	Interval time.Duration `envconfig:"LICENSETRACK_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"LICENSETRACK_CRON_LOCK_TTL" default:"25h"`
	// RunOnce runs a single cycle and exits, for external schedulers.
	RunOnce bool `envconfig:"LICENSETRACK_CRON_RUN_ONCE" default:"false"`
	// MetricsAddr serves /metrics from the worker when set, e.g. ":9102".
	MetricsAddr string `envconfig:"LICENSETRACK_CRON_METRICS_ADDR"`
}

type ImportConfig struct {
	MaxUploadMB int `envconfig:"LICENSETRACK_IMPORT_MAX_UPLOAD_MB" default:"20"`
}

// MaxUploadBytes returns the multipart upload ceiling in bytes.
func (i ImportConfig) MaxUploadBytes() int64 {
	if i.MaxUploadMB <= 0 {
		return 20 << 20
	}
	return int64(i.MaxUploadMB) << 20
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LICENSETRACK_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
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
