package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "vastra"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "VASTRA_APP_ENV"
	EnvDBDSN  = "VASTRA_DB_DSN"
	EnvDBHost = "VASTRA_DB_HOST"
	EnvDBUser = "VASTRA_DB_USER"
	EnvDBName = "VASTRA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Razorpay      RazorpayConfig
	Geocode       GeocodeConfig
	Checkout      CheckoutConfig
	Cron          CronConfig
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
	Env          string `envconfig:"VASTRA_APP_ENV" required:"true"`
	Port         string `envconfig:"VASTRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VASTRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VASTRA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VASTRA_DB_DSN"`
	Driver string `envconfig:"VASTRA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VASTRA_DB_HOST"`
	LegacyPort     int    `envconfig:"VASTRA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VASTRA_DB_USER"`
	LegacyPassword string `envconfig:"VASTRA_DB_PASSWORD"`
	LegacyName     string `envconfig:"VASTRA_DB_NAME"`
	LegacySSLMode  string `envconfig:"VASTRA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VASTRA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VASTRA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VASTRA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VASTRA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VASTRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VASTRA_REDIS_ADDR"`
	Password     string        `envconfig:"VASTRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"VASTRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VASTRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VASTRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VASTRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VASTRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VASTRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VASTRA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VASTRA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VASTRA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VASTRA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VASTRA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VASTRA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VASTRA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VASTRA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VASTRA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VASTRA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VASTRA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VASTRA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VASTRA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VASTRA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VASTRA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VASTRA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VASTRA_AUTO_MIGRATE" default:"false"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"VASTRA_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"VASTRA_RAZORPAY_KEY_SECRET"`
}

type GeocodeConfig struct {
	BaseURL string        `envconfig:"VASTRA_GEOCODE_BASE_URL" default:"https://api.postalpincode.in"`
	Timeout time.Duration `envconfig:"VASTRA_GEOCODE_TIMEOUT" default:"4s"`
}

type CheckoutConfig struct {
	// WelcomeCouponCode is auto-applied on a caller's first order when no coupon is supplied.
	WelcomeCouponCode string        `envconfig:"VASTRA_WELCOME_COUPON_CODE" default:"WELCOME10"`
	UPIPaymentTTL     time.Duration `envconfig:"VASTRA_UPI_PAYMENT_TTL" default:"24h"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"VASTRA_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"VASTRA_CRON_LOCK_TTL" default:"55m"`
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
