package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"BRIGHTCART_APP_ENV" required:"true"`
	Port         string `envconfig:"BRIGHTCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BRIGHTCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRIGHTCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"BRIGHTCART_DB_DSN"`

	Host     string `envconfig:"BRIGHTCART_DB_HOST"`
	Port     int    `envconfig:"BRIGHTCART_DB_PORT" default:"5432"`
	User     string `envconfig:"BRIGHTCART_DB_USER"`
	Password string `envconfig:"BRIGHTCART_DB_PASSWORD"`
	Name     string `envconfig:"BRIGHTCART_DB_NAME"`
	SSLMode  string `envconfig:"BRIGHTCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BRIGHTCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRIGHTCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRIGHTCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRIGHTCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRIGHTCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BRIGHTCART_REDIS_ADDR"`
	Password     string        `envconfig:"BRIGHTCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRIGHTCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRIGHTCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRIGHTCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRIGHTCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRIGHTCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRIGHTCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BRIGHTCART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BRIGHTCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BRIGHTCART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BRIGHTCART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BRIGHTCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BRIGHTCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BRIGHTCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BRIGHTCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BRIGHTCART_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"BRIGHTCART_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"BRIGHTCART_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"BRIGHTCART_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"BRIGHTCART_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"BRIGHTCART_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"BRIGHTCART_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BRIGHTCART_AUTO_MIGRATE" default:"false"`
}

type CronConfig struct {
	Interval          time.Duration `envconfig:"BRIGHTCART_CRON_INTERVAL" default:"5m"`
	GuestCartMaxAge   time.Duration `envconfig:"BRIGHTCART_CRON_GUEST_CART_MAX_AGE" default:"720h"`
	MetricsListenAddr string        `envconfig:"BRIGHTCART_CRON_METRICS_ADDR" default:":9102"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range fallbackDBEnvVars {
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
