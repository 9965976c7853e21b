package config

// EnvPrefix is the envconfig prefix shared by every variable.
const EnvPrefix = "brightcart"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "BRIGHTCART_APP_ENV"
	EnvPort     = "BRIGHTCART_APP_PORT"
	EnvDBDSN    = "BRIGHTCART_DB_DSN"
	EnvDBHost   = "BRIGHTCART_DB_HOST"
	EnvDBUser   = "BRIGHTCART_DB_USER"
	EnvDBName   = "BRIGHTCART_DB_NAME"
	EnvRedisURL = "BRIGHTCART_REDIS_URL"

	EnvJWTSecret              = "BRIGHTCART_JWT_SECRET"
	EnvJWTIssuer              = "BRIGHTCART_JWT_ISSUER"
	EnvJWTExpMins             = "BRIGHTCART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "BRIGHTCART_REFRESH_TOKEN_TTL_MINUTES"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
