package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Security    SecurityConfig
	Invitations InvitationConfig
	Billing     BillingConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
	CORS        CORSConfig
	Server      ServerConfig
}

type AppConfig struct {
	Env   string
	Port  int
	Name  string
	Debug bool
}

type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnectionLifetime time.Duration
}

type RedisConfig struct {
	URL        string
	Password   string
	MaxRetries int
	PoolSize   int
}

type SecurityConfig struct {
	JWTSecret     string
	JWTExpiry     time.Duration
	RefreshExpiry time.Duration
	// OrgCookieName is the cookie carrying the signed active-organization
	// pointer. The value is a signed token, never a bare id.
	OrgCookieName   string
	CookieDomain    string
	CookieSecure    bool
	OrgCookieExpiry time.Duration
}

type InvitationConfig struct {
	TTL time.Duration
}

type BillingConfig struct {
	Provider string
	APIKey   string
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	IdleTimeout    int
	MaxHeaderBytes int
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config

	config.App = AppConfig{
		Env:   viper.GetString("APP_ENV"),
		Port:  viper.GetInt("APP_PORT"),
		Name:  viper.GetString("APP_NAME"),
		Debug: viper.GetBool("APP_DEBUG"),
	}

	config.Database = DatabaseConfig{
		URL:                viper.GetString("DATABASE_URL"),
		MaxConnections:     viper.GetInt("DB_MAX_CONNECTIONS"),
		MaxIdleConnections: viper.GetInt("DB_MAX_IDLE_CONNECTIONS"),
		ConnectionLifetime: time.Duration(viper.GetInt("DB_CONNECTION_LIFETIME_SECONDS")) * time.Second,
	}

	config.Redis = RedisConfig{
		URL:        viper.GetString("REDIS_URL"),
		Password:   viper.GetString("REDIS_PASSWORD"),
		MaxRetries: viper.GetInt("REDIS_MAX_RETRIES"),
		PoolSize:   viper.GetInt("REDIS_POOL_SIZE"),
	}

	config.Security = SecurityConfig{
		JWTSecret:       viper.GetString("JWT_SECRET"),
		JWTExpiry:       time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
		RefreshExpiry:   time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_DAYS")) * 24 * time.Hour,
		OrgCookieName:   viper.GetString("ORG_COOKIE_NAME"),
		CookieDomain:    viper.GetString("COOKIE_DOMAIN"),
		CookieSecure:    viper.GetBool("COOKIE_SECURE"),
		OrgCookieExpiry: time.Duration(viper.GetInt("ORG_COOKIE_EXPIRY_DAYS")) * 24 * time.Hour,
	}

	config.Invitations = InvitationConfig{
		TTL: time.Duration(viper.GetInt("INVITATION_TTL_DAYS")) * 24 * time.Hour,
	}

	config.Billing = BillingConfig{
		Provider: viper.GetString("BILLING_PROVIDER"),
		APIKey:   viper.GetString("BILLING_API_KEY"),
	}

	config.RateLimit = RateLimitConfig{
		Enabled:           viper.GetBool("RATE_LIMIT_ENABLED"),
		RequestsPerMinute: viper.GetInt("RATE_LIMIT_REQUESTS_PER_MINUTE"),
	}

	config.Log = LogConfig{
		Level:  viper.GetString("LOG_LEVEL"),
		Format: viper.GetString("LOG_FORMAT"),
		Output: viper.GetString("LOG_OUTPUT"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
		AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		ExposeHeaders:    viper.GetStringSlice("CORS_EXPOSE_HEADERS"),
		AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
		MaxAge:           viper.GetInt("CORS_MAX_AGE"),
	}

	config.Server = ServerConfig{
		ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
		WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
		IdleTimeout:    viper.GetInt("SERVER_IDLE_TIMEOUT"),
		MaxHeaderBytes: viper.GetInt("SERVER_MAX_HEADER_BYTES"),
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_NAME", "hr-platform-api")
	viper.SetDefault("APP_DEBUG", false)

	viper.SetDefault("DB_MAX_CONNECTIONS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNECTIONS", 5)
	viper.SetDefault("DB_CONNECTION_LIFETIME_SECONDS", 300)

	viper.SetDefault("REDIS_MAX_RETRIES", 3)
	viper.SetDefault("REDIS_POOL_SIZE", 10)

	viper.SetDefault("JWT_EXPIRY_HOURS", 1)
	viper.SetDefault("JWT_REFRESH_EXPIRY_DAYS", 7)
	viper.SetDefault("ORG_COOKIE_NAME", "active-organization-id")
	viper.SetDefault("COOKIE_SECURE", true)
	viper.SetDefault("ORG_COOKIE_EXPIRY_DAYS", 30)

	viper.SetDefault("INVITATION_TTL_DAYS", 7)

	viper.SetDefault("BILLING_PROVIDER", "manual")

	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_REQUESTS_PER_MINUTE", 120)

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("LOG_OUTPUT", "stdout")

	viper.SetDefault("SERVER_READ_TIMEOUT", 15)
	viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	viper.SetDefault("SERVER_IDLE_TIMEOUT", 60)
	viper.SetDefault("SERVER_MAX_HEADER_BYTES", 1<<20)
}
