package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Gateway     GatewayConfig     `mapstructure:"gateway"`
	PlatiOnline PlatiOnlineConfig `mapstructure:"platonline"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	StoreID        int           `mapstructure:"store_id"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	PayRateLimit   int           `mapstructure:"pay_rate_limit"`
	PayRateWindow  time.Duration `mapstructure:"pay_rate_window"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration. An empty address disables the cache.
// The settings cache also stays off until SettingsKey is set.
type RedisConfig struct {
	Address     string        `mapstructure:"address"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	SettingsTTL time.Duration `mapstructure:"settings_ttl"`
	SettingsKey string        `mapstructure:"settings_key"`
}

// AuthConfig holds admin API authentication configuration.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// KafkaConfig holds event publishing configuration. No brokers means events are only logged.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// GatewayConfig holds PlatiOnline endpoint configuration.
type GatewayConfig struct {
	AuthorizationURL string        `mapstructure:"authorization_url"`
	QueryURL         string        `mapstructure:"query_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	BreakerTimeout   time.Duration `mapstructure:"breaker_timeout"`
}

// PlatiOnlineConfig holds the merchant settings defaults used when a store has no stored value.
type PlatiOnlineConfig struct {
	MerchantID       string             `mapstructure:"merchant_id"`
	PublicKey        string             `mapstructure:"public_key"`
	PrivateKey       string             `mapstructure:"private_key"`
	IVAuth           string             `mapstructure:"iv_auth"`
	IVItsn           string             `mapstructure:"iv_itsn"`
	RelayResponseURL string             `mapstructure:"relay_response_url"`
	RelayMethod      string             `mapstructure:"relay_method"`
	AcceptRON        bool               `mapstructure:"accept_ron"`
	AcceptEUR        bool               `mapstructure:"accept_eur"`
	AcceptUSD        bool               `mapstructure:"accept_usd"`
	FallbackCurrency string             `mapstructure:"fallback_currency"`
	TestMode         bool               `mapstructure:"test_mode"`
	SSL              bool               `mapstructure:"ssl"`
	LogPath          string             `mapstructure:"log_path"`
	TransactMode     string             `mapstructure:"transact_mode"`
	PayLinkDays      int                `mapstructure:"pay_link_days"`
	StoreHost        string             `mapstructure:"store_host"`
	Language         string             `mapstructure:"language"`
	ExchangeRates    map[string]float64 `mapstructure:"exchange_rates"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from the given file, or from the default
// search paths when file is empty.
func LoadFrom(file string) (*Config, error) {
	v := viper.New()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/platipay")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("PLATIPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Sensitive values
	if secret := os.Getenv("PLATIPAY_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if password := os.Getenv("PLATIPAY_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("PLATIPAY_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("PLATIPAY_SETTINGS_CACHE_KEY"); key != "" {
		cfg.Redis.SettingsKey = key
	}
	if key := os.Getenv("PLATIPAY_PRIVATE_KEY"); key != "" {
		cfg.PlatiOnline.PrivateKey = key
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.store_id", 0)
	v.SetDefault("server.pay_rate_limit", 30)
	v.SetDefault("server.pay_rate_window", time.Minute)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "platipay")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.settings_ttl", 10*time.Minute)

	// Auth defaults
	v.SetDefault("auth.issuer", "platipay")

	// Kafka defaults
	v.SetDefault("kafka.topic", "payment-status")

	// Gateway defaults
	v.SetDefault("gateway.authorization_url", "https://secure.plationline.ro/")
	v.SetDefault("gateway.query_url", "https://secure.plationline.ro/")
	v.SetDefault("gateway.timeout", 30*time.Second)
	v.SetDefault("gateway.failure_threshold", 5)
	v.SetDefault("gateway.breaker_timeout", 30*time.Second)

	// PlatiOnline defaults
	v.SetDefault("platonline.relay_response_url", "PaymentPlatiOnline/CheckoutCompleted")
	v.SetDefault("platonline.relay_method", "PTOR")
	v.SetDefault("platonline.accept_ron", true)
	v.SetDefault("platonline.fallback_currency", "RON")
	v.SetDefault("platonline.test_mode", true)
	v.SetDefault("platonline.ssl", true)
	v.SetDefault("platonline.transact_mode", "Pending")
	v.SetDefault("platonline.language", "RO")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
