package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	Retries        uint64 `mapstructure:"retries"`
	RetryDelayMs   int    `mapstructure:"retry_delay_ms"`
}

type ExchangeRateAPI struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type Rates struct {
	FreshnessSec        int      `mapstructure:"freshness_sec"`
	FallbackFactor      int      `mapstructure:"fallback_factor"`
	SupportedCurrencies []string `mapstructure:"supported_currencies"`
}

func (r Rates) FreshnessWindow() time.Duration {
	return time.Duration(r.FreshnessSec) * time.Second
}

func (r Rates) FallbackWindow() time.Duration {
	return time.Duration(r.FallbackFactor) * r.FreshnessWindow()
}

type Snapshot struct {
	Driver   string `mapstructure:"driver"`
	Key      string `mapstructure:"key"`
	BoltPath string `mapstructure:"bolt_path"`
}

type Sessions struct {
	MaxItems int64 `mapstructure:"max_items"`
	TTLSec   int   `mapstructure:"ttl_sec"`
}

type Scheduler struct {
	Enabled     bool `mapstructure:"enabled"`
	IntervalSec int  `mapstructure:"interval_sec"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer      HTTPServer      `mapstructure:"http_server"`
	DbServer        DbServer        `mapstructure:"db_server"`
	HTTPClient      HTTPClient      `mapstructure:"http_client"`
	ExchangeRateAPI ExchangeRateAPI `mapstructure:"exchange_rate_api"`
	Rates           Rates           `mapstructure:"rates"`
	Snapshot        Snapshot        `mapstructure:"snapshot"`
	Sessions        Sessions        `mapstructure:"sessions"`
	Scheduler       Scheduler       `mapstructure:"scheduler"`
	Logging         Logging         `mapstructure:"logging"`
}

const (
	SnapshotDriverBolt     = "bolt"
	SnapshotDriverPostgres = "postgres"
)

var defaultCurrencies = []string{
	"AUD", "CAD", "CHF", "CNY", "EUR", "GBP", "HKD", "INR", "JPY", "MXN", "NZD", "PLN", "SEK", "SGD", "USD",
}

// Init reads config.yaml (when present), .env (when present) and environment overrides.
func Init(configFile string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("http_client.retries", 0)
	v.SetDefault("http_client.retry_delay_ms", 500)
	v.SetDefault("exchange_rate_api.base_url", "https://v6.exchangerate-api.com/v6")
	v.SetDefault("rates.freshness_sec", 3600)
	v.SetDefault("rates.fallback_factor", 24)
	v.SetDefault("rates.supported_currencies", defaultCurrencies)
	v.SetDefault("snapshot.driver", SnapshotDriverBolt)
	v.SetDefault("snapshot.key", "exchangeRates")
	v.SetDefault("snapshot.bolt_path", "data/snapshots.db")
	v.SetDefault("sessions.max_items", 10000)
	v.SetDefault("sessions.ttl_sec", 86400)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval_sec", 300)
	v.SetDefault("logging.level", "info")
}

func bindEnv(v *viper.Viper) {
	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http
	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// exchange rate api
	_ = v.BindEnv("exchange_rate_api.base_url", "EXCHANGE_RATE_API_BASE_URL")
	_ = v.BindEnv("exchange_rate_api.api_key", "EXCHANGE_RATE_API_KEY")

	_ = v.BindEnv("snapshot.driver", "SNAPSHOT_DRIVER")
	_ = v.BindEnv("snapshot.bolt_path", "SNAPSHOT_BOLT_PATH")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
}

func (cfg *AppConfig) validate() error {
	if cfg.Rates.FreshnessSec <= 0 {
		return fmt.Errorf("rates.freshness_sec must be positive, got %d", cfg.Rates.FreshnessSec)
	}
	if cfg.Rates.FallbackFactor < 1 {
		return fmt.Errorf("rates.fallback_factor must be at least 1, got %d", cfg.Rates.FallbackFactor)
	}
	if len(cfg.Rates.SupportedCurrencies) == 0 {
		return errors.New("rates.supported_currencies must not be empty")
	}
	for i, code := range cfg.Rates.SupportedCurrencies {
		cfg.Rates.SupportedCurrencies[i] = strings.ToUpper(strings.TrimSpace(code))
	}

	switch cfg.Snapshot.Driver {
	case SnapshotDriverBolt, SnapshotDriverPostgres:
	default:
		return fmt.Errorf("unknown snapshot driver %q", cfg.Snapshot.Driver)
	}
	return nil
}
