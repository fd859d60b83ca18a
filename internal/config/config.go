package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Log        LogConfig
	Market     MarketConfig
	Screenshot ScreenshotConfig
	Coach      CoachConfig
	Events     EventsConfig
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the listen address for net/http.
func (s ServerConfig) Addr() string {
	return ":" + strconv.Itoa(s.Port)
}

// DatabaseConfig defines the database connection settings.
type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the PostgreSQL connection URL.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// SlogLevel maps the configured level name, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MarketConfig defines where market movers come from.
type MarketConfig struct {
	Source     string        `mapstructure:"source"`
	BaseURL    string        `mapstructure:"base_url"`
	StreamURL  string        `mapstructure:"stream_url"`
	QuoteAsset string        `mapstructure:"quote_asset"`
	Limit      int           `mapstructure:"limit"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ScreenshotConfig defines the image host.
type ScreenshotConfig struct {
	UploadURL string        `mapstructure:"upload_url"`
	APIKey    string        `mapstructure:"api_key"`
	MaxBytes  int64         `mapstructure:"max_bytes"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CoachConfig defines the text-generation endpoint.
type CoachConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// EventsConfig enables lifecycle event publishing when AMQPURL is set.
type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/journal.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "trade_journal")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("market.source", "rest")
	v.SetDefault("market.base_url", "https://api.binance.com")
	v.SetDefault("market.stream_url", "wss://stream.binance.com:9443/ws/!ticker@arr")
	v.SetDefault("market.quote_asset", "USDT")
	v.SetDefault("market.limit", 5)
	v.SetDefault("market.timeout", 6*time.Second)

	v.SetDefault("screenshot.upload_url", "https://api.imgbb.com/1/upload")
	v.SetDefault("screenshot.api_key", "")
	v.SetDefault("screenshot.max_bytes", 10<<20)
	v.SetDefault("screenshot.timeout", 20*time.Second)

	v.SetDefault("coach.base_url", "https://api.openai.com/v1")
	v.SetDefault("coach.api_key", "")
	v.SetDefault("coach.model", "gpt-4o-mini")
	v.SetDefault("coach.max_tokens", 600)
	v.SetDefault("coach.timeout", 30*time.Second)

	v.SetDefault("events.amqp_url", "")
	v.SetDefault("events.exchange", "trade_journal")
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded first; a missing
// config.yaml is not an error.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("TRADEJOURNAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	err = config.Validate()
	return
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	switch c.Market.Source {
	case "rest", "stream", "static":
	default:
		return fmt.Errorf("market.source must be rest, stream or static, got %q", c.Market.Source)
	}
	if c.Market.Limit <= 0 {
		return fmt.Errorf("market.limit must be positive")
	}
	if c.Screenshot.MaxBytes <= 0 {
		return fmt.Errorf("screenshot.max_bytes must be positive")
	}
	return nil
}
