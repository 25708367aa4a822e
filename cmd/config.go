package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/riskcache"
	"github.com/abhijeetraiiit/nccart/internal/jobs"
	"github.com/abhijeetraiiit/nccart/internal/logger"
	"github.com/abhijeetraiiit/nccart/internal/queue"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Acceptance modes of the dispatch cascade.
const (
	AcceptanceAuto  = "auto"
	AcceptanceOffer = "offer"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Trust    TrustConfig    `mapstructure:"trust"`
}

type ServerConfig struct {
	Host           string  `mapstructure:"host"`
	Port           string  `mapstructure:"port"`
	Mode           string  `mapstructure:"mode"`
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Address is host:port for echo.Start.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions converts the section for logger.New; mode comes from the server.
func (c LogConfig) ToLoggerOptions(mode string) logger.Options {
	return logger.Options{
		Mode:       mode,
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

type DatabaseConfig struct {
	Driver   string             `mapstructure:"driver"`
	DSN      string             `mapstructure:"dsn"`
	LogLevel string             `mapstructure:"log_level"`
	Pool     DatabasePoolConfig `mapstructure:"pool"`
}

func (c DatabaseConfig) ToStoreConfig() postgres.DatabaseConfig {
	return postgres.DatabaseConfig{
		Driver:          c.Driver,
		DSN:             c.DSN,
		MaxOpenConns:    c.Pool.MaxOpenConns,
		MaxIdleConns:    c.Pool.MaxIdleConns,
		ConnMaxLifetime: time.Duration(c.Pool.ConnMaxLifetimeSeconds) * time.Second,
		ConnMaxIdleTime: time.Duration(c.Pool.ConnMaxIdleTimeSeconds) * time.Second,
		LogLevel:        c.LogLevel,
	}
}

// RedisConfig is the pincode risk cache. A disabled cache sends every read to the store.
type RedisConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	Prefix     string `mapstructure:"prefix"`
	TTLSeconds int    `mapstructure:"ttl_seconds"`
}

func (c RedisConfig) ToCacheConfig() riskcache.Config {
	return riskcache.Config{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
		Prefix:   c.Prefix,
		TTL:      time.Duration(c.TTLSeconds) * time.Second,
	}
}

type QueueConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	Concurrency int    `mapstructure:"concurrency"`
	Name        string `mapstructure:"name"`
}

func (c QueueConfig) ToQueueConfig() queue.Config {
	return queue.Config{
		Enabled:     c.Enabled,
		Host:        c.Host,
		Port:        c.Port,
		Password:    c.Password,
		DB:          c.DB,
		Concurrency: c.Concurrency,
		Queue:       c.Name,
	}
}

type DispatchConfig struct {
	// AcceptanceMode is "auto" (claimed partners accept at once) or "offer"
	// (partners answer through the offer endpoint).
	AcceptanceMode      string `mapstructure:"acceptance_mode"`
	MaxOffersPerStage   int    `mapstructure:"max_offers_per_stage"`
	OfferPollIntervalMs int    `mapstructure:"offer_poll_interval_ms"`
	OfferSweepSchedule  string `mapstructure:"offer_sweep_schedule"`
	OfferSweepEnabled   bool   `mapstructure:"offer_sweep_enabled"`
}

func (c DispatchConfig) OfferPollInterval() time.Duration {
	return time.Duration(c.OfferPollIntervalMs) * time.Millisecond
}

type TrustConfig struct {
	MaxWriteAttempts   int    `mapstructure:"max_write_attempts"`
	CommitmentFee      string `mapstructure:"commitment_fee"`
	MinCheckoutSeconds int    `mapstructure:"min_checkout_seconds"`
}

func (c TrustConfig) Fee() (decimal.Decimal, error) {
	return decimal.NewFromString(c.CommitmentFee)
}

func (c TrustConfig) MinCheckout() time.Duration {
	return time.Duration(c.MinCheckoutSeconds) * time.Second
}

// LoadConfig reads config.yml from path (or the working directory and ./etc),
// after loading a .env file if one exists. Environment variables override file
// values: dispatch.max_offers_per_stage is NCCART_DISPATCH_MAX_OFFERS_PER_STAGE.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !isNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("NCCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./etc")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot start with.
func (c Config) Validate() error {
	var problems []error
	switch c.Dispatch.AcceptanceMode {
	case AcceptanceAuto, AcceptanceOffer:
	default:
		problems = append(problems, fmt.Errorf("dispatch.acceptance_mode must be %q or %q, got %q",
			AcceptanceAuto, AcceptanceOffer, c.Dispatch.AcceptanceMode))
	}
	if c.Dispatch.MaxOffersPerStage < 1 {
		problems = append(problems, errors.New("dispatch.max_offers_per_stage must be at least 1"))
	}
	if c.Trust.MaxWriteAttempts < 1 {
		problems = append(problems, errors.New("trust.max_write_attempts must be at least 1"))
	}
	if fee, err := c.Trust.Fee(); err != nil {
		problems = append(problems, fmt.Errorf("trust.commitment_fee: %w", err))
	} else if fee.IsNegative() {
		problems = append(problems, errors.New("trust.commitment_fee must not be negative"))
	}
	if c.Trust.MinCheckoutSeconds < 0 {
		problems = append(problems, errors.New("trust.min_checkout_seconds must not be negative"))
	}
	return errors.Join(problems...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", logger.ModeDebug)
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.filename", "nccart.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", true)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:nccart.db?_pragma=busy_timeout(5000)")
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", riskcache.DefaultPrefix)
	v.SetDefault("redis.ttl_seconds", int(riskcache.DefaultTTL/time.Second))

	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.name", queue.DefaultQueue)

	v.SetDefault("dispatch.acceptance_mode", AcceptanceAuto)
	v.SetDefault("dispatch.max_offers_per_stage", 2)
	v.SetDefault("dispatch.offer_poll_interval_ms", 500)
	v.SetDefault("dispatch.offer_sweep_schedule", jobs.DefaultOfferExpirySpec)
	v.SetDefault("dispatch.offer_sweep_enabled", true)

	v.SetDefault("trust.max_write_attempts", 5)
	v.SetDefault("trust.commitment_fee", "29")
	v.SetDefault("trust.min_checkout_seconds", 30)
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
