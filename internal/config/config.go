package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/tdtai09423/moe-ui-sub001/internal/types"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Storage    StorageConfig    `validate:"required"`
	Supabase   SupabaseConfig
	Postgres   PostgresConfig
	Cache      CacheConfig
	Sentry     SentryConfig
	Billing    BillingConfig `validate:"required"`
	Scheduler  SchedulerConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required,oneof=local api scheduler"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type StorageConfig struct {
	Provider types.StorageProvider `mapstructure:"provider" validate:"required,oneof=memory supabase postgres"`
}

type SupabaseConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   int    `mapstructure:"port"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// BillingConfig tunes the payment status classifier and the billing run
type BillingConfig struct {
	OverdueAfterDays      int     `mapstructure:"overdue_after_days" validate:"min=1"`
	EscalateOverdue       bool    `mapstructure:"escalate_overdue"`
	UpcomingCyclesDefault int     `mapstructure:"upcoming_cycles_default" validate:"min=1,max=60"`
	BillingRunConcurrency int     `mapstructure:"billing_run_concurrency" validate:"min=1"`
	// BillingRunRateLimit caps charge writes per second during a billing run, 0 disables it
	BillingRunRateLimit   float64 `mapstructure:"billing_run_rate_limit" validate:"min=0"`
}

type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BillingRunCron string `mapstructure:"billing_run_cron"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/tuition")

	setDefaults(v)

	v.SetEnvPrefix("TUITION")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()
	v.SetDefault("deployment.mode", defaults.Deployment.Mode)
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("storage.provider", defaults.Storage.Provider)
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minutes", 60)
	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("sentry.sample_rate", 1.0)
	v.SetDefault("billing.overdue_after_days", defaults.Billing.OverdueAfterDays)
	v.SetDefault("billing.escalate_overdue", defaults.Billing.EscalateOverdue)
	v.SetDefault("billing.upcoming_cycles_default", defaults.Billing.UpcomingCyclesDefault)
	v.SetDefault("billing.billing_run_concurrency", defaults.Billing.BillingRunConcurrency)
	v.SetDefault("billing.billing_run_rate_limit", defaults.Billing.BillingRunRateLimit)
	v.SetDefault("scheduler.enabled", defaults.Scheduler.Enabled)
	v.SetDefault("scheduler.billing_run_cron", defaults.Scheduler.BillingRunCron)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	switch c.Storage.Provider {
	case types.StorageProviderSupabase:
		if c.Supabase.URL == "" || c.Supabase.Key == "" {
			return errors.New("supabase storage requires supabase.url and supabase.key")
		}
	case types.StorageProviderPostgres:
		if c.Postgres.Host == "" || c.Postgres.DBName == "" {
			return errors.New("postgres storage requires postgres.host and postgres.dbname")
		}
	}

	if c.Sentry.Enabled && c.Sentry.DSN == "" {
		return errors.New("sentry is enabled but sentry.dsn is empty")
	}
	if c.Scheduler.Enabled && c.Scheduler.BillingRunCron == "" {
		return errors.New("scheduler is enabled but scheduler.billing_run_cron is empty")
	}
	return nil
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Storage:    StorageConfig{Provider: types.StorageProviderMemory},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Billing: BillingConfig{
			OverdueAfterDays:      30,
			EscalateOverdue:       false,
			UpcomingCyclesDefault: 3,
			BillingRunConcurrency: 10,
		},
		Scheduler: SchedulerConfig{
			Enabled:        true,
			BillingRunCron: "0 1 5 * *",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
