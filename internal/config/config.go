package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Outputs   OutputsConfig   `mapstructure:"outputs"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver" validate:"oneof=yaml mysql sqlite postgres"`
	YAMLDirectory string `mapstructure:"yaml_directory" validate:"required_if=Driver yaml"`
	NodeID        int64  `mapstructure:"node_id" validate:"gte=0,lte=1023"`
}

// UsesDatabase reports whether items are stored through database/sql.
func (c StorageConfig) UsesDatabase() bool {
	return c.Driver != "yaml"
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"-"`
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	SQLitePath      string            `mapstructure:"sqlite_path"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"gte=0"`
}

type SchedulerConfig struct {
	MaxItemsPerDay int    `mapstructure:"max_items_per_day" validate:"gt=0"`
	PredictionDays int    `mapstructure:"prediction_days" validate:"gt=0,lte=365"`
	Timezone       string `mapstructure:"timezone" validate:"omitempty,timezone"`
}

// Location returns the configured time zone, falling back to local time.
func (c SchedulerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

type ReminderConfig struct {
	CheckInterval   time.Duration `mapstructure:"check_interval" validate:"gt=0"`
	Lookahead       time.Duration `mapstructure:"lookahead" validate:"gt=0"`
	// ShutdownTimeout bounds how long the remind loop waits for a delivery in flight.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type NotifyConfig struct {
	Console bool          `mapstructure:"console"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

type WebhookConfig struct {
	URL        string        `mapstructure:"url" validate:"omitempty,webhook_url"`
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type OutputsConfig struct {
	PlanDirectory string `mapstructure:"plan_directory"`
	PlanTemplate  string `mapstructure:"plan_template" validate:"omitempty,file"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/recallr")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("storage.driver", "yaml")
	v.SetDefault("storage.yaml_directory", filepath.Join("data", "items"))
	v.SetDefault("storage.node_id", 1)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "recallr")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.sqlite_path", filepath.Join("data", "recallr.db"))
	v.SetDefault("scheduler.max_items_per_day", 20)
	v.SetDefault("scheduler.prediction_days", 7)
	v.SetDefault("reminder.check_interval", time.Minute)
	v.SetDefault("reminder.lookahead", 15*time.Minute)
	v.SetDefault("reminder.shutdown_timeout", 10*time.Second)
	v.SetDefault("notify.console", true)
	v.SetDefault("notify.webhook.max_retries", 3)
	v.SetDefault("notify.webhook.timeout", 10*time.Second)
	v.SetDefault("outputs.plan_directory", filepath.Join("outputs", "plans"))
	// Template is optional - if not specified, the embedded daily plan template is used
	v.SetDefault("outputs.plan_template", "")

	// Bind secrets to environment variables
	if err := v.BindEnv("database.password", "RECALLR_DATABASE_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALLR_DATABASE_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("notify.webhook.url", "RECALLR_WEBHOOK_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind RECALLR_WEBHOOK_URL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.Database.Driver = cfg.Storage.Driver

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
