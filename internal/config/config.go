package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig
	Gin      *GinConfig
	Postgres *PostgresConfig
	Redis    *RedisConfig
	RabbitMQ *RabbitMQConfig
	Booking  *BookingConfig
}

type APIConfig struct {
	Environment        string
	Port               string
	BaseURL            string
	AllowedCORSDomains []string
	JWTSigningKey      string
}

type GinConfig struct {
	Mode string
}

type PostgresConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	DB           string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	CalendarTTL time.Duration
}

type RabbitMQConfig struct {
	Enabled  bool
	URL      string
	Exchange string
}

// BookingConfig is the hot-reloadable part of the configuration.
type BookingConfig struct {
	mu            sync.RWMutex
	Timezone      string
	NotifyTimeout time.Duration
}

func (b *BookingConfig) Timeout() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.NotifyTimeout
}

// Location falls back to UTC for unknown zones.
func (b *BookingConfig) Location() *time.Location {
	b.mu.RLock()
	defer b.mu.RUnlock()

	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}

	return loc
}

func (b *BookingConfig) set(timezone string, timeout time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Timezone = timezone
	b.NotifyTimeout = timeout
}

func IsDevelopment(env string) bool {
	return env == "development" || env == "local" || env == "test"
}

func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := fromViper(v)
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf.Validate -> %w", err)
	}

	return conf, nil
}

// Watch reloads the booking section whenever the config file changes on disk.
// Connection settings are only read at startup.
func Watch(path string, conf *AppConfig) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		zap.L().Warn("config watch disabled", zap.Error(err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		conf.Booking.set(v.GetString("booking.timezone"), v.GetDuration("booking.notify_timeout"))
		zap.L().Info("booking config reloaded",
			zap.String("file", e.Name),
			zap.Duration("notify_timeout", conf.Booking.Timeout()),
		)
	})
	v.WatchConfig()
}

func (c *AppConfig) Validate() error {
	var keyRules []validation.Rule
	if !IsDevelopment(c.API.Environment) {
		keyRules = append(keyRules, validation.Required)
	}

	return validation.ValidateStruct(c.API,
		validation.Field(&c.API.Port, validation.Required, is.Port),
		validation.Field(&c.API.JWTSigningKey, keyRules...),
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("redis.calendar_ttl", "10m")
	v.SetDefault("rabbitmq.exchange", "campsite.events")
	v.SetDefault("booking.timezone", "UTC")
	v.SetDefault("booking.notify_timeout", "5s")
}

func fromViper(v *viper.Viper) *AppConfig {
	conf := &AppConfig{
		API: &APIConfig{
			Environment:        v.GetString("api.environment"),
			Port:               v.GetString("api.port"),
			BaseURL:            v.GetString("api.base_url"),
			AllowedCORSDomains: v.GetStringSlice("api.allowed_cors_domains"),
			JWTSigningKey:      v.GetString("api.jwt_signing_key"),
		},
		Gin: &GinConfig{
			Mode: v.GetString("gin.mode"),
		},
		Postgres: &PostgresConfig{
			Host:         v.GetString("postgres.host"),
			Port:         v.GetString("postgres.port"),
			User:         v.GetString("postgres.user"),
			Password:     v.GetString("postgres.password"),
			DB:           v.GetString("postgres.db"),
			SSLMode:      v.GetString("postgres.sslmode"),
			MaxOpenConns: v.GetInt("postgres.max_open_conns"),
			MaxIdleConns: v.GetInt("postgres.max_idle_conns"),
		},
		Redis: &RedisConfig{
			Enabled:     v.GetBool("redis.enabled"),
			Addr:        v.GetString("redis.addr"),
			Password:    v.GetString("redis.password"),
			DB:          v.GetInt("redis.db"),
			CalendarTTL: v.GetDuration("redis.calendar_ttl"),
		},
		RabbitMQ: &RabbitMQConfig{
			Enabled:  v.GetBool("rabbitmq.enabled"),
			URL:      v.GetString("rabbitmq.url"),
			Exchange: v.GetString("rabbitmq.exchange"),
		},
		Booking: &BookingConfig{},
	}
	conf.Booking.set(v.GetString("booking.timezone"), v.GetDuration("booking.notify_timeout"))

	return conf
}
