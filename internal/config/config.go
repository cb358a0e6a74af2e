package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage drivers understood by the settings store.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Port     int
	LogLevel string
	BaseURL  string
	Storage  StorageConfig
	Studio   StudioConfig
}

type StorageConfig struct {
	Driver         string
	DSN            string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	MaxRecordBytes int
}

type StudioConfig struct {
	SessionCapacity int
	MaxLogoBytes    int64
	CookieName      string
}

// Production reports whether logs should use the production encoder.
func (c Config) Production() bool {
	return strings.EqualFold(c.LogLevel, "INFO")
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory (or path, when non-empty) and QRD_* environment variables.
// PORT is honoured as well, as most hosting platforms set it.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("QRD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("port", "PORT", "QRD_PORT")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetInt("port"),
		LogLevel: strings.ToUpper(v.GetString("log.level")),
		BaseURL:  v.GetString("base-url"),
		Storage: StorageConfig{
			Driver:         strings.ToLower(v.GetString("storage.driver")),
			DSN:            v.GetString("storage.dsn"),
			RedisAddr:      v.GetString("storage.redis.addr"),
			RedisPassword:  v.GetString("storage.redis.password"),
			RedisDB:        v.GetInt("storage.redis.db"),
			MaxRecordBytes: v.GetInt("storage.max-record-bytes"),
		},
		Studio: StudioConfig{
			SessionCapacity: v.GetInt("studio.session-capacity"),
			MaxLogoBytes:    v.GetInt64("studio.max-logo-bytes"),
			CookieName:      v.GetString("studio.cookie-name"),
		},
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log.level", "INFO")
	v.SetDefault("base-url", "")
	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.dsn", "qrdesigner.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.max-record-bytes", 5*1024*1024)
	v.SetDefault("studio.session-capacity", 1000)
	v.SetDefault("studio.max-logo-bytes", 10*1024*1024)
	v.SetDefault("studio.cookie-name", "qr_client")
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Storage.MaxRecordBytes <= 0 {
		return errors.New("storage.max-record-bytes must be positive")
	}
	if c.Studio.SessionCapacity <= 0 {
		return errors.New("studio.session-capacity must be positive")
	}
	if c.Studio.MaxLogoBytes <= 0 {
		return errors.New("studio.max-logo-bytes must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
