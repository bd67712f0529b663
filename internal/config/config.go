package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

// Auth modes. "none" runs everything as a single local user, "account"
// enables register/login with JWT.
const (
	AuthModeNone    = "none"
	AuthModeAccount = "account"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type AuthConfig struct {
	Mode        string `mapstructure:"mode"` // none / account
	JWTSecret   string `mapstructure:"jwt_secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	KeepFiles bool   `mapstructure:"keep_files"` // keep uploaded statements after import
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
// The result, including a failure, is latched: every later call returns the
// outcome of the first one.
func Load(path string) (*Config, error) {
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. CL_SERVER_PORT=9000
		v.SetEnvPrefix("CL") // card ledger
		v.AutomaticEnv()

		v.SetDefault("server.address", "127.0.0.1")
		v.SetDefault("server.port", 8080)
		v.SetDefault("database.path", "data/ledger.db")
		v.SetDefault("auth.mode", AuthModeNone)
		v.SetDefault("auth.expire_hours", 24)
		v.SetDefault("upload.dir", "uploads")
		v.SetDefault("upload.max_size_mb", 16)
		v.SetDefault("log.level", "info")

		if err := v.ReadInConfig(); err != nil {
			loadErr = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err := v.Unmarshal(&c); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if c.Auth.Mode != AuthModeNone && c.Auth.Mode != AuthModeAccount {
			loadErr = fmt.Errorf("invalid auth.mode %q", c.Auth.Mode)
			return
		}
		if c.Auth.Mode == AuthModeAccount && c.Auth.JWTSecret == "" {
			loadErr = fmt.Errorf("auth.jwt_secret is required when auth.mode is %q", AuthModeAccount)
			return
		}

		appConfig = &c
	})

	return appConfig, loadErr
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
