package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Session SessionConfig `mapstructure:"session"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"baseURL"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration. Driver is "mysql" for
// deployments and "sqlite3" for local runs.
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// SessionConfig holds back-office session configuration.
type SessionConfig struct {
	Lifetime int  `mapstructure:"lifetime"` // hours
	Secure   bool `mapstructure:"secure"`
}

// AdminConfig controls back-office bootstrapping.
type AdminConfig struct {
	Seed bool `mapstructure:"seed"` // load demo users, categories and articles on start
}

// CacheConfig holds the render cache configuration.
type CacheConfig struct {
	FilePath string `mapstructure:"filePath"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.baseURL", "http://localhost:8080")
	viper.SetDefault("db.driver", "mysql")
	viper.SetDefault("db.dsn", "blog:blog@tcp(localhost:3306)/blog?parseTime=true")
	viper.SetDefault("session.lifetime", 12)
	viper.SetDefault("session.secure", false)
	viper.SetDefault("admin.seed", false)
	viper.SetDefault("cache.filePath", "render_cache.db")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	// Set up viper to read from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/go-blog-app/")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	// Set up viper to read from environment variables
	viper.SetEnvPrefix("BLOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal the config into the Config struct
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
