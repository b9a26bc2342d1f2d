package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported storage adapters
const (
	AdapterSQLite       = "sqlite"
	AdapterLocalStorage = "localstorage"
	AdapterMySQL        = "mysql"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port               string
	Mode               string
	ReadTimeout        int
	WriteTimeout       int
	ShutdownTimeout    int
	RateLimitRPS       int
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Adapter      string
	SQLite       SQLiteConfig
	LocalStorage LocalStorageConfig
	MySQL        MySQLConfig
}

type SQLiteConfig struct {
	Path string
}

// LocalStorageConfig points at the JSON file backing the local storage
// adapter. The special path ":memory:" keeps the data in process memory.
type LocalStorageConfig struct {
	Path string
}

type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	PoolSize int
}

type LogConfig struct {
	Level string
}

// Load loads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Mode:               getEnv("GIN_MODE", "release"),
			ReadTimeout:        getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:       getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout:    getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			RateLimitRPS:       getEnvAsInt("RATE_LIMIT_RPS", 100),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Adapter: strings.ToLower(getEnv("DB_ADAPTER", AdapterSQLite)),
			SQLite: SQLiteConfig{
				Path: getEnv("SQLITE_PATH", "./phonebook.db"),
			},
			LocalStorage: LocalStorageConfig{
				Path: getEnv("LOCALSTORAGE_PATH", "./phonebook_storage.json"),
			},
			MySQL: MySQLConfig{
				Host:     getEnv("MYSQL_HOST", "localhost"),
				Port:     getEnvAsInt("MYSQL_PORT", 3306),
				User:     getEnv("MYSQL_USER", "phonebook_user"),
				Password: getEnv("MYSQL_PASSWORD", "phonebook_pass"),
				Database: getEnv("MYSQL_DATABASE", "phonebook"),
				PoolSize: getEnvAsInt("MYSQL_POOL_SIZE", 10),
			},
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration selects a known adapter with usable settings
func (c *Config) Validate() error {
	return c.Database.Validate()
}

// Validate checks the storage adapter selection
func (d DatabaseConfig) Validate() error {
	switch d.Adapter {
	case AdapterSQLite:
		if strings.TrimSpace(d.SQLite.Path) == "" {
			return fmt.Errorf("SQLITE_PATH is required for the %s adapter", AdapterSQLite)
		}
	case AdapterLocalStorage:
	case AdapterMySQL:
		if d.MySQL.Host == "" || d.MySQL.Database == "" {
			return fmt.Errorf("MYSQL_HOST and MYSQL_DATABASE are required for the %s adapter", AdapterMySQL)
		}
		if d.MySQL.PoolSize <= 0 {
			return fmt.Errorf("MYSQL_POOL_SIZE must be positive, got %d", d.MySQL.PoolSize)
		}
	default:
		return fmt.Errorf("unsupported database adapter: %q", d.Adapter)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated environment variable
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
