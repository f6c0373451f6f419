package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `json:"app"`
	Database DatabaseConfig `json:"database"`
	Cache    CacheConfig    `json:"cache"`
	Query    QueryConfig    `json:"query"`
}

// AppConfig holds application-related configuration
type AppConfig struct {
	Name  string `json:"name"`
	Debug bool   `json:"debug"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Mongo    MongoConfig      `json:"mongo"`
	Postgres PostgreSQLConfig `json:"postgres"`
}

// MongoConfig holds MongoDB-specific configuration for the record store
type MongoConfig struct {
	URI                    string `json:"uri"`
	Database               string `json:"database"`
	MaxPoolSize            int    `json:"maxPoolSize"`
	MinPoolSize            int    `json:"minPoolSize"`
	ConnectTimeout         int    `json:"connectTimeout"`
	ServerSelectionTimeout int    `json:"serverSelectionTimeout"`
}

// PostgreSQLConfig holds PostgreSQL-specific configuration for reference data
type PostgreSQLConfig struct {
	Host            string        `json:"host"`
	Port            int           `json:"port"`
	Username        string        `json:"username"`
	Password        string        `json:"password"`
	Database        string        `json:"database"`
	SSLMode         string        `json:"sslMode"`
	MaxOpenConns    int           `json:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Enabled         bool          `json:"enabled"`
	Backend         string        `json:"backend"`
	Prefix          string        `json:"prefix"`
	TTL             time.Duration `json:"ttl"`
	CleanupInterval time.Duration `json:"cleanupInterval"`
	Redis           RedisConfig   `json:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	Database int    `json:"database"`
	PoolSize int    `json:"poolSize"`
}

// QueryConfig holds query compiler tunables
type QueryConfig struct {
	// ResolveDepth caps catalog hops through resource fields during path
	// resolution, protecting against self-referential schemas.
	ResolveDepth int `json:"resolveDepth"`
}

// LoadConfig loads the configuration from the environment, reading an
// optional .env file first. Missing .env is not an error.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:  getEnv("APP_NAME", "formhive"),
			Debug: getEnvBool("APP_DEBUG", false),
		},
		Database: DatabaseConfig{
			Mongo: MongoConfig{
				URI:                    getEnv("MONGO_URI", "mongodb://localhost:27017"),
				Database:               getEnv("MONGO_DATABASE", "formhive"),
				MaxPoolSize:            getEnvInt("MONGO_MAX_POOL_SIZE", 100),
				MinPoolSize:            getEnvInt("MONGO_MIN_POOL_SIZE", 0),
				ConnectTimeout:         getEnvInt("MONGO_CONNECT_TIMEOUT", 10),
				ServerSelectionTimeout: getEnvInt("MONGO_SERVER_SELECTION_TIMEOUT", 10),
			},
			Postgres: PostgreSQLConfig{
				Host:            getEnv("POSTGRES_HOST", "localhost"),
				Port:            getEnvInt("POSTGRES_PORT", 5432),
				Username:        getEnv("POSTGRES_USER", ""),
				Password:        getEnv("POSTGRES_PASSWORD", ""),
				Database:        getEnv("POSTGRES_DATABASE", "formhive_refdata"),
				SSLMode:         getEnv("POSTGRES_SSL_MODE", "disable"),
				MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 25),
				MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
				ConnMaxLifetime: getEnvDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),
			},
		},
		Cache: CacheConfig{
			Enabled:         getEnvBool("CACHE_ENABLED", true),
			Backend:         getEnv("CACHE_BACKEND", "memory"),
			Prefix:          getEnv("CACHE_PREFIX", "formhive"),
			TTL:             getEnvDuration("CACHE_TTL", 5*time.Minute),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
			Redis: RedisConfig{
				Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				Database: getEnvInt("REDIS_DATABASE", 0),
				PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
			},
		},
		Query: QueryConfig{
			ResolveDepth: getEnvInt("QUERY_RESOLVE_DEPTH", 3),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if c.Database.Mongo.URI == "" {
		return fmt.Errorf("config: MONGO_URI must not be empty")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	if c.Query.ResolveDepth < 1 {
		return fmt.Errorf("config: QUERY_RESOLVE_DEPTH must be at least 1")
	}
	return nil
}

// getEnv retrieves an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback value
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable with a fallback value
func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvDuration retrieves a duration environment variable with a fallback value
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
