// Package config provides configuration management for the MovAI backend.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting:
// every problem found is reported at once instead of failing on the first one.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Supported values for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds the credential store settings.
type DatabaseConfig struct {
	Driver       string // "sqlite" or "postgres"
	Path         string // SQLite file path (":memory:" for an in-memory database)
	URL          string // PostgreSQL connection URL, only used with the postgres driver
	MaxOpenConns int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret     string        // Secret key for signing session tokens
	TokenDuration time.Duration // Lifetime of a session token
	BcryptCost    int           // bcrypt work factor
	HashWorkers   int           // Size of the password hashing worker pool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	CORSAllowedOrigins []string
}

// LogConfig selects the log level ("debug", "info", "warn", "error") and
// format ("json" or "text").
type LogConfig struct {
	Level  string
	Format string
}

// CatalogConfig configures the TMDB catalog proxy. An empty APIKey disables it.
type CatalogConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// ChatConfig configures the Wit.ai intent endpoint. An empty APIKey disables it.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	Server   *ServerConfig
	Log      *LogConfig
	Catalog  *CatalogConfig
	Chat     *ChatConfig
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set or empty.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "168h".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	if valueDuration <= 0 {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: duration must be positive, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueDuration
}

// getOptionalEnvList splits a comma separated variable, dropping empty items.
func getOptionalEnvList(key string, defaultValue []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// clampInt keeps value within [min, max], recording an error when it had to clamp.
func clampInt(value, min, max int, varName string, errors *[]string) int {
	if value < min {
		*errors = append(*errors, fmt.Sprintf("%s (%d) is less than minimum %d", varName, value, min))
		return min
	}
	if value > max {
		*errors = append(*errors, fmt.Sprintf("%s (%d) is greater than maximum %d", varName, value, max))
		return max
	}
	return value
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database Configuration
	driver := strings.ToLower(getOptionalEnv("DB_DRIVER", DriverSQLite))
	dbCfg := &DatabaseConfig{Driver: driver}
	switch driver {
	case DriverSQLite:
		dbCfg.Path = getOptionalEnv("DB_PATH", "./database.db")
		// SQLite serializes writers anyway; one connection avoids SQLITE_BUSY churn.
		dbCfg.MaxOpenConns = getOptionalEnvInt("DB_MAX_OPEN_CONNS", 1, &errors)
	case DriverPostgres:
		dbCfg.URL = getRequiredEnv("DATABASE_URL", &errors)
		dbCfg.MaxOpenConns = getOptionalEnvInt("DB_MAX_OPEN_CONNS", 10, &errors)
	default:
		errors = append(errors, fmt.Sprintf("invalid value for DB_DRIVER: expected %q or %q, got '%s'", DriverSQLite, DriverPostgres, driver))
	}
	dbCfg.MaxOpenConns = clampInt(dbCfg.MaxOpenConns, 1, 100, "DB_MAX_OPEN_CONNS", &errors)

	// Auth Configuration
	authCfg := &AuthConfig{
		JWTSecret:     getRequiredEnv("JWT_SECRET", &errors),
		TokenDuration: getOptionalEnvDuration("JWT_TOKEN_DURATION", 7*24*time.Hour, &errors),
		BcryptCost:    getOptionalEnvInt("BCRYPT_COST", 10, &errors),
		HashWorkers:   getOptionalEnvInt("HASH_WORKERS", runtime.NumCPU(), &errors),
	}
	// Bounds match bcrypt.MinCost and bcrypt.MaxCost.
	authCfg.BcryptCost = clampInt(authCfg.BcryptCost, 4, 31, "BCRYPT_COST", &errors)
	authCfg.HashWorkers = clampInt(authCfg.HashWorkers, 1, 64, "HASH_WORKERS", &errors)

	// Server Configuration
	serverCfg := &ServerConfig{
		Port:               getOptionalEnv("PORT", "8080"),
		ReadTimeout:        getOptionalEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second, &errors),
		WriteTimeout:       getOptionalEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second, &errors),
		IdleTimeout:        getOptionalEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second, &errors),
		CORSAllowedOrigins: getOptionalEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	logCfg := &LogConfig{
		Level:  strings.ToLower(getOptionalEnv("LOG_LEVEL", "info")),
		Format: strings.ToLower(getOptionalEnv("LOG_FORMAT", "json")),
	}
	switch logCfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid value for LOG_LEVEL: got '%s'", logCfg.Level))
	}
	if logCfg.Format != "json" && logCfg.Format != "text" {
		errors = append(errors, fmt.Sprintf("invalid value for LOG_FORMAT: expected json or text, got '%s'", logCfg.Format))
	}

	clientTimeout := getOptionalEnvDuration("HTTP_CLIENT_TIMEOUT", 10*time.Second, &errors)
	catalogCfg := &CatalogConfig{
		APIKey:  getOptionalEnv("TMDB_API_KEY", ""),
		BaseURL: strings.TrimRight(getOptionalEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"), "/"),
		Timeout: clientTimeout,
	}
	chatCfg := &ChatConfig{
		APIKey:  getOptionalEnv("WIT_API_KEY", ""),
		BaseURL: getOptionalEnv("WIT_BASE_URL", "https://api.wit.ai/message"),
		Timeout: clientTimeout,
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Database: dbCfg,
		Auth:     authCfg,
		Server:   serverCfg,
		Log:      logCfg,
		Catalog:  catalogCfg,
		Chat:     chatCfg,
	}, nil
}
