// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Dataset DatasetConfig
	Cache   CacheConfig
	Server  ServerConfig
	Rate    RateConfig
	Limits  LimitsConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DatasetConfig holds catalog dataset configuration.
type DatasetConfig struct {
	// Path to the catalog CSV file. Required.
	Path string
	// Watch enables the file watcher that flags a stale dataset. A changed
	// file is never reloaded in-process; the flag tells operators to restart.
	Watch bool
}

// CacheConfig holds snapshot cache configuration.
type CacheConfig struct {
	// Path to the SQLite snapshot cache. Empty disables the warm-start cache.
	Path string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name         string
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed CORS origins (default: *)
}

// RateConfig holds request rate limiting configuration.
type RateConfig struct {
	// RPS is the sustained requests per second allowed per client.
	RPS float64
	// Burst is the burst size allowed per client.
	Burst int
}

// LimitsConfig holds the dashboard series and table page limits.
type LimitsConfig struct {
	TopGenres    int // Exploded genres kept in the top-genres chart (default: 15)
	TopCountries int // Exploded countries kept in the top-countries chart (default: 15)
	TopRatings   int // Ratings kept in the rating distribution (default: 10)
	TableLimit   int // Record table page size when a request names none (default: 100)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	datasetPath := flag.String("dataset", "", "Path to the catalog CSV file")
	datasetWatch := flag.String("watch", "", "Watch the dataset file for changes (default: true)")
	cachePath := flag.String("cache-path", "", "Path to the SQLite snapshot cache (empty disables)")
	serverName := flag.String("server-name", "", "Name for the server")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	rateRPS := flag.String("rate-rps", "", "Sustained requests per second per client (default: 10)")
	rateBurst := flag.String("rate-burst", "", "Burst size per client (default: 20)")

	topGenres := flag.String("top-genres", "", "Genres kept in the top-genres chart (default: 15)")
	topCountries := flag.String("top-countries", "", "Countries kept in the top-countries chart (default: 15)")
	topRatings := flag.String("top-ratings", "", "Ratings kept in the rating distribution (default: 10)")
	tableLimit := flag.String("table-limit", "", "Default record table page size (default: 100)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Dataset: DatasetConfig{
			Path:  getConfigValue(*datasetPath, "DATASET_PATH", ""),
			Watch: getBoolConfigValue(*datasetWatch, "DATASET_WATCH", true),
		},
		Cache: CacheConfig{
			Path: getConfigValue(*cachePath, "CACHE_PATH", ""),
		},
		Server: ServerConfig{
			Name:        getConfigValue(*serverName, "SERVER_NAME", "StreamLens Server"),
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitOrigins(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Rate: RateConfig{
			RPS:   getFloatConfigValue(*rateRPS, "RATE_RPS", 10),
			Burst: getIntConfigValue(*rateBurst, "RATE_BURST", 20),
		},
		Limits: LimitsConfig{
			TopGenres:    getIntConfigValue(*topGenres, "TOP_GENRES", 15),
			TopCountries: getIntConfigValue(*topCountries, "TOP_COUNTRIES", 15),
			TopRatings:   getIntConfigValue(*topRatings, "TOP_RATINGS", 10),
			TableLimit:   getIntConfigValue(*tableLimit, "TABLE_LIMIT", 100),
		},
	}

	// Parse server timeouts.
	readTimeoutStr := getConfigValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	readTimeoutDuration, err := time.ParseDuration(readTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid read timeout %q: %w", readTimeoutStr, err)
	}
	cfg.Server.ReadTimeout = readTimeoutDuration

	writeTimeoutStr := getConfigValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	writeTimeoutDuration, err := time.ParseDuration(writeTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid write timeout %q: %w", writeTimeoutStr, err)
	}
	cfg.Server.WriteTimeout = writeTimeoutDuration

	idleTimeoutStr := getConfigValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	idleTimeoutDuration, err := time.ParseDuration(idleTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid idle timeout %q: %w", idleTimeoutStr, err)
	}
	cfg.Server.IdleTimeout = idleTimeoutDuration

	// Expand dataset and cache paths.
	if err := cfg.expandDatasetPath(); err != nil {
		return nil, fmt.Errorf("invalid dataset path: %w", err)
	}
	if err := cfg.expandCachePath(); err != nil {
		return nil, fmt.Errorf("invalid cache path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Dataset.Path == "" {
		return errors.New("DATASET_PATH is required")
	}

	if c.Rate.RPS <= 0 {
		return fmt.Errorf("invalid rate limit: %v requests per second", c.Rate.RPS)
	}
	if c.Rate.Burst < 1 {
		return fmt.Errorf("invalid rate burst: %d", c.Rate.Burst)
	}

	for name, v := range map[string]int{
		"TOP_GENRES":    c.Limits.TopGenres,
		"TOP_COUNTRIES": c.Limits.TopCountries,
		"TOP_RATINGS":   c.Limits.TopRatings,
	} {
		if v < 1 {
			return fmt.Errorf("invalid %s: %d (must be at least 1)", name, v)
		}
	}
	// The table page size must satisfy the same bounds the API enforces on
	// explicit limits.
	if c.Limits.TableLimit < 1 || c.Limits.TableLimit > 500 {
		return fmt.Errorf("invalid TABLE_LIMIT: %d (must be 1-500)", c.Limits.TableLimit)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDatasetPath expands ~ and makes the dataset path absolute. An empty
// path stays empty and fails validation with a clearer message.
func (c *Config) expandDatasetPath() error {
	if c.Dataset.Path == "" {
		return nil
	}

	expanded, err := expandPath(c.Dataset.Path)
	if err != nil {
		return err
	}
	c.Dataset.Path = expanded
	return nil
}

// expandCachePath expands ~ and makes the cache path absolute. Empty stays
// empty, which disables the warm-start cache.
func (c *Config) expandCachePath() error {
	if c.Cache.Path == "" {
		return nil
	}

	expanded, err := expandPath(c.Cache.Path)
	if err != nil {
		return err
	}
	c.Cache.Path = expanded
	return nil
}

// splitOrigins parses a comma-separated origin list.
func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
