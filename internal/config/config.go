package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ConfigFile is the name of the JSON configuration file Shoplite looks for
// in the working directory.
const ConfigFile = "shoplite.json"

// Config holds the complete Shoplite configuration
type Config struct {
	// Server settings
	Host      string `json:"host,omitempty"`
	Port      int    `json:"port,omitempty"`
	DataDir   string `json:"data_dir,omitempty"`
	UploadDir string `json:"upload_dir,omitempty"`

	// Admin gate settings. The digest is the base64-encoded SHA-512 hash of
	// the admin password, produced by `shoplite admin digest`. Both values
	// are secrets and must never appear in logs or responses.
	AdminPathPrefix     string `json:"admin_path_prefix,omitempty"`
	AdminUsername       string `json:"admin_username,omitempty"`
	AdminPasswordDigest string `json:"admin_password_digest,omitempty"`

	// PostgreSQL settings
	PGPort     uint16 `json:"pg_port,omitempty"`
	PGUsername string `json:"pg_username,omitempty"`
	PGPassword string `json:"pg_password,omitempty"`
	PGDatabase string `json:"pg_database,omitempty"`

	// Public API settings
	CORSOrigins     []string `json:"cors_origins,omitempty"`
	CacheTTLSeconds int      `json:"cache_ttl_seconds,omitempty"`
}

// Load loads configuration from shoplite.json (if exists) with fallback to
// environment variables. The JSON file takes precedence over environment
// variables for any fields that are set.
func Load() (*Config, error) {
	cfg := &Config{}

	if data, err := os.ReadFile(ConfigFile); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
		}
	} else if !os.IsNotExist(err) {
		// File exists but failed to read
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	applyEnvFallbacks(cfg)
	setDefaults(cfg)

	return cfg, nil
}

// Save writes the configuration to shoplite.json.
func (cfg *Config) Save() error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(ConfigFile, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", ConfigFile, err)
	}
	return nil
}

// HasAdminCredentials reports whether both halves of the stored admin
// secret are provisioned. The server refuses to start without them rather
// than silently denying every admin request.
func (cfg *Config) HasAdminCredentials() bool {
	return cfg.AdminUsername != "" && cfg.AdminPasswordDigest != ""
}

// applyEnvFallbacks applies environment variable values to any unset config fields
func applyEnvFallbacks(cfg *Config) {
	// Server settings
	if cfg.Host == "" {
		cfg.Host = getEnv("SHOPLITE_HOST", "")
	}
	if cfg.Port == 0 {
		cfg.Port = getEnvInt("SHOPLITE_PORT", 0)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = getEnv("SHOPLITE_DATA_DIR", "")
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = getEnv("SHOPLITE_UPLOAD_DIR", "")
	}

	// Admin gate settings
	if cfg.AdminPathPrefix == "" {
		cfg.AdminPathPrefix = getEnv("SHOPLITE_ADMIN_PATH_PREFIX", "")
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = getEnv("SHOPLITE_ADMIN_USERNAME", "")
	}
	if cfg.AdminPasswordDigest == "" {
		cfg.AdminPasswordDigest = getEnv("SHOPLITE_ADMIN_PASSWORD_DIGEST", "")
	}

	// PostgreSQL settings
	if cfg.PGPort == 0 {
		cfg.PGPort = uint16(getEnvInt("SHOPLITE_PG_PORT", 0))
	}
	if cfg.PGUsername == "" {
		cfg.PGUsername = getEnv("SHOPLITE_PG_USERNAME", "")
	}
	if cfg.PGPassword == "" {
		cfg.PGPassword = getEnv("SHOPLITE_PG_PASSWORD", "")
	}
	if cfg.PGDatabase == "" {
		cfg.PGDatabase = getEnv("SHOPLITE_PG_DATABASE", "")
	}

	// Public API settings
	if cfg.CacheTTLSeconds == 0 {
		cfg.CacheTTLSeconds = getEnvInt("SHOPLITE_CACHE_TTL_SECONDS", 0)
	}
}

// setDefaults sets default values for any empty fields
func setDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = "./data/uploads"
	}
	if cfg.AdminPathPrefix == "" {
		cfg.AdminPathPrefix = "/admin"
	}
	if cfg.PGPort == 0 {
		cfg.PGPort = 5432
	}
	if cfg.CacheTTLSeconds == 0 {
		cfg.CacheTTLSeconds = 30
	}
}

// getEnv gets an environment variable or returns the default value
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt gets an environment variable as an integer or returns the default value
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var intVal int
		if _, err := fmt.Sscanf(val, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultVal
}
