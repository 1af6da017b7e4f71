package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/markb/shoplite/internal/config"
	"github.com/markb/shoplite/internal/log"
	"github.com/markb/shoplite/internal/server"
)

var (
	// Flags that override config file/env vars
	flagHost            string
	flagPort            int
	flagDataDir         string
	flagUploadDir       string
	flagAdminPathPrefix string
	flagAdminUsername   string
	flagAdminDigest     string
	flagPgPort          uint16
	flagPgUsername      string
	flagPgPassword      string
	flagPgDatabase      string
	flagCORSOrigins     []string
	flagCacheTTL        int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Shoplite server",
	Long: `Start the Shoplite server with embedded PostgreSQL.

The server exposes the public storefront API, uploaded product images, and
the Basic-Auth-protected admin API. Admin credentials must be provisioned
before starting; see "shoplite config admin" and "shoplite admin digest".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set log level
		log.SetLevel(log.LevelInfo)

		// Load configuration (file + env vars)
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Apply flag overrides (flags take precedence over file and env vars)
		applyFlagOverrides(cfg)

		// Refuse to start without a provisioned admin secret. Starting anyway
		// would silently deny every admin request, which is much harder to
		// diagnose than an error at boot.
		if !cfg.HasAdminCredentials() {
			return fmt.Errorf("admin credentials are not provisioned: set admin_username and admin_password_digest " +
				"(run \"shoplite config admin\" or set SHOPLITE_ADMIN_USERNAME and SHOPLITE_ADMIN_PASSWORD_DIGEST)")
		}

		// Create server configuration
		srvCfg := server.Config{
			Host:                cfg.Host,
			Port:                cfg.Port,
			DataDir:             cfg.DataDir,
			UploadDir:           cfg.UploadDir,
			AdminPathPrefix:     cfg.AdminPathPrefix,
			AdminUsername:       cfg.AdminUsername,
			AdminPasswordDigest: cfg.AdminPasswordDigest,
			PGPort:              cfg.PGPort,
			PGUsername:          cfg.PGUsername,
			PGPassword:          cfg.PGPassword,
			PGDatabase:          cfg.PGDatabase,
			CORSOrigins:         cfg.CORSOrigins,
			CacheTTL:            time.Duration(cfg.CacheTTLSeconds) * time.Second,
		}

		// Create and start server
		srv := server.New(srvCfg)
		return srv.Start(context.Background())
	},
}

// applyFlagOverrides applies command-line flag values to the config.
// Flags take precedence over both file and environment variable values.
func applyFlagOverrides(cfg *config.Config) {
	if flagHost != "" {
		cfg.Host = flagHost
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagUploadDir != "" {
		cfg.UploadDir = flagUploadDir
	}
	if flagAdminPathPrefix != "" {
		cfg.AdminPathPrefix = flagAdminPathPrefix
	}
	if flagAdminUsername != "" {
		cfg.AdminUsername = flagAdminUsername
	}
	if flagAdminDigest != "" {
		cfg.AdminPasswordDigest = flagAdminDigest
	}
	if flagPgPort != 0 {
		cfg.PGPort = flagPgPort
	}
	if flagPgUsername != "" {
		cfg.PGUsername = flagPgUsername
	}
	if flagPgPassword != "" {
		cfg.PGPassword = flagPgPassword
	}
	if flagPgDatabase != "" {
		cfg.PGDatabase = flagPgDatabase
	}
	if len(flagCORSOrigins) > 0 {
		cfg.CORSOrigins = flagCORSOrigins
	}
	if flagCacheTTL != 0 {
		cfg.CacheTTLSeconds = flagCacheTTL
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringVar(&flagHost, "host", "", "Host to bind to (overrides config file and env vars)")
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "Port to listen on (overrides config file and env vars)")
	serveCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Data directory for PostgreSQL (overrides config file and env vars)")
	serveCmd.Flags().StringVar(&flagUploadDir, "upload-dir", "", "Directory for uploaded product images (overrides config file and env vars)")

	// Admin gate configuration
	serveCmd.Flags().StringVar(&flagAdminPathPrefix, "admin-path-prefix", "", "Path prefix protected by Basic Auth (default /admin)")
	serveCmd.Flags().StringVar(&flagAdminUsername, "admin-username", "", "Expected admin username")
	serveCmd.Flags().StringVar(&flagAdminDigest, "admin-password-digest", "", "Base64 SHA-512 digest of the admin password (see \"shoplite admin digest\")")

	// Database configuration
	serveCmd.Flags().Uint16Var(&flagPgPort, "pg-port", 0, "PostgreSQL port (overrides config file and env vars)")
	serveCmd.Flags().StringVar(&flagPgUsername, "pg-username", "", "PostgreSQL username (overrides config file and env vars)")
	serveCmd.Flags().StringVar(&flagPgPassword, "pg-password", "", "PostgreSQL password (overrides config file and env vars)")
	serveCmd.Flags().StringVar(&flagPgDatabase, "pg-database", "", "PostgreSQL database name (overrides config file and env vars)")

	// Public API configuration
	serveCmd.Flags().StringSliceVar(&flagCORSOrigins, "cors-origins", nil, "Allowed CORS origins for the public API")
	serveCmd.Flags().IntVar(&flagCacheTTL, "cache-ttl-seconds", 0, "TTL for cached storefront reads")
}
