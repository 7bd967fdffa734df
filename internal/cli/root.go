// filepath: internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"medialocker/internal/api"
	"medialocker/internal/api/handlers"
	"medialocker/internal/audit"
	"medialocker/internal/config"
	"medialocker/internal/logging"
	"medialocker/internal/repository"
	"medialocker/internal/seed"
	"medialocker/internal/services"
	"medialocker/internal/services/auth"
	"medialocker/internal/storage"
)

var (
	Version = "1.0.0"

	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags
	cfgFile       string
	password      string
	port          int
	logLevel      string
	resetPassword bool
	jwtSecret     string
	maxUpload     string
	seedFile      string
	auditEnabled  bool
)

// RootCmd represents the base command when called without any subcommands.
// It starts the HTTP server.
var RootCmd = &cobra.Command{
	Use:   "medialocker",
	Short: "MediaLocker API",
	Long:  `A multi-user REST API for storing and sharing images, with per-account ownership and favourites.`,
	// PersistentPreRunE loads the configuration before any command runs.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: MLK_CONFIG_PATH)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: MLK_LOG_LEVEL)")

	// Server-specific flags
	RootCmd.Flags().StringVar(&password, "password", "", "Password for the 'admin' user. (Env: MLK_PASSWORD)")
	RootCmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: MLK_PORT)")
	RootCmd.Flags().BoolVar(&resetPassword, "reset_pw", false, "If true, reset admin password on startup. (Env: MLK_RESET_PW=true)")
	RootCmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: MLK_JWT_SECRET)")
	RootCmd.Flags().StringVar(&maxUpload, "max-upload", "", "Max size per upload request (e.g. '32MB'). (Env: MLK_MAX_UPLOAD)")
	RootCmd.Flags().StringVar(&seedFile, "seed_file", "", "Path to a TOML file with accounts to create on startup. (Env: MLK_SEED_FILE)")
	RootCmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable detailed audit logging. (Env: MLK_AUDIT_ENABLED=true)")
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// Environment variable for the config path wins over the default.
	if envPath := os.Getenv("MLK_CONFIG_PATH"); envPath != "" && cfgFile == "config.toml" {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Rely on defaults/flags when no file exists yet.
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	applyOverrides(cfg, cmd)

	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logging.Init(cfg.Logging.Level)
	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command) {
	// --- 1. Environment variables ---
	if v := os.Getenv("MLK_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := os.Getenv("MLK_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("MLK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MLK_AUDIT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.AuditEnabled = b
		}
	}
	if v := os.Getenv("MLK_RESET_PW"); v == "true" {
		c.ResetAdminPassword = true
	}
	if v := os.Getenv("MLK_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MLK_STORAGE_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := os.Getenv("MLK_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("MLK_MAX_UPLOAD"); v != "" {
		c.Server.MaxUploadSize = v
	}

	// --- 2. CLI flags (take precedence) ---
	if password != "" {
		c.AdminPassword = password
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if resetPassword {
		c.ResetAdminPassword = true
	}
	if jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if maxUpload != "" {
		c.Server.MaxUploadSize = maxUpload
	}
	if seedFile == "" {
		if v := os.Getenv("MLK_SEED_FILE"); v != "" {
			seedFile = v
		}
	}

	// --- 3. Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "medialocker.db"
	}
	if c.Storage.Root == "" {
		c.Storage.Root = "media_root"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.JWT.ExpiryMinutes == 0 {
		c.JWT.ExpiryMinutes = 120
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "medialocker"
	}
	if c.JWT.Audience == "" {
		c.JWT.Audience = "medialocker-clients"
	}
}

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	// Handle JWT secret: flag/env, then config file, else generate and
	// persist one so tokens survive restarts.
	if cfg.JWTSecret == "" {
		if cfg.JWT.Secret != "" {
			logging.Log.Info("Using JWT secret loaded from config.toml.")
			cfg.JWTSecret = cfg.JWT.Secret
		} else {
			logging.Log.Info("Generating new random JWT secret...")
			newSecret, err := auth.GenerateSecret()
			if err != nil {
				return fmt.Errorf("failed to generate JWT secret: %w", err)
			}
			cfg.JWT.Secret = newSecret
			cfg.JWTSecret = newSecret
			if err := config.SaveConfig(cfgFile, cfg); err != nil {
				logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
			} else {
				logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
			}
		}
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	// Conditional auto-migrate on startup.
	if err := repo.EnsureSchemaBootstrapped(); err != nil {
		logging.Log.Errorf("Failed to bootstrap database: %v", err)
		return err
	}
	if err := repo.ValidateSchema(); err != nil {
		logging.Log.Errorf("CRITICAL DATABASE ERROR: %v", err)
		return err
	}

	store, err := storage.New(cfg.Storage.Root)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}

	loggerAuditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)
	userService := services.NewUserService(repo, store, loggerAuditor)
	imageService := services.NewImageService(repo, store, loggerAuditor)
	tokenService := auth.NewTokenService(cfg)
	authMiddleware := auth.NewMiddleware(tokenService)

	if err := userService.EnsureAdmin(cfg); err != nil {
		return fmt.Errorf("failed to handle admin account: %w", err)
	}

	if seedFile != "" {
		logging.Log.Infof("Found seed_file, creating accounts from: %s", seedFile)
		if err := seed.Run(repo, seedFile); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
	}

	h := handlers.NewHandlers(userService, imageService, tokenService, cfg)
	r := api.SetupRouter(h, authMiddleware)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// Graceful shutdown: let in-flight requests finish for up to 30s.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (Max Upload: %s)", serverAddr, cfg.Server.MaxUploadSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
