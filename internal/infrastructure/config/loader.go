package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Wallet providers
const (
	ProviderAuto      = "auto"
	ProviderSimulated = "simulated"
	ProviderHTTP      = "http"
	ProviderPiteas    = "piteas"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration for the current environment
func LoadConfig() (*Config, error) {
	// Environment variables from a .env file are optional
	loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	// A missing config file is fine; defaults plus environment variables are
	// enough to run with the memory store and simulated backend
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("WP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.Environment = env

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// loadDotEnvFile loads the first .env file found on the known paths
func loadDotEnvFile() {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// getEnvironment resolves the runtime environment name
func getEnvironment() string {
	env := strings.ToLower(os.Getenv("WP_ENVIRONMENT"))
	switch env {
	case Production, Test:
		return env
	default:
		return Development
	}
}

// setDefaults registers defaults for non-critical settings
func setDefaults(v *viper.Viper) {
	v.SetDefault("storage", StorageMemory)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", "10s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "60s")
	v.SetDefault("server.readHeaderTimeout", "5s")
	v.SetDefault("server.shutdownTimeout", "15s")

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", "5m")
	v.SetDefault("database.connMaxIdleTime", "5m")
	v.SetDefault("database.queryTimeout", "10s")
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", "5s")

	v.SetDefault("logger.level", "info")

	v.SetDefault("wallet.provider", ProviderAuto)
	v.SetDefault("wallet.timeout", "30s")

	v.SetDefault("notifier.timeout", "10s")
}

// validate rejects configurations that cannot produce a working process.
// Backend parameters themselves are validated again at construction time by
// the wallet adapters; this catches impossible selections early.
func validate(config *Config) error {
	switch config.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("storage must be one of %s, %s; got %q",
			StoragePostgres, StorageMemory, config.Storage)
	}

	switch config.Wallet.Provider {
	case ProviderAuto, ProviderSimulated, ProviderHTTP, ProviderPiteas:
	default:
		return fmt.Errorf("wallet provider must be one of %s, %s, %s, %s; got %q",
			ProviderAuto, ProviderSimulated, ProviderHTTP, ProviderPiteas, config.Wallet.Provider)
	}

	if config.Wallet.Provider == ProviderHTTP && config.Wallet.Endpoint == "" {
		return fmt.Errorf("wallet provider %q requires wallet.endpoint", ProviderHTTP)
	}

	if config.Wallet.Provider == ProviderPiteas {
		missing := missingPiteasParams(config.Wallet.Piteas)
		if len(missing) > 0 {
			return fmt.Errorf("wallet provider %q selected but missing required settings: %s",
				ProviderPiteas, strings.Join(missing, ", "))
		}
	}
	return nil
}

// missingPiteasParams names the required piteas settings that are absent
func missingPiteasParams(cfg PiteasConfig) []string {
	required := map[string]string{
		"wallet.piteas.baseUrl":     cfg.BaseURL,
		"wallet.piteas.apiKey":      cfg.APIKey,
		"wallet.piteas.projectId":   cfg.ProjectID,
		"wallet.piteas.walletId":    cfg.WalletID,
		"wallet.piteas.assetSymbol": cfg.AssetSymbol,
		"wallet.piteas.network":     cfg.Network,
	}

	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
