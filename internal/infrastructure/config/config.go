package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Storage     string         `mapstructure:"storage"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Wallet      WalletConfig   `mapstructure:"wallet"`
	Notifier    NotifierConfig `mapstructure:"notifier"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"`
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"`
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level string `mapstructure:"level"`
}

// WalletConfig selects and parameterizes the payment backend. Provider is one
// of: auto, simulated, http, piteas. With auto, piteas wins when its section is
// configured, then the generic endpoint, then the simulated backend.
type WalletConfig struct {
	Provider string        `mapstructure:"provider"`
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"apiKey"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Piteas   PiteasConfig  `mapstructure:"piteas"`
}

// PiteasConfigured reports whether every required piteas setting is present,
// used by provider auto-selection
func (w WalletConfig) PiteasConfigured() bool {
	p := w.Piteas
	return p.BaseURL != "" && p.APIKey != "" && p.ProjectID != "" &&
		p.WalletID != "" && p.AssetSymbol != "" && p.Network != ""
}

// PiteasConfig contains the provider-specific wallet parameters
type PiteasConfig struct {
	BaseURL     string `mapstructure:"baseUrl"`
	APIKey      string `mapstructure:"apiKey"`
	ProjectID   string `mapstructure:"projectId"`
	WalletID    string `mapstructure:"walletId"`
	AssetSymbol string `mapstructure:"assetSymbol"`
	Network     string `mapstructure:"network"`
	Priority    string `mapstructure:"priority"`
}

// NotifierConfig selects the lifecycle-event sink. An empty webhook URL falls
// back to the log sink.
type NotifierConfig struct {
	WebhookURL string        `mapstructure:"webhookUrl"`
	Timeout    time.Duration `mapstructure:"timeout"`
}
