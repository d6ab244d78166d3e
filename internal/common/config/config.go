// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Orders  OrdersConfig  `mapstructure:"orders"`
	Site    SiteConfig    `mapstructure:"site"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // seconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BackendConfig holds the connection settings for the WordPress content
// backend. Username and AppPassword form the basic-auth pair for its REST API.
type BackendConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Username    string `mapstructure:"username"`
	AppPassword string `mapstructure:"app_password"`
	Timeout     int    `mapstructure:"timeout"` // milliseconds
}

// OrdersConfig holds settings for the custom cake order workflow.
type OrdersConfig struct {
	// Recipient is the bakery mailbox that receives order notifications.
	Recipient string `mapstructure:"recipient"`
	// WhatsAppNumber is the bakery number used for the chat handoff link,
	// digits only with country code (e.g. "5215512345678").
	WhatsAppNumber string `mapstructure:"whatsapp_number"`
}

// SiteConfig holds the public-facing site settings.
type SiteConfig struct {
	PublicURL string `mapstructure:"public_url"`
}

// CacheConfig holds the catalog response cache settings.
type CacheConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
	TTL   int         `mapstructure:"ttl"` // seconds
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
