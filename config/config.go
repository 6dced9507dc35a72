package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	OpenAI  OpenAIConfig
	Monitor MonitorConfig
	SMS     SMSConfig
}

// ServerConfig is the configuration for the HTTP server
type ServerConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`
	Mode string `env:"GIN_MODE" envDefault:"release"`
}

// LoggerConfig is the configuration for the logger
type LoggerConfig struct {
	Level    string `env:"LOGGER_LEVEL" envDefault:"info"`
	Mode     string `env:"LOGGER_MODE" envDefault:"production"`
	Encoding string `env:"LOGGER_ENCODING" envDefault:"json"`
}

// OpenAIConfig is the configuration for the AI classification client.
// An empty key disables AI analysis; scoring falls back to rules.
type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY"`
	Model  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// MonitorConfig is the configuration for the social media monitor
type MonitorConfig struct {
	Enabled      bool          `env:"MONITOR_ENABLED" envDefault:"true"`
	Schedule     string        `env:"MONITOR_SCHEDULE" envDefault:"@every 10m"`
	FeedURI      string        `env:"MONITOR_FEED_URI" envDefault:"at://did:plc:qiknc4t5rq7yngvz7mlbke2v/app.bsky.feed.generator/aaaotfjzjplna"`
	FeedHost     string        `env:"MONITOR_FEED_HOST" envDefault:"https://public.api.bsky.app"`
	FeedLimit    int           `env:"MONITOR_FEED_LIMIT" envDefault:"50"`
	FetchTimeout time.Duration `env:"MONITOR_FETCH_TIMEOUT" envDefault:"30s"`
}

// SMSConfig is the configuration for alert broadcasting
type SMSConfig struct {
	SendRate float64 `env:"SMS_SEND_RATE" envDefault:"10"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
