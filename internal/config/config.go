package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the content-engine service. Vendor
// keys are read from the environment exactly once at startup; the default
// provider and the transcription backend must have keys or startup fails.
type Config struct {
	LogFormat  string `envconfig:"LOG_FORMAT" default:"json"`
	Server     ServerConfig
	Storage    StorageConfig
	Mistral    MistralConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	ElevenLabs ElevenLabsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

// StorageConfig holds local device storage configuration. An empty path
// means the platform config directory.
type StorageConfig struct {
	Path string `envconfig:"STORAGE_PATH"`
}

// MistralConfig holds the default provider's configuration. The key is
// required: the default provider never takes a caller-supplied key.
type MistralConfig struct {
	APIKey string `envconfig:"MISTRAL_API_KEY" required:"true"`
}

// OpenAIConfig holds the optional OpenAI fallback key. Without it, OpenAI
// requests need a user-supplied key from the model settings.
type OpenAIConfig struct {
	APIKey string `envconfig:"OPENAI_API_KEY"`
}

// AnthropicConfig holds the optional Anthropic fallback key.
type AnthropicConfig struct {
	APIKey string `envconfig:"ANTHROPIC_API_KEY"`
}

// ElevenLabsConfig holds the transcription backend configuration.
type ElevenLabsConfig struct {
	APIKey string `envconfig:"ELEVENLABS_API_KEY" required:"true"`
	Model  string `envconfig:"ELEVENLABS_STT_MODEL" default:"eleven_multilingual_v2"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration for logical errors beyond required fields.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	return nil
}
