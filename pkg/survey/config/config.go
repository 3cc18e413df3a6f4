package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the non-secret process settings. Credentials are resolved
// separately through the secrets package.
type Config struct {
	Port        string `env:"PORT" envDefault:"1337"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"beeldvoorkeur"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	LocalDBPath string `env:"LOCAL_DB_PATH" envDefault:"survey.db"`
	SecretsFile string `env:"SECRETS_FILE"`

	ImageEndpoint string        `env:"IMAGE_ENDPOINT" envDefault:"https://api.openai.com/v1/images/generations"`
	ImageModel    string        `env:"IMAGE_MODEL" envDefault:"gpt-image-1"`
	ImageSize     string        `env:"IMAGE_SIZE" envDefault:"1024x1024"`
	ImageTimeout  time.Duration `env:"IMAGE_TIMEOUT" envDefault:"90s"`

	RemoteTimeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"15s"`

	// NormalizePoliticalLeaningOnWrite replaces the collected leaning with
	// models.NeutralPoliticalLeaning before a record is stored.
	NormalizePoliticalLeaningOnWrite bool `env:"NORMALIZE_POLITICAL_LEANING" envDefault:"true"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
