package certsync

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	coreconfig "github.com/dmitrymomot/certsync/core/config"
	"github.com/dmitrymomot/certsync/integration/datadog"
	"github.com/dmitrymomot/certsync/integration/openssl"
	"github.com/dmitrymomot/certsync/integration/rancher"
	"github.com/dmitrymomot/certsync/integration/s3backup"
)

// Crypto backends selectable through CRYPTO_BACKEND.
const (
	BackendNative  = "native"
	BackendOpenSSL = "openssl"
)

// Config aggregates the environment settings of every subsystem the daemon
// wires together. The certificate inventory itself lives in the YAML file at
// ConfigPath and is re-read on every pass.
type Config struct {
	Rancher rancher.Config
	Statsd  datadog.Config
	Backup  s3backup.Config
	OpenSSL openssl.Config

	ConfigPath    string `env:"CONFIG_PATH" envDefault:"config/config.yml"`
	LogDebug      bool   `env:"LOG_DEBUG" envDefault:"false"`
	CryptoBackend string `env:"CRYPTO_BACKEND" envDefault:"native"`
}

// LoadConfig parses Config from the environment, honoring a local .env file
// when one is present.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", coreconfig.ErrInvalidConfig, err)
	}
	return cfg, nil
}
