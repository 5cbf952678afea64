package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_STORAGE_API_BASE targets a live storage provider; tests are
	// skipped when it is empty.
	StorageAPIBase string `envconfig:"E2E_STORAGE_API_BASE"`
	StorageAPIKey  string `envconfig:"E2E_STORAGE_API_KEY"`
	// E2E_SOURCE_URL is a small publicly downloadable file
	SourceURL string `envconfig:"E2E_SOURCE_URL" default:"https://proof.ovh.net/files/1Mb.dat"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
