package internal

import "time"

type Config struct {
	TempDir              string        `env:"TEMP_DIR,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	StorageAPIBase       string        `env:"STORAGE_API_BASE,required=true"`
	StorageAPIKey        string        `env:"STORAGE_API_KEY,required=true"`
	DownloadTimeout      time.Duration `env:"DOWNLOAD_TIMEOUT,default=6h"`
	BackoffBase          time.Duration `env:"BACKOFF_BASE,default=1s"`
	MaxAttempts          int           `env:"MAX_ATTEMPTS,default=3"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL,default=1h"`
	RetentionAge         time.Duration `env:"RETENTION_AGE,default=72h"`
	DeletionPollInterval time.Duration `env:"DELETION_POLL_INTERVAL,default=1m"`
	DeletionBatchSize    int           `env:"DELETION_BATCH_SIZE,default=16"`
	DebugPort            int           `env:"DEBUG_PORT"`
}
