// Package config builds the runtime configuration of Lightning Pass from
// defaults, a .env file and the environment, an optional JSON file and
// finally command-line flags. Later sources win.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"

	BlobBackendFS = "fs"
	BlobBackendS3 = "s3"

	// MinBcryptCost is the lowest bcrypt cost accepted for production use.
	MinBcryptCost = 10
	// MinKDFIterations is the PBKDF2 iteration floor.
	MinKDFIterations = 100_000
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver / DatabaseDSN: database/sql driver name ("sqlite" or "pgx") and DSN.
//   - StoreTimeout: deadline applied to every store call.
//   - TokenTTL: lifetime of password reset tokens.
//   - BcryptCost / KDFIterations: hashing work factors.
//   - PictureDir / BlobBackend / S3*: profile picture storage.
//   - SMTP* / Email*: reset email delivery.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	StoreTimeout   time.Duration
	TokenTTL       time.Duration
	BcryptCost     int
	KDFIterations  int

	PictureDir     string
	BlobBackend    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string
	EmailFrom     string
}

// LoadDefaults populates c with desktop defaults: a local SQLite file and
// profile pictures on disk.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:lightning_pass.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	c.StoreTimeout = 5 * time.Second
	c.TokenTTL = 30 * time.Minute
	c.BcryptCost = 12
	c.KDFIterations = MinKDFIterations
	c.PictureDir = "profile_pictures"
	c.BlobBackend = BlobBackendFS
	c.S3Region = "us-east-1"
	c.SMTPHost = "smtp.gmail.com"
	c.SMTPPort = 587
	c.EmailFrom = "lightning_pass@noreply.com"
}

// Validate reports settings that would make the application unsafe or
// unable to start.
func (c *Config) Validate() error {
	var errs []error
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is empty"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("store timeout must be positive"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token TTL must be positive"))
	}
	if c.BcryptCost < MinBcryptCost {
		errs = append(errs, fmt.Errorf("bcrypt cost %d below minimum %d", c.BcryptCost, MinBcryptCost))
	}
	if c.KDFIterations < MinKDFIterations {
		errs = append(errs, fmt.Errorf("kdf iterations %d below minimum %d", c.KDFIterations, MinKDFIterations))
	}
	switch c.BlobBackend {
	case BlobBackendFS:
		if c.PictureDir == "" {
			errs = append(errs, errors.New("picture dir is empty"))
		}
	case BlobBackendS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 bucket is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob backend %q", c.BlobBackend))
	}
	return errors.Join(errs...)
}

// Load applies defaults, then env, JSON and flags taken from args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg, ".env"); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
