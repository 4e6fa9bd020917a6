package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/lightningpass/internal/flagx"
	"github.com/dmitrijs2005/lightningpass/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "5s"-style strings or integer nanoseconds. Zero values leave the
// corresponding Config field untouched.
type JsonConfig struct {
	DatabaseDriver string         `json:"database_driver"`
	DatabaseDSN    string         `json:"database_dsn"`
	StoreTimeout   timex.Duration `json:"store_timeout"`
	TokenTTL       timex.Duration `json:"token_ttl"`
	BcryptCost     int            `json:"bcrypt_cost"`
	KDFIterations  int            `json:"kdf_iterations"`
	PictureDir     string         `json:"picture_dir"`
	BlobBackend    string         `json:"blob_backend"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	SMTPHost       string         `json:"smtp_host"`
	SMTPPort       int            `json:"smtp_port"`
	EmailUser      string         `json:"email_user"`
	EmailPassword  string         `json:"email_password"`
	EmailFrom      string         `json:"email_from"`
}

// parseJson overlays the file named by -c/-config in args onto config.
// No flag means nothing to load.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.StoreTimeout.Duration > 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	setInt(&config.BcryptCost, c.BcryptCost)
	setInt(&config.KDFIterations, c.KDFIterations)
	setString(&config.PictureDir, c.PictureDir)
	setString(&config.BlobBackend, c.BlobBackend)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.EmailUser, c.EmailUser)
	setString(&config.EmailPassword, c.EmailPassword)
	setString(&config.EmailFrom, c.EmailFrom)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
