package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads dotenvPath (a missing file is not an error) into the process
// environment without overriding variables that are already set, then copies
// recognised variables into config.
func parseEnv(config *Config, dotenvPath string) error {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvPath, err)
	}

	strs := map[string]*string{
		"DB_DRIVER":     &config.DatabaseDriver,
		"DB_DSN":        &config.DatabaseDSN,
		"PICTURE_DIR":   &config.PictureDir,
		"BLOB_BACKEND":  &config.BlobBackend,
		"S3_BUCKET":     &config.S3Bucket,
		"S3_REGION":     &config.S3Region,
		"S3_ENDPOINT":   &config.S3BaseEndpoint,
		"S3_ACCESS_KEY": &config.S3AccessKey,
		"S3_SECRET_KEY": &config.S3SecretKey,
		"SMTP_HOST":     &config.SMTPHost,
		"EMAIL_USER":    &config.EmailUser,
		"EMAIL_PASS":    &config.EmailPassword,
		"EMAIL_FROM":    &config.EmailFrom,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BCRYPT_COST":    &config.BcryptCost,
		"KDF_ITERATIONS": &config.KDFIterations,
		"SMTP_PORT":      &config.SMTPPort,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = n
	}

	durations := map[string]*time.Duration{
		"STORE_TIMEOUT": &config.StoreTimeout,
		"TOKEN_TTL":     &config.TokenTTL,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}
