package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/lightningpass/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-r string   database driver ("sqlite" or "pgx")
//	-d string   database DSN
//	-t int      store call timeout, seconds
//	-l int      reset token lifetime, minutes
//	-p string   profile picture directory
//	-s string   blob backend ("fs" or "s3")
//
// Only these flags are looked at, so -c/-config and anything else in args
// is left for other parsers.
func parseFlags(config *Config, args []string) error {
	filtered := flagx.FilterArgs(args, []string{"-r", "-d", "-t", "-l", "-p", "-s"})

	fs := flag.NewFlagSet("lightpass", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	timeout := fs.Int("t", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")
	ttl := fs.Int("l", int(config.TokenTTL.Minutes()), "reset token lifetime (in minutes)")
	fs.StringVar(&config.PictureDir, "p", config.PictureDir, "profile picture directory")
	fs.StringVar(&config.BlobBackend, "s", config.BlobBackend, "blob backend")

	if err := fs.Parse(filtered); err != nil {
		return err
	}

	config.StoreTimeout = time.Duration(*timeout) * time.Second
	config.TokenTTL = time.Duration(*ttl) * time.Minute
	return nil
}
