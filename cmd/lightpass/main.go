package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/lightningpass/internal/blobstore"
	"github.com/dmitrijs2005/lightningpass/internal/cli"
	"github.com/dmitrijs2005/lightningpass/internal/config"
	"github.com/dmitrijs2005/lightningpass/internal/logging"
	"github.com/dmitrijs2005/lightningpass/internal/mailer"
	"github.com/dmitrijs2005/lightningpass/internal/repositories/repomanager"
	"github.com/dmitrijs2005/lightningpass/internal/services"
)

const connectRetries = 3

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	if cfg.BlobBackend == config.BlobBackendS3 {
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	}
	return blobstore.NewFSStore(cfg.PictureDir)
}

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.NewJSON(os.Stderr, slog.LevelWarn)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rm := repomanager.NewSQLRepositoryManager(cfg.DatabaseDriver)
	db, err := repomanager.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, rm, connectRetries)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("blob store init error: %v", err)
	}
	mail := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword, cfg.EmailFrom)

	tokens := services.NewTokenService(db, rm, cfg, logger)
	if n, err := tokens.Sweep(ctx); err != nil {
		logger.Warn(ctx, "reset token sweep failed", "error", err)
	} else if n > 0 {
		logger.Info(ctx, "expired reset tokens removed", "count", n)
	}

	accounts := services.NewAccountService(db, rm, cfg, logger, tokens, blobs, mail)
	vaults := services.NewVaultService(db, rm, cfg, logger)

	cli.NewApp(accounts, vaults, logger, os.Stdin, os.Stdout).Run(ctx)
}
