package app

import (
	"context"
	"fmt"
	"time"

	"elivtory/inventory-api/aws"
	"elivtory/inventory-api/config"
	"elivtory/inventory-api/db"
	"elivtory/inventory-api/internal"
	"elivtory/inventory-api/internal/service"
	"elivtory/inventory-api/internal/store"
	"elivtory/inventory-api/pkg/security"

	"github.com/chenyahui/gin-cache/persist"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDeps connects to the database and the configured image storage and
// builds the services. The reset token cleanup runs until ctx is done.
func NewDeps(ctx context.Context, cfg *config.Config) (*internal.Deps, error) {
	conn, err := db.New(cfg.Database)
	if err != nil {
		return nil, err
	}

	var images service.ImageStore

	switch cfg.Storage.Type {
	case "s3":
		s3, err := aws.NewS3(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}

		images = service.NewS3ImageStore(s3, cfg.S3)
	default:
		images, err = service.NewLocalImageStore(cfg.Storage)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Mail.Host == "" {
		zap.L().Warn("No mail host configured, password reset and contact mails will fail")
	}

	return BuildDeps(ctx, cfg, conn, service.NewSMTPMailer(cfg.Mail), images), nil
}

// BuildDeps wires the services around an open database, a mailer and an
// image store
func BuildDeps(ctx context.Context, cfg *config.Config, conn *gorm.DB, mailer service.Mailer, images service.ImageStore) *internal.Deps {
	s := store.New(conn)
	argon := security.NewArgon(cfg.Security.Argon)
	sessions := security.NewSessionIssuer(cfg.Session)

	d := &internal.Deps{
		Cfg:      cfg,
		DB:       conn,
		Store:    s,
		Argon:    argon,
		Sessions: sessions,
		Auth:     service.NewAuth(cfg, s, argon, sessions, mailer),
		Contact:  service.NewContact(cfg, mailer),
		Uploader: service.NewUploader(images, cfg.Storage.MaxImageSize),
		Cache:    persist.NewMemoryStore(time.Minute),
	}

	if cfg.Reset.CleanupInterval > 0 {
		go service.TokenCleanup(ctx, cfg.Reset.CleanupInterval, s.ResetTokens())
	}

	return d
}
