// Package setup builds the runtime dependencies shared by the binaries.
package setup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"blog-app/internal/config"
	"blog-app/internal/repository/sqlstore"
	"blog-app/internal/storage"
)

// ConfigureLogger applies the log level and format from cfg.
func ConfigureLogger(logger *logrus.Logger, cfg config.Config) error {
	if lvl := strings.TrimSpace(cfg.Log.Level); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}
	if strings.EqualFold(cfg.Log.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// OpenStore connects to the configured database.
func OpenStore(ctx context.Context, cfg config.Config) (*sql.DB, *sqlstore.Store, error) {
	dialect, err := sqlstore.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqlstore.Open(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	return db, sqlstore.New(db, dialect), nil
}

// BuildStorage creates the S3 client for the configured bucket.
func BuildStorage(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (storage.Service, error) {
	if cfg.Storage.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return storage.NewS3Service(client), nil
}
