// Package backup copies the blog database to object storage.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"blog-app/internal/storage"
)

const (
	keyLayout   = "20060102T150405Z"
	filePrefix  = "blog-"
	fileSuffix  = ".db"
	contentType = "application/vnd.sqlite3"
)

// Snapshotter writes a consistent copy of the database to a local path.
type Snapshotter interface {
	Snapshot(ctx context.Context, path string) error
}

// Config tells the runner where backups live.
type Config struct {
	Bucket    string
	KeyPrefix string
	Logger    logrus.FieldLogger
}

// Runner takes database snapshots and keeps them in object storage.
type Runner struct {
	db     Snapshotter
	store  storage.Service
	cfg    Config
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewRunner(db Snapshotter, store storage.Service, cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{
		db:     db,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run snapshots the database, uploads it and returns its location.
func (r *Runner) Run(ctx context.Context) (string, error) {
	if r.cfg.Bucket == "" {
		return "", fmt.Errorf("storage bucket is required")
	}

	dir, err := os.MkdirTemp("", "blog-backup-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := filePrefix + r.now().UTC().Format(keyLayout) + fileSuffix
	local := filepath.Join(dir, name)
	if err := r.db.Snapshot(ctx, local); err != nil {
		return "", fmt.Errorf("snapshot database: %w", err)
	}

	key := r.key(name)
	log := r.logger.WithField("key", key)
	location, err := r.store.UploadFile(ctx, local, storage.UploadOptions{
		Bucket:      r.cfg.Bucket,
		Key:         key,
		ContentType: contentType,
		ProgressCallback: func(done, total int64) {
			log.WithFields(logrus.Fields{"done": done, "total": total}).Debug("uploading backup")
		},
	})
	if err != nil {
		return "", err
	}

	log.WithField("location", location).Info("backup uploaded")
	return location, nil
}

// List returns the stored backups, newest first.
func (r *Runner) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	objects, err := r.store.ListObjects(ctx, r.cfg.Bucket, r.prefix())
	if err != nil {
		return nil, err
	}

	backups := objects[:0]
	for _, obj := range objects {
		base := obj.Key[strings.LastIndex(obj.Key, "/")+1:]
		if strings.HasPrefix(base, filePrefix) && strings.HasSuffix(base, fileSuffix) {
			backups = append(backups, obj)
		}
	}
	// the timestamped names sort chronologically
	sort.Slice(backups, func(i, j int) bool { return backups[i].Key > backups[j].Key })
	return backups, nil
}

// Prune deletes all but the newest keep backups and returns the removed keys.
func (r *Runner) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1, got %d", keep)
	}
	backups, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(backups) <= keep {
		return nil, nil
	}

	keys := make([]string, 0, len(backups)-keep)
	for _, obj := range backups[keep:] {
		keys = append(keys, obj.Key)
	}
	if err := r.store.DeleteObjects(ctx, r.cfg.Bucket, keys); err != nil {
		return nil, err
	}
	r.logger.WithField("count", len(keys)).Info("old backups pruned")
	return keys, nil
}

// URL returns a temporary download link for the backup stored under key.
func (r *Runner) URL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return r.store.GetObjectURL(ctx, r.cfg.Bucket, key, expires)
}

func (r *Runner) prefix() string {
	p := strings.Trim(r.cfg.KeyPrefix, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}

func (r *Runner) key(name string) string {
	return r.prefix() + name
}
