package backup_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"blog-app/internal/backup"
	"blog-app/internal/repository/sqlstore"
	"blog-app/internal/storage"
)

type fakeStorage struct {
	uploads  map[string][]byte
	objects  []storage.ObjectInfo
	deleted  []string
	failWith error
}

func (f *fakeStorage) UploadFile(_ context.Context, localPath string, opts storage.UploadOptions) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[opts.Key] = data
	return storage.Location(opts.Bucket, opts.Key), nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _, _ string) ([]storage.ObjectInfo, error) {
	return append([]storage.ObjectInfo(nil), f.objects...), nil
}

func (f *fakeStorage) DeleteObjects(_ context.Context, _ string, keys []string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

func (f *fakeStorage) GetObjectURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://" + bucket + ".example.com/" + key, nil
}

type snapshotFunc func(ctx context.Context, path string) error

func (f snapshotFunc) Snapshot(ctx context.Context, path string) error { return f(ctx, path) }

func newLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestRunner_Run(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	db, err := sqlstore.Open(ctx, sqlstore.DialectSQLite, filepath.Join(c.TempDir(), "blog.db"))
	c.Assert(err, qt.IsNil)
	defer db.Close()
	store := sqlstore.New(db, sqlstore.DialectSQLite)
	c.Assert(store.Init(ctx), qt.IsNil)

	remote := &fakeStorage{}
	runner := backup.NewRunner(store, remote, backup.Config{Bucket: "bucket", KeyPrefix: "/backups/", Logger: newLogger()})
	runner.SetClock(func() time.Time { return time.Date(2024, 3, 1, 12, 30, 5, 0, time.FixedZone("X", 3600)) })

	location, err := runner.Run(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(location, qt.Equals, "s3://bucket/backups/blog-20240301T113005Z.db")

	data := remote.uploads["backups/blog-20240301T113005Z.db"]
	c.Assert(len(data) > 0, qt.IsTrue)
	c.Assert(string(data[:15]), qt.Equals, "SQLite format 3")
}

func TestRunner_RunRemovesTempFile(t *testing.T) {
	c := qt.New(t)
	var snapPath string
	snap := snapshotFunc(func(_ context.Context, path string) error {
		snapPath = path
		return os.WriteFile(path, []byte("data"), 0o600)
	})
	remote := &fakeStorage{failWith: errors.New("bucket gone")}
	runner := backup.NewRunner(snap, remote, backup.Config{Bucket: "bucket", Logger: newLogger()})

	_, err := runner.Run(context.Background())
	c.Assert(err, qt.ErrorMatches, "bucket gone")
	_, statErr := os.Stat(snapPath)
	c.Assert(os.IsNotExist(statErr), qt.IsTrue)
}

func TestRunner_RunRequiresBucket(t *testing.T) {
	c := qt.New(t)
	runner := backup.NewRunner(snapshotFunc(func(context.Context, string) error { return nil }), &fakeStorage{}, backup.Config{Logger: newLogger()})
	_, err := runner.Run(context.Background())
	c.Assert(err, qt.ErrorMatches, "storage bucket is required")
}

func TestRunner_SnapshotFailure(t *testing.T) {
	c := qt.New(t)
	snap := snapshotFunc(func(context.Context, string) error { return errors.New("disk full") })
	runner := backup.NewRunner(snap, &fakeStorage{}, backup.Config{Bucket: "bucket", Logger: newLogger()})
	_, err := runner.Run(context.Background())
	c.Assert(err, qt.ErrorMatches, "snapshot database: disk full")
}

func TestRunner_ListAndPrune(t *testing.T) {
	c := qt.New(t)
	remote := &fakeStorage{objects: []storage.ObjectInfo{
		{Key: "backups/blog-20240101T000000Z.db"},
		{Key: "backups/blog-20240301T000000Z.db"},
		{Key: "backups/notes.txt"},
		{Key: "backups/blog-20240201T000000Z.db"},
	}}
	runner := backup.NewRunner(nil, remote, backup.Config{Bucket: "bucket", KeyPrefix: "backups", Logger: newLogger()})

	list, err := runner.List(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 3)
	c.Assert(list[0].Key, qt.Equals, "backups/blog-20240301T000000Z.db")
	c.Assert(list[2].Key, qt.Equals, "backups/blog-20240101T000000Z.db")

	removed, err := runner.Prune(context.Background(), 2)
	c.Assert(err, qt.IsNil)
	c.Assert(removed, qt.DeepEquals, []string{"backups/blog-20240101T000000Z.db"})
	c.Assert(remote.deleted, qt.DeepEquals, removed)

	_, err = runner.Prune(context.Background(), 0)
	c.Assert(err, qt.ErrorMatches, "keep must be at least 1, got 0")
}

func TestRunner_URL(t *testing.T) {
	c := qt.New(t)
	runner := backup.NewRunner(nil, &fakeStorage{}, backup.Config{Bucket: "bucket", Logger: newLogger()})
	url, err := runner.URL(context.Background(), "backups/blog.db", time.Hour)
	c.Assert(err, qt.IsNil)
	c.Assert(url, qt.Equals, "https://bucket.example.com/backups/blog.db")
}
