package setup_test

import (
	"context"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"

	"blog-app/internal/config"
	"blog-app/internal/repository/sqlstore"
	"blog-app/internal/setup"
)

func TestConfigureLogger(t *testing.T) {
	c := qt.New(t)
	logger := logrus.New()

	var cfg config.Config
	cfg.Log.Level = "debug"
	cfg.Log.Format = "JSON"
	c.Assert(setup.ConfigureLogger(logger, cfg), qt.IsNil)
	c.Assert(logger.GetLevel(), qt.Equals, logrus.DebugLevel)
	_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
	c.Assert(isJSON, qt.IsTrue)

	cfg.Log.Level = "chatty"
	c.Assert(setup.ConfigureLogger(logger, cfg), qt.IsNotNil)
}

func TestOpenStore(t *testing.T) {
	c := qt.New(t)
	var cfg config.Config
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = filepath.Join(c.TempDir(), "nested", "blog.db")

	db, store, err := setup.OpenStore(context.Background(), cfg)
	c.Assert(err, qt.IsNil)
	defer db.Close()
	c.Assert(store.Dialect(), qt.Equals, sqlstore.DialectSQLite)
	c.Assert(store.Init(context.Background()), qt.IsNil)

	cfg.Database.Driver = "oracle"
	_, _, err = setup.OpenStore(context.Background(), cfg)
	c.Assert(err, qt.ErrorMatches, `unsupported database driver "oracle"`)
}

func TestBuildStorage_RequiresBucket(t *testing.T) {
	c := qt.New(t)
	_, err := setup.BuildStorage(context.Background(), config.Config{}, logrus.New())
	c.Assert(err, qt.ErrorMatches, "storage bucket is required")
}
