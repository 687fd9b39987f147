package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"blog-app/internal/config"
)

// isolate runs the test from an empty directory so no stray config or .env
// file is picked up.
func isolate(c *qt.C) string {
	dir := c.TempDir()
	c.Chdir(dir)
	return dir
}

// unset clears key for the duration of the test.
func unset(c *qt.C, key string) {
	c.Setenv(key, "")
	c.Assert(os.Unsetenv(key), qt.IsNil)
}

func TestLoad_Defaults(t *testing.T) {
	c := qt.New(t)
	isolate(c)
	for _, key := range []string{"BLOG_SERVER_ADDR", "BLOG_DATABASE_DRIVER", "BLOG_DATABASE_DSN", "BLOG_AUTH_JWTSECRET", "BLOG_PASSWORD_MINLENGTH"} {
		unset(c, key)
	}

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Server.Addr, qt.Equals, "0.0.0.0:8080")
	c.Assert(cfg.Database.Driver, qt.Equals, "sqlite")
	c.Assert(cfg.Database.DSN, qt.Equals, "data/blog.db")
	c.Assert(cfg.Password.MinLength, qt.Equals, 8)
	c.Assert(cfg.TokenTTL(), qt.Equals, 24*time.Hour)
	c.Assert(cfg.Storage.KeyPrefix, qt.Equals, "blog-backups")
	c.Assert(cfg.Validate(), qt.IsNil)
	c.Assert(cfg.ValidateServer(), qt.ErrorMatches, "auth jwt secret is required")
}

func TestLoad_Environment(t *testing.T) {
	c := qt.New(t)
	isolate(c)
	c.Setenv("BLOG_SERVER_ADDR", "127.0.0.1:9000")
	c.Setenv("BLOG_DATABASE_DRIVER", "mysql")
	c.Setenv("BLOG_DATABASE_DSN", "blog:secret@tcp(localhost:3306)/blog")
	c.Setenv("BLOG_AUTH_JWTSECRET", "s3cret")
	c.Setenv("BLOG_AUTH_TOKENTTLMINUTES", "30")
	c.Setenv("BLOG_PASSWORD_MIXEDCASE", "true")

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Server.Addr, qt.Equals, "127.0.0.1:9000")
	c.Assert(cfg.Database.Driver, qt.Equals, "mysql")
	c.Assert(cfg.Auth.JWTSecret, qt.Equals, "s3cret")
	c.Assert(cfg.TokenTTL(), qt.Equals, 30*time.Minute)
	c.Assert(cfg.Password.MixedCase, qt.IsTrue)
	c.Assert(cfg.ValidateServer(), qt.IsNil)
}

func TestLoad_DotEnv(t *testing.T) {
	c := qt.New(t)
	dir := isolate(c)
	unset(c, "BLOG_AUTH_JWTSECRET")
	c.Setenv("BLOG_SERVER_ADDR", ":7000")

	env := "BLOG_AUTH_JWTSECRET=from-dotenv\nBLOG_SERVER_ADDR=:1\n"
	c.Assert(os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600), qt.IsNil)

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Auth.JWTSecret, qt.Equals, "from-dotenv")
	c.Assert(cfg.Server.Addr, qt.Equals, ":7000")
}

func TestLoad_ConfigFile(t *testing.T) {
	c := qt.New(t)
	dir := isolate(c)
	unset(c, "BLOG_STORAGE_BUCKET")
	unset(c, "BLOG_LOG_FORMAT")

	file := "storage:\n  bucket: blog-backups-bucket\nlog:\n  format: json\n"
	c.Assert(os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o600), qt.IsNil)

	cfg, err := config.Load()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Storage.Bucket, qt.Equals, "blog-backups-bucket")
	c.Assert(cfg.Log.Format, qt.Equals, "json")
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		var cfg config.Config
		cfg.Database.Driver = "sqlite"
		cfg.Database.DSN = "blog.db"
		cfg.Password.MinLength = 8
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		err    string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "unknown driver", mutate: func(cfg *config.Config) { cfg.Database.Driver = "oracle" }, err: `unsupported database driver "oracle"`},
		{name: "empty dsn", mutate: func(cfg *config.Config) { cfg.Database.DSN = " " }, err: "database dsn is required"},
		{name: "zero min length", mutate: func(cfg *config.Config) { cfg.Password.MinLength = 0 }, err: "password min length must be positive, got 0"},
		{name: "bad log format", mutate: func(cfg *config.Config) { cfg.Log.Format = "xml" }, err: `unknown log format "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.err == "" {
				c.Assert(err, qt.IsNil)
				return
			}
			c.Assert(err, qt.ErrorMatches, tt.err)
		})
	}
}
