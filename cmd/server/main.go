package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-app/internal/config"
	apphttp "blog-app/internal/http"
	"blog-app/internal/repository/sqlstore"
	"blog-app/internal/service"
	"blog-app/internal/setup"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	if err := setup.ConfigureLogger(logger, cfg); err != nil {
		logger.Fatalf("configure logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, store, err := setup.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init store: %v", err)
	}

	handler := newHandler(store, cfg, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apphttp.MethodOverride(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s (%s)", cfg.Server.Addr, store.Dialect())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func newHandler(store *sqlstore.Store, cfg config.Config, logger *logrus.Logger) *apphttp.Handler {
	tx := service.NewTransactor(store, logger)
	passwords := service.PasswordPolicy{
		MinLength: cfg.Password.MinLength,
		MixedCase: cfg.Password.MixedCase,
		Numbers:   cfg.Password.Numbers,
		Symbols:   cfg.Password.Symbols,
	}

	return apphttp.NewHandler(
		service.NewPostService(tx),
		service.NewCommentService(tx),
		service.NewUserService(tx, passwords),
		apphttp.Config{
			JWTSecret:    cfg.Auth.JWTSecret,
			TokenTTL:     cfg.TokenTTL(),
			SecureCookie: cfg.Auth.SecureCookie,
			Logger:       logger,
		},
	)
}
