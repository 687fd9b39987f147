package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"blog-app/internal/domain"
	"blog-app/internal/service"
)

// Config holds the HTTP layer settings.
type Config struct {
	JWTSecret    string
	TokenTTL     time.Duration
	SecureCookie bool
	Logger       logrus.FieldLogger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	posts    service.PostService
	comments service.CommentService
	users    service.UserService
	tokens   *TokenIssuer
	cfg      Config
	logger   logrus.FieldLogger
}

func NewHandler(posts service.PostService, comments service.CommentService, users service.UserService, cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		posts:    posts,
		comments: comments,
		users:    users,
		tokens:   NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		cfg:      cfg,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(loadTemplates())
	router.Use(requestLogger(h.logger))
	router.Use(corsMiddleware())
	router.Use(h.authenticate())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/posts")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.GET("/register", h.registerForm)
	router.POST("/register", h.register)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.authenticateCredentials)
	router.POST("/logout", h.logout)

	posts := router.Group("/posts")
	{
		posts.GET("", h.listPosts)
		posts.GET("/create", h.createPostForm)
		posts.GET("/:id", h.showPost)

		auth := posts.Group("", h.requireAuth())
		auth.GET("/:id/edit", h.editPostForm)
		auth.POST("", h.storePost)
		auth.PUT("/:id", h.updatePost)
		auth.DELETE("/:id", h.destroyPost)
		auth.POST("/:id/comments", h.storeComment)
	}

	comments := router.Group("/comments", h.requireAuth())
	{
		comments.DELETE("/:id", h.destroyComment)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// MethodOverride lets HTML forms reach PUT and DELETE routes through a
// "_method" form field on a POST request.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			switch m := strings.ToUpper(r.PostFormValue("_method")); m {
			case http.MethodPut, http.MethodPatch, http.MethodDelete:
				if m == http.MethodPatch {
					m = http.MethodPut
				}
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

// pathID parses a positive numeric path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if errors.Is(err, strconv.ErrRange) && page > 0 {
		return domain.MaxPage
	}
	if err != nil {
		return 1
	}
	return domain.NormalizePage(page)
}
