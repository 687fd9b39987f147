package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"blog-app/internal/domain"
	"blog-app/internal/resource"
	"blog-app/internal/service"
)

const (
	actorKey    = "actor"
	tokenCookie = "blog_token"
)

// TokenIssuer signs and verifies the HS256 tokens that identify an actor.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (t *TokenIssuer) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse returns the user id carried by a valid token.
func (t *TokenIssuer) Parse(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !parsed.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, jwt.ErrTokenMalformed
	}
	return id, nil
}

// authenticate resolves the actor from a bearer token or the token cookie.
// Requests without a valid token continue anonymously.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			return
		}
		id, err := h.tokens.Parse(token)
		if err != nil {
			return
		}
		user, err := h.users.GetByID(c.Request.Context(), id)
		if err != nil {
			var nf *domain.NotFoundError
			if !errors.As(err, &nf) {
				h.logger.WithError(err).Warn("resolve actor")
			}
			return
		}
		c.Set(actorKey, user)
	}
}

// requireAuth rejects anonymous callers.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorFrom(c) != nil {
			return
		}
		if wantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

func actorFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	token, err := c.Cookie(tokenCookie)
	if err != nil {
		return ""
	}
	return token
}

type registerRequest struct {
	Name                 string `json:"name" form:"name" binding:"required,max=255"`
	Email                string `json:"email" form:"email" binding:"required,max=255"`
	Password             string `json:"password" form:"password" binding:"required"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func (h *Handler) registerForm(c *gin.Context) {
	h.render(c, http.StatusOK, "auth/Register", nil)
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "auth/Login", nil)
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, bindingError(err), "/register")
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		h.fail(c, err, "/register")
		return
	}

	h.login(c, user, http.StatusCreated)
}

func (h *Handler) authenticateCredentials(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, bindingError(err), "/login")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			err = domain.NewValidationError("email", "These credentials do not match our records.")
		}
		h.fail(c, err, "/login")
		return
	}

	h.login(c, user, http.StatusOK)
}

// login starts the session of user once the user is committed.
func (h *Handler) login(c *gin.Context, user *domain.User, status int) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.fail(c, err, "/login")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(h.tokens.ttl.Seconds()), "/", "", h.cfg.SecureCookie, true)

	h.logger.WithField("user_id", user.ID).Info("user logged in")
	h.done(c, status, gin.H{"user": resource.NewUser(user), "token": token}, "/posts", "Welcome, "+user.Name+"!")
}

func (h *Handler) logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", h.cfg.SecureCookie, true)
	h.done(c, http.StatusOK, gin.H{"message": "Logged out."}, "/posts", "Logged out.")
}
