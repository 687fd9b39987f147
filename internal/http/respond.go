package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-extras/go-kit/must"

	"blog-app/internal/domain"
)

const (
	msgInternalError = "An internal error occurred, please try again later."
	msgForbidden     = "This action is unauthorized."
	msgNotFound      = "Not found."
	msgUnauthorized  = "Unauthenticated."

	flashSuccess = "success"
	flashError   = "error"
)

//go:embed views/*.html
var viewsFS embed.FS

func loadTemplates() *template.Template {
	return must.Must(template.ParseFS(viewsFS, "views/*.html"))
}

// page is the document handed to the client side renderer.
type page struct {
	Component string            `json:"component"`
	Props     any               `json:"props"`
	URL       string            `json:"url"`
	Flash     map[string]string `json:"flash,omitempty"`
}

// wantsJSON reports whether the caller prefers a machine readable response.
func wantsJSON(c *gin.Context) bool {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		return true
	}
	first, _, _ := strings.Cut(c.GetHeader("Accept"), ",")
	return strings.Contains(first, "+json")
}

// render answers with props as JSON, or with the named page component.
func (h *Handler) render(c *gin.Context, status int, component string, props gin.H) {
	if props == nil {
		props = gin.H{}
	}
	if wantsJSON(c) {
		c.JSON(status, props)
		return
	}

	doc := page{
		Component: component,
		Props:     props,
		URL:       c.Request.URL.RequestURI(),
		Flash:     takeFlash(c),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		h.logger.WithError(err).Error("encode page")
		c.String(http.StatusInternalServerError, msgInternalError)
		return
	}
	c.HTML(status, "page.html", gin.H{
		"Title": component,
		"Flash": doc.Flash,
		"Data":  string(data),
	})
}

// done answers a successful write: JSON body, or a redirect carrying a flash.
func (h *Handler) done(c *gin.Context, status int, body any, target, message string) {
	if wantsJSON(c) {
		c.JSON(status, body)
		return
	}
	h.redirectWithFlash(c, target, flashSuccess, message)
}

func (h *Handler) redirectWithFlash(c *gin.Context, target, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("flash_"+kind, message, 60, "/", "", h.cfg.SecureCookie, true)
	c.Redirect(http.StatusSeeOther, target)
}

func takeFlash(c *gin.Context) map[string]string {
	flash := map[string]string{}
	for _, kind := range []string{flashSuccess, flashError} {
		name := "flash_" + kind
		msg, err := c.Cookie(name)
		if err != nil || msg == "" {
			continue
		}
		flash[kind] = msg
		c.SetCookie(name, "", -1, "/", "", false, true)
	}
	if len(flash) == 0 {
		return nil
	}
	return flash
}

// fail maps err to the user facing outcome. fallback is where page callers
// are sent after validation or write failures.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	var (
		verr    *domain.ValidationError
		authErr *domain.AuthorizationError
		nfErr   *domain.NotFoundError
		werr    *domain.WriteError
	)

	switch {
	case errors.As(err, &verr):
		if wantsJSON(c) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": verr.First(), "errors": verr.Fields})
			return
		}
		h.redirectWithFlash(c, backTo(c, fallback), flashError, verr.First())
	case errors.As(err, &authErr):
		h.render(c, http.StatusForbidden, "errors/Forbidden", gin.H{"message": msgForbidden})
	case errors.As(err, &nfErr):
		h.render(c, http.StatusNotFound, "errors/NotFound", gin.H{"message": msgNotFound})
	case errors.As(err, &werr):
		// already logged by the transactor
		if wantsJSON(c) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
			return
		}
		h.redirectWithFlash(c, fallback, flashError, msgInternalError)
	default:
		h.logger.WithField("request_id", c.GetString(requestIDKey)).WithError(err).Error("request failed")
		if wantsJSON(c) {
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
			return
		}
		h.redirectWithFlash(c, fallback, flashError, msgInternalError)
	}
}

// backTo returns the same-origin referer path, or fallback.
func backTo(c *gin.Context, fallback string) string {
	ref := c.GetHeader("Referer")
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != c.Request.Host) || u.Path == "" {
		return fallback
	}
	return u.RequestURI()
}
