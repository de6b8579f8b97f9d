package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restaurant-pos/logger"
	"restaurant-pos/middleware"
	"restaurant-pos/services"

	"github.com/gin-gonic/gin"
)

// Handler serves the form UI pages on top of the services
type Handler struct {
	svc    *services.Services
	issuer *middleware.TokenIssuer
	log    *logger.Logger
}

func New(svc *services.Services, issuer *middleware.TokenIssuer, log *logger.Logger) *Handler {
	return &Handler{svc: svc, issuer: issuer, log: log}
}

// render fills in the fields every page uses and writes the template
func (h *Handler) render(c *gin.Context, status int, page, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["Session"] = middleware.GetSession(c)
	data["Msg"] = c.Query("msg")
	data["Err"] = c.Query("err")
	c.HTML(status, page, data)
}

func withFlash(path, key, text string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(text)
}

// done redirects after a successful POST
func done(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusSeeOther, withFlash(path, "msg", msg))
}

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// fail reports err to the user. Input and state errors on a form go back to the form as a
// flash message; anything else renders the error page with the mapped status.
func (h *Handler) fail(c *gin.Context, back string, err error) {
	status := statusFor(err)
	c.Error(err)
	if back != "" && (status == http.StatusBadRequest || status == http.StatusConflict) {
		c.Redirect(http.StatusSeeOther, withFlash(back, "err", err.Error()))
		return
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Something went wrong. Reference: " + services.RequestIDFrom(c.Request.Context())
	}
	h.render(c, status, "error.tmpl", http.StatusText(status), gin.H{"Message": msg})
}

// idParam reads a positive numeric path parameter
func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s %q", services.ErrNotFound, name, c.Param(name))
	}
	return uint(id), nil
}

func session(c *gin.Context) services.Session {
	return middleware.GetSession(c)
}
