package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frontuser/internal/core/apperror"
	appctx "frontuser/internal/core/context"
	"frontuser/internal/core/security"
	"frontuser/internal/domain/auth"
	"frontuser/internal/infrastructure/http/v1/dto"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// LoginObserver counts login attempts by outcome.
type LoginObserver interface {
	LoginAttempt(outcome string)
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service  *auth.Service
	cookie   CookieConfig
	observer LoginObserver
}

// NewAuthHandler creates a new auth handler. observer may be nil.
func NewAuthHandler(base *BaseHandler, service *auth.Service, cookie CookieConfig, observer LoginObserver) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
		cookie:      cookie,
		observer:    observer,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		h.observe("invalid_request")
		return
	}

	result, err := h.service.Login(ctx, req.ToCredentials())
	h.observe(loginOutcome(err))
	if err != nil {
		h.Error(c, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, result.SessionID, maxAge, "/", "", h.cookie.Secure, true)

	h.OK(c, dto.FromLoginResult(result))
}

// Logout handles POST /auth/logout. It always succeeds; an unknown or
// missing session is simply cleared.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, _ := c.Cookie(h.cookie.Name)
	if err := h.service.Logout(ctx, sessionID); err != nil {
		h.Error(c, err)
		return
	}

	signOut(ctx)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	h.NoContent(c)
}

// signOut leaves the rest of the request unauthenticated and brings the
// logged identity in line with the new context hash.
func signOut(ctx context.Context) {
	sc, ok := security.FromContext(ctx).(*security.RequestContext)
	if !ok {
		return
	}
	sc.Logout()

	if p := appctx.GetPrincipal(ctx); p != nil {
		p.ContextHash = sc.ContextHash()
		p.AccountID = ""
		p.UserID = ""
	}
}

func (h *AuthHandler) observe(outcome string) {
	if h.observer != nil {
		h.observer.LoginAttempt(outcome)
	}
}

func loginOutcome(err error) string {
	if err == nil {
		return "success"
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return "error"
	}
	switch appErr.Code {
	case apperror.CodeUnauthorized:
		return "invalid_credentials"
	case apperror.CodeAccountLocked:
		return "locked"
	case apperror.CodeForbidden:
		return "expired"
	case apperror.CodeValidation:
		return "invalid_request"
	default:
		return "error"
	}
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
}
