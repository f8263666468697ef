package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"frontuser/internal/core/apperror"
	appctx "frontuser/internal/core/context"
	"frontuser/internal/core/security"
)

// SecurityContextBuilder turns presented credentials into an initialized
// security context. auth.Service implements it.
type SecurityContextBuilder interface {
	BuildSecurityContext(ctx context.Context, sessionID, bearer string) (*security.RequestContext, error)
}

// SecurityContext builds the request's security context from the session
// cookie and the Authorization header. Missing or bad credentials yield an
// anonymous context, not an error; endpoints decide what they require.
func SecurityContext(builder SecurityContextBuilder, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		sessionID, _ := c.Cookie(cookieName)
		bearer := BearerToken(c.GetHeader("Authorization"))

		sc, err := builder.BuildSecurityContext(ctx, sessionID, bearer)
		if err != nil {
			_ = c.Error(apperror.NewInternal(err).WithDetail("request_id", c.GetString("request_id")))
			c.Abort()
			return
		}

		principal := &appctx.Principal{ContextHash: sc.ContextHash()}
		if acct := security.FirstAccount(sc); acct != nil {
			principal.AccountID = acct.ID.String()
		}

		ctx = security.WithContext(ctx, sc)
		ctx = appctx.WithPrincipal(ctx, principal)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// BearerToken extracts the token of a "Bearer <token>" header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
