package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "frontuser/internal/core/context"
	"frontuser/internal/core/security"
	"frontuser/internal/domain/party"
	"frontuser/internal/domain/user"
	"frontuser/pkg/logger"
)

// CurrentUser gives each request its own user service whose GetCurrentUser
// is answered by a fresh memoizing resolver. Must run after SecurityContext.
//
// The user is resolved once up front so it shows up in request logs;
// handlers asking again are served from the resolver's cache.
func CurrentUser(parties party.Service, metrics user.ResolverMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		svc := user.NewPatchedService(security.FromContext(ctx), parties, user.WithMetrics(metrics))
		ctx = user.WithService(ctx, svc)
		c.Request = c.Request.WithContext(ctx)

		u, err := svc.GetCurrentUser(ctx)
		if err != nil {
			// Not cached; the handler's own lookup retries and reports it.
			logger.Warn(ctx, "current user lookup failed", "error", err)
		} else if u != nil {
			if p := appctx.GetPrincipal(ctx); p != nil {
				p.UserID = u.ID.String()
			}
		}

		c.Next()
	}
}
