package handlers

import (
	"github.com/gin-gonic/gin"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/security"
	"frontuser/internal/domain/user"
	"frontuser/internal/infrastructure/http/v1/dto"
)

// MeHandler serves the current user.
type MeHandler struct {
	*BaseHandler
}

// NewMeHandler creates a new me handler.
func NewMeHandler(base *BaseHandler) *MeHandler {
	return &MeHandler{BaseHandler: base}
}

// Me handles GET /me. It answers 401 when the request has no current user,
// which covers anonymous requests and accounts bound to non-user parties.
func (h *MeHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	svc := user.ServiceFromContext(ctx)
	if svc == nil {
		h.Error(c, apperror.NewInternal(errMissingUserService))
		return
	}

	u, err := svc.GetCurrentUser(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}
	if u == nil {
		h.Error(c, apperror.NewUnauthorized("no current user"))
		return
	}

	resp := dto.MeResponse{User: dto.FromUser(u)}
	if sc := security.FromContext(ctx); sc != nil {
		resp.ContextHash = sc.ContextHash()
	}
	h.OK(c, resp)
}
