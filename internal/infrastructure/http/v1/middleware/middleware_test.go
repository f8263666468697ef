package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontuser/internal/core/apperror"
	appctx "frontuser/internal/core/context"
	"frontuser/internal/core/security"
	"frontuser/internal/domain/account"
	"frontuser/internal/domain/party"
	"frontuser/internal/domain/user"
	"frontuser/internal/infrastructure/http/v1/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type builderFunc func(ctx context.Context, sessionID, bearer string) (*security.RequestContext, error)

func (f builderFunc) BuildSecurityContext(ctx context.Context, sessionID, bearer string) (*security.RequestContext, error) {
	return f(ctx, sessionID, bearer)
}

type partiesFunc func(ctx context.Context, acct *account.Account) (party.Party, error)

func (f partiesFunc) AssignedPartyOfAccount(ctx context.Context, acct *account.Account) (party.Party, error) {
	return f(ctx, acct)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer  abc "))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken(""))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/app", func(c *gin.Context) {
		_ = c.Error(apperror.NewNotFound("party", "42"))
	})
	r.GET("/raw", func(c *gin.Context) {
		_ = c.Error(errors.New("secret internals"))
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperror.CodeNotFound, body.Code)

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/raw", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret internals")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), apperror.CodeInternal)
}

func TestTrace_PropagatesRequestID(t *testing.T) {
	r := gin.New()
	r.Use(Trace())
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, "req-1", appctx.GetRequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := serve(r, req)

	assert.Equal(t, "req-1", rec.Header().Get(HeaderRequestID))
	assert.NotEmpty(t, rec.Header().Get(HeaderTraceID))
}

func TestSecurityContext_PassesCredentials(t *testing.T) {
	var gotSession, gotBearer string
	builder := builderFunc(func(_ context.Context, sessionID, bearer string) (*security.RequestContext, error) {
		gotSession, gotBearer = sessionID, bearer
		sc := security.NewRequestContext()
		sc.Initialize()
		return sc, nil
	})

	r := gin.New()
	r.Use(SecurityContext(builder, "sid"))
	r.GET("/", func(c *gin.Context) {
		sc := security.FromContext(c.Request.Context())
		require.NotNil(t, sc)
		p := appctx.GetPrincipal(c.Request.Context())
		require.NotNil(t, p)
		assert.Equal(t, sc.ContextHash(), p.ContextHash)
		assert.Empty(t, p.AccountID)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "s-1"})
	req.Header.Set("Authorization", "Bearer t-1")
	rec := serve(r, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-1", gotSession)
	assert.Equal(t, "t-1", gotBearer)
}

func TestSecurityContext_BuilderFailure(t *testing.T) {
	builder := builderFunc(func(context.Context, string, string) (*security.RequestContext, error) {
		return nil, errors.New("redis down")
	})

	r := gin.New()
	r.Use(ErrorHandler(), SecurityContext(builder, "sid"))
	r.GET("/", func(c *gin.Context) { t.Fatal("handler must not run") })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCurrentUser_InstallsServiceAndPrincipal(t *testing.T) {
	u := party.NewUser(party.PersonName{FirstName: "Grace"}, "")
	acct := account.New("grace", account.DefaultProvider, "")
	acct.PartyID = &u.ID

	calls := 0
	parties := partiesFunc(func(context.Context, *account.Account) (party.Party, error) {
		calls++
		return u, nil
	})

	sc := security.NewRequestContext()
	sc.AddToken(security.Authenticated("test", acct))
	sc.Initialize()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := security.WithContext(c.Request.Context(), sc)
		ctx = appctx.WithPrincipal(ctx, &appctx.Principal{ContextHash: sc.ContextHash()})
		c.Request = c.Request.WithContext(ctx)
	}, CurrentUser(parties, nil))
	r.GET("/", func(c *gin.Context) {
		ctx := c.Request.Context()
		assert.Equal(t, u.ID.String(), appctx.GetPrincipal(ctx).UserID)

		svc := user.ServiceFromContext(ctx)
		require.NotNil(t, svc)
		got, err := svc.GetCurrentUser(ctx)
		require.NoError(t, err)
		assert.Same(t, u, got)
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestCurrentUser_LookupErrorDoesNotAbort(t *testing.T) {
	acct := account.New("x", account.DefaultProvider, "")
	parties := partiesFunc(func(context.Context, *account.Account) (party.Party, error) {
		return nil, errors.New("db down")
	})

	sc := security.NewRequestContext()
	sc.AddToken(security.Authenticated("test", acct))
	sc.Initialize()

	reached := false
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(security.WithContext(c.Request.Context(), sc))
	}, CurrentUser(parties, nil))
	r.GET("/", func(c *gin.Context) { reached = true })

	serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, reached)
}
