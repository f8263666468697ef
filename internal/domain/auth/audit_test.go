package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit_LoginOutcomes(t *testing.T) {
	f := newFixture(t)
	audit := &memAudit{}
	f.svc.WithAuditLog(audit)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, Credentials{Identifier: "nobody", Password: "x"})
	require.Error(t, err)

	for i := 0; i < 3; i++ {
		_, err = f.svc.Login(ctx, Credentials{Identifier: "alice", Password: "wrong"})
		require.Error(t, err)
	}

	_, err = f.svc.Login(ctx, Credentials{Identifier: "alice", Password: "correct horse"})
	require.Error(t, err)

	assert.Equal(t, []EventType{
		EventLoginFailed,
		EventLoginFailed,
		EventLoginFailed,
		EventLoginFailed,
		EventAccountLocked,
		EventLoginFailed,
	}, audit.types())

	unknown := audit.events[0]
	assert.Nil(t, unknown.AccountID)
	assert.Equal(t, "nobody", unknown.Identifier)
	assert.Equal(t, ReasonUnknownAccount, unknown.Details["reason"])
	assert.Equal(t, fixedNow, unknown.OccurredAt)
	assert.Equal(t, f.svc.config.Provider, unknown.Provider)

	locked := audit.events[4]
	require.NotNil(t, locked.AccountID)
	assert.Equal(t, f.alice.ID, *locked.AccountID)
	assert.Equal(t, 3, locked.Details["failed_attempts"])

	assert.Equal(t, ReasonLocked, audit.events[5].Details["reason"])
}

func TestAudit_LoginAndLogout(t *testing.T) {
	f := newFixture(t)
	audit := &memAudit{}
	f.svc.WithAuditLog(audit)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, Credentials{Identifier: "alice", Password: "correct horse"})
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, res.SessionID))

	require.Equal(t, []EventType{EventLoginSucceeded, EventLogout}, audit.types())
	logout := audit.events[1]
	require.NotNil(t, logout.AccountID)
	assert.Equal(t, f.alice.ID, *logout.AccountID)
	assert.Equal(t, "alice", logout.Identifier)
	assert.NotEqual(t, audit.events[0].ID, logout.ID)
}

func TestAudit_LogoutOfUnknownSessionRecordsNothing(t *testing.T) {
	f := newFixture(t)
	audit := &memAudit{}
	f.svc.WithAuditLog(audit)

	require.NoError(t, f.svc.Logout(context.Background(), "missing"))
	assert.Empty(t, audit.types())
}

func TestAudit_RecordFailureDoesNotFailLogin(t *testing.T) {
	f := newFixture(t)
	f.svc.WithAuditLog(&memAudit{err: errStoreDown})

	res, err := f.svc.Login(context.Background(), Credentials{Identifier: "alice", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}
