package party

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/domain/account"
)

type memRepo struct {
	parties map[id.ID]Party
	err     error
	calls   int
}

func (m *memRepo) Create(_ context.Context, p Party) error {
	m.parties[p.PartyID()] = p
	return nil
}

func (m *memRepo) GetByID(_ context.Context, partyID id.ID) (Party, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.parties[partyID]
	if !ok {
		return nil, apperror.NewNotFound("party", partyID.String())
	}
	return p, nil
}

func accountFor(p Party) *account.Account {
	a := account.New("someone", account.DefaultProvider, "")
	if p != nil {
		pid := p.PartyID()
		a.PartyID = &pid
	}
	return a
}

func TestAssignedPartyOfAccount(t *testing.T) {
	ctx := context.Background()
	u := NewUser(PersonName{FirstName: "Ada", LastName: "Lovelace"}, "ada@example.com")
	org := NewOrganization("Analytical Engines Ltd")
	repo := &memRepo{parties: map[id.ID]Party{}}
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Create(ctx, org))
	svc := NewService(repo)

	t.Run("user", func(t *testing.T) {
		p, err := svc.AssignedPartyOfAccount(ctx, accountFor(u))
		require.NoError(t, err)
		assert.Same(t, u, p)
	})

	t.Run("organization is returned as is", func(t *testing.T) {
		p, err := svc.AssignedPartyOfAccount(ctx, accountFor(org))
		require.NoError(t, err)
		assert.Same(t, org, p)
	})

	t.Run("nil account", func(t *testing.T) {
		p, err := svc.AssignedPartyOfAccount(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("account without party skips storage", func(t *testing.T) {
		before := repo.calls
		p, err := svc.AssignedPartyOfAccount(ctx, accountFor(nil))
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, before, repo.calls)
	})

	t.Run("dangling party id", func(t *testing.T) {
		p, err := svc.AssignedPartyOfAccount(ctx, accountFor(NewUser(PersonName{}, "")))
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestAssignedPartyOfAccount_PropagatesStorageErrors(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(&memRepo{parties: map[id.ID]Party{}, err: boom})

	_, err := svc.AssignedPartyOfAccount(context.Background(), accountFor(NewUser(PersonName{}, "")))
	assert.ErrorIs(t, err, boom)
}

func TestPersonName_FullName(t *testing.T) {
	assert.Equal(t, "Dr. Ada Lovelace", PersonName{Title: "Dr.", FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "ada", PersonName{Alias: "ada"}.FullName())
	assert.Equal(t, "ada@example.com", (&User{PrimaryEmail: "ada@example.com"}).Label())
}
