package party

import (
	"context"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/domain/account"
)

// Repository defines party storage operations.
type Repository interface {
	// Create stores a new party of any kind.
	Create(ctx context.Context, p Party) error

	// GetByID loads a party, returning the concrete kind stored.
	GetByID(ctx context.Context, partyID id.ID) (Party, error)
}

// Service resolves the party an account is assigned to.
type Service interface {
	// AssignedPartyOfAccount returns the account's party, or nil when the
	// account has none.
	AssignedPartyOfAccount(ctx context.Context, acct *account.Account) (Party, error)
}

// PartyService implements Service on top of a Repository.
type PartyService struct {
	repo Repository
}

var _ Service = (*PartyService)(nil)

// NewService creates a new party service.
func NewService(repo Repository) *PartyService {
	return &PartyService{repo: repo}
}

// AssignedPartyOfAccount returns nil, nil for a nil account, an account
// without a party, or a party id that no longer exists.
func (s *PartyService) AssignedPartyOfAccount(ctx context.Context, acct *account.Account) (Party, error) {
	if acct == nil || acct.PartyID == nil || id.IsNil(*acct.PartyID) {
		return nil, nil
	}

	p, err := s.repo.GetByID(ctx, *acct.PartyID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// Create stores a party.
func (s *PartyService) Create(ctx context.Context, p Party) error {
	return s.repo.Create(ctx, p)
}
