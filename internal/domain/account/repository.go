package account

import (
	"context"

	"frontuser/internal/core/id"
)

// Repository defines account storage operations.
type Repository interface {
	// Create stores a new account.
	Create(ctx context.Context, acct *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)

	// GetByIdentifier retrieves an account by identifier within a provider.
	GetByIdentifier(ctx context.Context, identifier, provider string) (*Account, error)

	// UpdateAuthenticationStats persists failure counter, lockout and last
	// successful authentication date.
	UpdateAuthenticationStats(ctx context.Context, acct *Account) error
}
