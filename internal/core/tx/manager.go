// Package tx defines the transaction boundary domain services depend on.
// The pgx implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs fn inside a transaction: committed when fn returns nil,
// rolled back otherwise. Nested calls reuse the transaction found in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
