// Package account_repo stores accounts in PostgreSQL.
package account_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/domain/account"
	"frontuser/internal/infrastructure/storage/postgres"
)

const tableName = "accounts"

// Repo implements account.Repository.
type Repo struct {
	txm     *postgres.TxManager
	columns []string
}

var _ account.Repository = (*Repo)(nil)

// NewRepo creates a new account repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[account.Account](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new account.
func (r *Repo) Create(ctx context.Context, acct *account.Account) error {
	if acct.Roles == nil {
		acct.Roles = []string{}
	}

	sql, args, err := r.builder().
		Insert(tableName).
		SetMap(postgres.StructToMap(acct)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("account", "identifier", acct.Identifier)
		}
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewValidation("party does not exist").WithDetail("field", "partyId")
		}
		return apperror.NewDatabase("insert account", err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *Repo) GetByID(ctx context.Context, accountID id.ID) (*account.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"id": accountID}, accountID.String())
}

// GetByIdentifier retrieves an account by identifier within a provider.
func (r *Repo) GetByIdentifier(ctx context.Context, identifier, provider string) (*account.Account, error) {
	return r.getOne(ctx, squirrel.Eq{
		"account_identifier":           identifier,
		"authentication_provider_name": provider,
	}, identifier)
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Sqlizer, key string) (*account.Account, error) {
	sql, args, err := r.builder().
		Select(r.columns...).
		From(tableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var acct account.Account
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &acct, sql, args...); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NewNotFound("account", key)
			}
			return apperror.NewDatabase("select account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// UpdateAuthenticationStats persists the lockout bookkeeping fields.
func (r *Repo) UpdateAuthenticationStats(ctx context.Context, acct *account.Account) error {
	sql, args, err := r.builder().
		Update(tableName).
		Set("failed_authentication_count", acct.FailedAuthenticationCount).
		Set("locked_until", acct.LockedUntil).
		Set("last_successful_authentication_date", acct.LastSuccessfulAuthenticationDate).
		Where(squirrel.Eq{"id": acct.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return apperror.NewDatabase("update account stats", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("account", acct.ID.String())
	}
	return nil
}
