// Package party_repo stores parties of every kind in a single PostgreSQL
// table discriminated by party_type.
package party_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"frontuser/internal/core/apperror"
	"frontuser/internal/core/id"
	"frontuser/internal/domain/party"
	"frontuser/internal/infrastructure/storage/postgres"
)

const tableName = "parties"

// row is the storage shape shared by all party kinds.
type row struct {
	ID         id.ID      `db:"id"`
	PartyType  party.Type `db:"party_type"`
	Title      string     `db:"title"`
	FirstName  string     `db:"first_name"`
	MiddleName string     `db:"middle_name"`
	LastName   string     `db:"last_name"`
	OtherName  string     `db:"other_name"`
	Alias      string     `db:"alias"`
	Name       string     `db:"name"`
	Email      string     `db:"email"`
	Locale     string     `db:"locale"`
	CreatedAt  time.Time  `db:"created_at"`
}

func toRow(p party.Party) (*row, error) {
	switch v := p.(type) {
	case *party.User:
		return &row{
			ID:         v.ID,
			PartyType:  party.TypeUser,
			Title:      v.Name.Title,
			FirstName:  v.Name.FirstName,
			MiddleName: v.Name.MiddleName,
			LastName:   v.Name.LastName,
			OtherName:  v.Name.OtherName,
			Alias:      v.Name.Alias,
			Email:      v.PrimaryEmail,
			Locale:     v.Locale,
			CreatedAt:  v.CreatedAt,
		}, nil
	case *party.Organization:
		return &row{
			ID:        v.ID,
			PartyType: party.TypeOrganization,
			Name:      v.Name,
			CreatedAt: v.CreatedAt,
		}, nil
	default:
		return nil, apperror.NewValidation(fmt.Sprintf("unsupported party kind %T", p))
	}
}

func (r *row) toParty() (party.Party, error) {
	switch r.PartyType {
	case party.TypeUser:
		return &party.User{
			ID: r.ID,
			Name: party.PersonName{
				Title:      r.Title,
				FirstName:  r.FirstName,
				MiddleName: r.MiddleName,
				LastName:   r.LastName,
				OtherName:  r.OtherName,
				Alias:      r.Alias,
			},
			PrimaryEmail: r.Email,
			Locale:       r.Locale,
			CreatedAt:    r.CreatedAt,
		}, nil
	case party.TypeOrganization:
		return &party.Organization{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}, nil
	default:
		return nil, apperror.NewInternal(fmt.Errorf("party %s has unknown type %q", r.ID, r.PartyType))
	}
}

// Repo implements party.Repository.
type Repo struct {
	txm     *postgres.TxManager
	columns []string
}

var _ party.Repository = (*Repo)(nil)

// NewRepo creates a new party repository.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:     txm,
		columns: postgres.ExtractDBColumns[row](),
	}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a party of any supported kind.
func (r *Repo) Create(ctx context.Context, p party.Party) error {
	data, err := toRow(p)
	if err != nil {
		return err
	}

	sql, args, err := r.builder().
		Insert(tableName).
		SetMap(postgres.StructToMap(data)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate("party", "id", data.ID.String())
		}
		return apperror.NewDatabase("insert party", err)
	}
	return nil
}

// GetByID loads a party as its concrete kind.
func (r *Repo) GetByID(ctx context.Context, partyID id.ID) (party.Party, error) {
	sql, args, err := r.builder().
		Select(r.columns...).
		From(tableName).
		Where(squirrel.Eq{"id": partyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var data row
	err = r.txm.ReadOnly(ctx, func(ctx context.Context) error {
		if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &data, sql, args...); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NewNotFound("party", partyID.String())
			}
			return apperror.NewDatabase("select party", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data.toParty()
}
