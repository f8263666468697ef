package postgres

import (
	"context"
	"fmt"

	"frontuser/pkg/logger"
)

// schema is idempotent; Migrate may run on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS parties (
		id          UUID PRIMARY KEY,
		party_type  TEXT NOT NULL CHECK (party_type IN ('user', 'organization')),
		title       TEXT NOT NULL DEFAULT '',
		first_name  TEXT NOT NULL DEFAULT '',
		middle_name TEXT NOT NULL DEFAULT '',
		last_name   TEXT NOT NULL DEFAULT '',
		other_name  TEXT NOT NULL DEFAULT '',
		alias       TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL DEFAULT '',
		email       TEXT NOT NULL DEFAULT '',
		locale      TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS accounts (
		id                                  UUID PRIMARY KEY,
		account_identifier                  TEXT NOT NULL,
		authentication_provider_name        TEXT NOT NULL,
		credentials_source                  TEXT NOT NULL,
		party_id                            UUID REFERENCES parties (id) ON DELETE SET NULL,
		roles                               TEXT[] NOT NULL DEFAULT '{}',
		expiration_date                     TIMESTAMPTZ,
		last_successful_authentication_date TIMESTAMPTZ,
		failed_authentication_count         INT NOT NULL DEFAULT 0,
		locked_until                        TIMESTAMPTZ,
		created_at                          TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (account_identifier, authentication_provider_name)
	)`,
	`CREATE INDEX IF NOT EXISTS accounts_party_id_idx ON accounts (party_id)`,
	`CREATE TABLE IF NOT EXISTS authentication_events (
		id                 UUID PRIMARY KEY,
		event_type         TEXT NOT NULL,
		account_id         UUID REFERENCES accounts (id) ON DELETE SET NULL,
		identifier         TEXT NOT NULL DEFAULT '',
		provider           TEXT NOT NULL DEFAULT '',
		details            JSONB,
		details_compressed BYTEA,
		compression_algo   TEXT NOT NULL DEFAULT 'none',
		occurred_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS authentication_events_identifier_idx
		ON authentication_events (identifier, occurred_at DESC)`,
}

// Migrate creates the account, party and authentication event tables.
func Migrate(ctx context.Context, txm *TxManager) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		q := txm.GetQuerier(ctx)
		for i, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d: %w", i, err)
			}
		}
		logger.Info(ctx, "database schema is up to date", "steps", len(schema))
		return nil
	})
}
