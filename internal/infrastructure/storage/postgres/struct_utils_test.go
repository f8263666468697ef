package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"frontuser/internal/core/id"
	"frontuser/internal/domain/account"
)

type auditFields struct {
	CreatedAt time.Time `db:"created_at"`
}

type sampleRow struct {
	auditFields
	ID      id.ID  `db:"id"`
	Name    string `db:"name"`
	Ignored string `db:"-"`
	NoTag   string
}

func TestExtractDBColumns_Account(t *testing.T) {
	cols := ExtractDBColumns[account.Account]()

	assert.Equal(t, []string{
		"id", "account_identifier", "authentication_provider_name", "credentials_source",
		"party_id", "roles", "expiration_date", "last_successful_authentication_date",
		"failed_authentication_count", "locked_until", "created_at",
	}, cols)
}

func TestExtractDBColumns_Embedded(t *testing.T) {
	cols := ExtractDBColumns[sampleRow]()
	assert.Equal(t, []string{"created_at", "id", "name"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	row := &sampleRow{
		auditFields: auditFields{CreatedAt: now},
		ID:          id.New(),
		Name:        "alice",
		Ignored:     "x",
		NoTag:       "y",
	}

	m := StructToMap(row)

	assert.Len(t, m, 3)
	assert.Equal(t, row.ID, m["id"])
	assert.Equal(t, "alice", m["name"])
	assert.Equal(t, now, m["created_at"])
}

func TestStructToMap_NotAStruct(t *testing.T) {
	assert.Nil(t, StructToMap(42))
	assert.Nil(t, StructToMap((*sampleRow)(nil)))
}
