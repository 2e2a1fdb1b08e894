package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckConstraintSQL(t *testing.T) {
	c := checkConstraint{"ticket_types", "chk_reserved", "reserved <= capacity"}
	assert.Equal(t,
		"ALTER TABLE ticket_types ADD CONSTRAINT chk_reserved CHECK (reserved <= capacity)",
		c.addSQL())
}

func TestCounterCheckStatementsArePostgresValid(t *testing.T) {
	// ADD CONSTRAINT has no IF NOT EXISTS form in Postgres; existence is
	// resolved against pg_constraint before these run.
	for _, c := range counterChecks {
		sql := c.addSQL()
		assert.NotContains(t, sql, "IF NOT EXISTS")
		assert.True(t, strings.HasPrefix(sql, "ALTER TABLE "+c.table))
		assert.Contains(t, sql, c.name)
	}
}
