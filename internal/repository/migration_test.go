package repository

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The sqlite tests build their schema with AutoMigrate, so the postgres DDL
// is never executed here. This pins down the delete rules the admin user
// deletion depends on: a user row can only be removed if its wallet, ledger
// and redemption rows go with it.
func TestInitMigration_DeleteRules(t *testing.T) {
	raw, err := os.ReadFile("../../migrations/00001_init.sql")
	require.NoError(t, err)
	ddl := string(raw)

	cascades := []string{
		"user_id         BIGINT        NOT NULL UNIQUE REFERENCES users (id) ON DELETE CASCADE",
		"user_id                 BIGINT        NOT NULL REFERENCES users (id) ON DELETE CASCADE",
		"user_id         BIGINT        NOT NULL REFERENCES users (id) ON DELETE CASCADE",
	}
	for _, c := range cascades {
		assert.Contains(t, ddl, c)
	}

	// Deleting an app or an admin keeps the history rows, just unlinked.
	assert.Contains(t, ddl, "app_id                  BIGINT        REFERENCES apps (id) ON DELETE SET NULL")
	assert.Contains(t, ddl, "processed_by    BIGINT        REFERENCES users (id) ON DELETE SET NULL")

	// A reward with redemptions must not be deletable out from under them.
	assert.Contains(t, ddl, "reward_id       BIGINT        NOT NULL REFERENCES rewards (id),")
	assert.NotContains(t, ddl, "REFERENCES rewards (id) ON DELETE")

	require.True(t, strings.Contains(ddl, "-- +goose Up") && strings.Contains(ddl, "-- +goose Down"))
}
