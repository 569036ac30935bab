package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_revoked_tokens.sql"}, names)

	for _, name := range names {
		data, err := fs.ReadFile(Migrations, name)
		require.NoError(t, err)
		body := string(data)
		assert.True(t, strings.Contains(body, "-- +goose Up"), "%s has no Up section", name)
		assert.True(t, strings.Contains(body, "-- +goose Down"), "%s has no Down section", name)
	}
}
