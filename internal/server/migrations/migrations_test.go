package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	b, err := fs.ReadFile(Migrations, "00001_create_users.sql")
	require.NoError(t, err)

	sql := string(b)
	assert.True(t, strings.Contains(sql, "-- +goose Up"))
	assert.True(t, strings.Contains(sql, "-- +goose Down"))
	assert.Contains(t, sql, "UNIQUE (email)")
}
