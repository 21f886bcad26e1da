package database

import (
	"context"
	"strings"
	"testing"

	"finlit-platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_CreatesAccountTables(t *testing.T) {
	require.Len(t, Schema, 4)
	assert.Contains(t, Schema[0], "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, Schema[1], "REFERENCES users(id) ON DELETE CASCADE")
	for _, stmt := range Schema {
		assert.Contains(t, stmt, "IF NOT EXISTS", "schema statements must be rerunnable")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host: "127.0.0.1", Port: "1", User: "nobody", Name: "finlit", SSLMode: "disable",
	}
	db, err := Connect(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.True(t, strings.HasPrefix(err.Error(), "ping database finlit@127.0.0.1:1"))
}
