package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"restaurant-pos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "0.08", cfg.Billing.Rate.String())
	assert.Equal(t, 12*time.Hour, cfg.Auth.TTL)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.yaml")
	content := `
database:
  driver: postgres
  host: db.internal
  port: 6543
  name: pos
billing:
  tax_rate: "0.10"
auth:
  session_ttl: 30m
server:
  addr: 127.0.0.1:9000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DB_HOST", "override.internal")
	t.Setenv("TAX_RATE", "0.05")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "override.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "0.05", cfg.Billing.Rate.String())
	assert.Equal(t, 30*time.Minute, cfg.Auth.TTL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t,
		"host=override.internal port=6543 user=postgres password= dbname=pos sslmode=disable",
		cfg.Database.PostgresDSN())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"bad port", "DB_PORT", "five"},
		{"bad tax rate", "TAX_RATE", "eight percent"},
		{"tax rate too high", "TAX_RATE", "1.5"},
		{"negative tax rate", "TAX_RATE", "-0.01"},
		{"bad ttl", "SESSION_TTL", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "pos.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		DatabaseConfig{Path: "pos.db"}.SQLiteDSN())
	assert.Equal(t, "file:pos.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		DatabaseConfig{Path: "file:pos.db?mode=rwc"}.SQLiteDSN())
}

func TestOpenDBMigratesSchema(t *testing.T) {
	db, err := OpenDB(DatabaseConfig{
		Driver:   "sqlite",
		Path:     filepath.Join(t.TempDir(), "pos.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasColumn(&models.Order{}, "order_time"))
	assert.True(t, db.Migrator().HasColumn(&models.Table{}, "table_number"))
	assert.True(t, db.Migrator().HasColumn(&models.User{}, "password"))
}
