package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches to dir for the duration of the test, so that no stray
// .env or config.json is picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", opts.Port)
	assert.Equal(t, StorageFile, opts.Storage)
	assert.Equal(t, "cardmaster.json", opts.StateFile)
	assert.Equal(t, 24, opts.TokenTTLHours)
	assert.False(t, opts.HashPasswords)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 60, opts.SnapshotIntervalMinutes)
}

func TestLoad_Flags(t *testing.T) {
	chdir(t, t.TempDir())

	opts, err := Load([]string{"-a", ":9090", "-s", "redis", "-hash-passwords", "-token-ttl", "2"})
	require.NoError(t, err)
	assert.Equal(t, ":9090", opts.Port)
	assert.Equal(t, StorageRedis, opts.Storage)
	assert.True(t, opts.HashPasswords)
	assert.Equal(t, 2, opts.TokenTTLHours)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := filepath.Join(dir, "cardmaster.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("address: \":7000\"\nstorage: mongo\nlog_level: debug\n"), 0o600))

	t.Setenv("SERVER_ADDRESS", ":6000")

	opts, err := Load([]string{"-a", ":8000", "-c", cfg, "-s", "memory"})
	require.NoError(t, err)
	assert.Equal(t, ":6000", opts.Port, "environment wins")
	assert.Equal(t, StorageMongo, opts.Storage, "config file beats flags")
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestLoad_JSONConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"storage":"postgres","database_dsn":"postgres://x"}`), 0o600))
	t.Setenv("CONFIG", cfg)

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, opts.Config)
	assert.Equal(t, StoragePostgres, opts.Storage)
	assert.Equal(t, "postgres://x", opts.DatabaseDSN)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\n"), 0o600))
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", opts.JWTSecret)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, dir string) []string
		wantErr string
	}{
		{
			name:    "unknown backend",
			setup:   func(t *testing.T, dir string) []string { return []string{"-s", "floppy"} },
			wantErr: `unknown storage backend "floppy"`,
		},
		{
			name: "malformed config file",
			setup: func(t *testing.T, dir string) []string {
				path := filepath.Join(dir, "bad.json")
				require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
				return []string{"-c", path}
			},
			wantErr: "error while parsing config file",
		},
		{
			name: "malformed env value",
			setup: func(t *testing.T, dir string) []string {
				t.Setenv("TOKEN_TTL_HOURS", "soon")
				return nil
			},
			wantErr: "TokenTTLHours",
		},
		{
			name:    "zero token ttl",
			setup:   func(t *testing.T, dir string) []string { return []string{"-token-ttl", "0"} },
			wantErr: "token ttl must be positive, got 0",
		},
		{
			name: "zero snapshot interval from env",
			setup: func(t *testing.T, dir string) []string {
				t.Setenv("SNAPSHOT_INTERVAL_MINUTES", "0")
				return nil
			},
			wantErr: "snapshot interval must be positive, got 0",
		},
		{
			name: "negative snapshot retention from config file",
			setup: func(t *testing.T, dir string) []string {
				path := filepath.Join(dir, "cardmaster.yml")
				require.NoError(t, os.WriteFile(path, []byte("snapshot_retention_hours: -1\n"), 0o600))
				return []string{"-c", path}
			},
			wantErr: "snapshot retention must be positive, got -1",
		},
		{
			name:    "unknown flag",
			setup:   func(t *testing.T, dir string) []string { return []string{"-nope"} },
			wantErr: "flag provided but not defined",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			_, err := Load(tt.setup(t, dir))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
