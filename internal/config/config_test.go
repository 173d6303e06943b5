package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup location at empty temp dirs so the developer's
// own config and environment do not leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Pool.Backend)
	assert.Equal(t, filepath.Join(dir, "data", AppName, "pool.json"), cfg.Pool.Path)
	assert.Equal(t, DefaultQualifiers, cfg.Pool.Qualifiers)
	assert.True(t, cfg.Recipes.Bundled)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, filepath.Join(dir, "cache", AppName), cfg.Cache.Dir)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.File)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	doc := `
[pool]
backend = "sqlite"
dsn = "/tmp/pool.db"
qualifiers = ["Shiny"]

[recipes]
bundled = false
remote_url = "https://example.com/recipes.json"
refresh_interval = "15m"

[[recipes.files]]
path = "overrides.toml"
priority = 50

[server]
addr = ":9000"
rate_limit = 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "sqlite", cfg.Pool.Backend)
	assert.Equal(t, "/tmp/pool.db", cfg.Pool.DSN)
	assert.Equal(t, []string{"Shiny"}, cfg.Pool.Qualifiers)
	assert.False(t, cfg.Recipes.Bundled)
	assert.Equal(t, 15*time.Minute, cfg.Recipes.RefreshInterval)
	require.Len(t, cfg.Recipes.Files, 1)
	assert.Equal(t, RecipeFile{Path: "overrides.toml", Priority: 50}, cfg.Recipes.Files[0])
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.InDelta(t, 2.5, cfg.Server.RateLimit, 1e-9)
	assert.Equal(t, 10, cfg.Server.Burst)
}

func TestLoadDiscoversWorkingDirFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "craftwise.toml"), []byte("[log]\nlevel = \"debug\"\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("CRAFTWISE_POOL_BACKEND", "memory")
	t.Setenv("CRAFTWISE_POOL_QUALIFIERS", "Rare,Epic")
	t.Setenv("CRAFTWISE_CACHE_TTL", "90s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Pool.Backend)
	assert.Equal(t, []string{"Rare", "Epic"}, cfg.Pool.Qualifiers)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "nope.toml"))
	assert.Error(t, err)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown pool backend", map[string]string{"CRAFTWISE_POOL_BACKEND": "postgres"}, "pool.backend"},
		{"bad remote url", map[string]string{"CRAFTWISE_RECIPES_REMOTE_URL": "not a url"}, "recipes.remote_url"},
		{"bad log level", map[string]string{"CRAFTWISE_LOG_LEVEL": "loud"}, "log.level"},
		{"zero rate limit", map[string]string{"CRAFTWISE_SERVER_RATE_LIMIT": "0"}, "server.rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	isolate(t)
	require.NoError(t, Validate(Default()))
}
