package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "tester")
	for _, k := range []string{
		"GW_CONFIG", "GW_EXPORT_ROOT", "GW_DB_PATH", "GW_OUTPUT_DIR", "GW_USER",
		"GW_LOG_LEVEL", "RESEND_API_KEY", "GW_NOTIFY_EMAIL", "GW_NOTIFY_FROM",
	} {
		t.Setenv(k, "")
	}
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".config", "gw", "gw.db"), cfg.DBPath)
	assert.Equal(t, "tester", cfg.UserID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Notify.Console)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".config", "gw", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
export_root = "~/chats"
user_id = "alice"
strategies = ["topics", "stats"]

[notify]
console = false
log_file = "~/gw.log"
`), 0o644))
	t.Setenv("GW_USER", "bob")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "chats"), cfg.ExportRoot)
	assert.Equal(t, "bob", cfg.UserID)
	assert.Equal(t, []string{"topics", "stats"}, cfg.Strategies)
	assert.False(t, cfg.Notify.Console)
	assert.Equal(t, filepath.Join(home, "gw.log"), cfg.Notify.LogFile)

	a, err := cfg.Analyzer()
	require.NoError(t, err)
	assert.Len(t, a.Strategies(), 2)
}

func TestLoad_AlternatePathAndBadFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "alt.toml")
	require.NoError(t, os.WriteFile(path, []byte("user_id = ["), 0o644))
	t.Setenv("GW_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Defaults(t.TempDir())
	cfg.UserID = " "
	cfg.LogLevel = "loud"
	cfg.Strategies = []string{"sentiment"}
	cfg.Notify.Email = "me@example.com"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"user_id", "log_level", "strategies", "resend api key"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	cfg := Defaults(dir)
	cfg.UserID = "carol"

	require.NoError(t, InitFile(path, cfg))
	assert.Error(t, InitFile(path, cfg))

	isolate(t)
	t.Setenv("GW_CONFIG", path)
	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "carol", loaded.UserID)
}
