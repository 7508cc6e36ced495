package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Root)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lantern.yaml")
	content := `root: /srv/lantern
client: acme
log_format: json
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/lantern", cfg.Root)
	assert.Equal(t, "acme", cfg.Client)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Debug)
}

func TestEnvRootOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lantern.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: /srv/lantern\n"), 0o644))
	t.Setenv(EnvRoot, "/mnt/override")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/override", cfg.Root)
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lantern.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: /srv/lantern\nlog_format: xml\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lantern.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
