package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsZeroConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg)
}

func TestLoadParsesYAMLFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corelower.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
disable_eager_wrap: true
start_counter: 42
trust_type_check: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.DisableEagerWrap)
	assert.Equal(t, uint64(42), cfg.StartCounter)
	assert.True(t, cfg.TrustTypeCheck)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corelower.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDefaultsUnsetFieldsToZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corelower.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`start_counter: 7`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.DisableEagerWrap)
	assert.False(t, cfg.TrustTypeCheck)
	assert.Equal(t, uint64(7), cfg.StartCounter)
}
