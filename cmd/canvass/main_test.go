package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "canvass version")
}

func TestValidate_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "poll.yaml"), []byte(`
code: POLL
questions:
  - id: 1
    kind: choice
    prompt: Coffee or tea?
    options: [Coffee, Tea]
`), 0644))
	t.Setenv("CANVASS_STORE", "redis")

	out, err := execute(t, "validate", "--campaigns-dir", dir, "--store", "memory", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "1 campaign(s) valid")
	assert.Equal(t, "memory", cfg.Store)
}

func TestValidate_BadLogLevel(t *testing.T) {
	_, err := execute(t, "validate", "--campaigns-dir", t.TempDir(), "--log-level", "loud")
	assert.Error(t, err)
}
