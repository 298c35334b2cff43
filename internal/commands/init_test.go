package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcboard-dev/tcboard/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--name", "Retail TC")
	require.NoError(t, err)

	for _, d := range []string{"extracts", "logs"} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--name", "Retail TC")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.File))
	require.NoError(t, err)
	assert.Equal(t, "Retail TC", cfg.Portfolio.Name)
	assert.Equal(t, 120, cfg.Reconcile.LookbackMonths)
}

func TestInit_EnvExample(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--name", "Retail TC")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".env.example"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "TCBOARD_DATABASE_URL=")
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "init", dir, "--name", "Retail TC")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	for _, pattern := range []string{".env", "extracts/", "logs/"} {
		assert.Contains(t, string(data), pattern)
	}
}

func TestInit_RequiresName(t *testing.T) {
	_, err := execute(t, "init", t.TempDir())
	require.Error(t, err)
}
