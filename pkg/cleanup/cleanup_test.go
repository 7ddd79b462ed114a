package cleanup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

func TestDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SUDO_USER", "")
	t.Setenv("HOME", home)

	cfg := config.New()
	dataDir := filepath.Join(home, cfg.DataDirName)
	require.NoError(t, os.MkdirAll(dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, cfg.DatabaseFile), []byte("db"), 0644))

	existed, err := DataDir(cfg)
	require.NoError(t, err)
	assert.True(t, existed)

	_, statErr := os.Stat(dataDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDataDirMissing(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	t.Setenv("HOME", t.TempDir())

	existed, err := DataDir(config.New())
	require.NoError(t, err)
	assert.False(t, existed)
}

func unitTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.SystemdUnitDirs = []string{t.TempDir(), t.TempDir(), t.TempDir()}
	return cfg
}

func TestFindSystemdUnits(t *testing.T) {
	cfg := unitTestConfig(t)
	assert.Empty(t, FindSystemdUnits(cfg))

	service := filepath.Join(cfg.SystemdUnitDirs[0], "dockerops.service")
	timer := filepath.Join(cfg.SystemdUnitDirs[2], "dockerops.timer")
	require.NoError(t, os.WriteFile(service, []byte("[Unit]"), 0644))
	require.NoError(t, os.WriteFile(timer, []byte("[Timer]"), 0644))

	found := FindSystemdUnits(cfg)
	assert.ElementsMatch(t, []string{service, timer}, found)
}

func TestSystemdUnitsRemovesAllFound(t *testing.T) {
	cfg := unitTestConfig(t)
	var want []string
	for _, dir := range cfg.SystemdUnitDirs {
		for _, name := range cfg.SystemdUnitNames {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("[Unit]"), 0644))
			want = append(want, path)
		}
	}

	removed := SystemdUnits(cfg)
	assert.ElementsMatch(t, want, removed)

	for _, path := range want {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "unit %s should be gone", path)
	}
}

func TestSystemdUnitsLeavesUnrelatedFiles(t *testing.T) {
	cfg := unitTestConfig(t)
	other := filepath.Join(cfg.SystemdUnitDirs[0], "nginx.service")
	require.NoError(t, os.WriteFile(other, []byte("[Unit]"), 0644))

	assert.Empty(t, SystemdUnits(cfg))

	_, err := os.Stat(other)
	assert.NoError(t, err)
}

func TestScratchDir(t *testing.T) {
	cfg := config.New()
	cfg.ScratchDir = filepath.Join(t.TempDir(), "dockerops_install")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.ScratchDir, "nested"), 0755))

	require.NoError(t, ScratchDir(cfg))
	_, err := os.Stat(cfg.ScratchDir)
	assert.True(t, os.IsNotExist(err))

	// Removing an absent scratch dir is fine too
	require.NoError(t, ScratchDir(cfg))
}
