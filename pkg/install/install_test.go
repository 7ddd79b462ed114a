package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.InstallDir = t.TempDir()
	cfg.BinaryPath = filepath.Join(cfg.InstallDir, cfg.BinaryName)
	cfg.BackupPath = cfg.BinaryPath + ".backup"
	return cfg
}

func TestBackupWithoutExistingBinary(t *testing.T) {
	cfg := testConfig(t)

	taken, err := Backup(cfg)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.False(t, BackupExists(cfg))
}

func TestBackupCopiesExistingBinary(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte("old binary"), 0755))

	taken, err := Backup(cfg)
	require.NoError(t, err)
	assert.True(t, taken)

	data, err := os.ReadFile(cfg.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "old binary", string(data))
}

func TestInstall(t *testing.T) {
	cfg := testConfig(t)
	srcPath := filepath.Join(t.TempDir(), "dockerops")
	require.NoError(t, os.WriteFile(srcPath, []byte("new binary"), 0644))

	require.NoError(t, Install(cfg, srcPath))

	data, err := os.ReadFile(cfg.BinaryPath)
	require.NoError(t, err)
	assert.Equal(t, "new binary", string(data))

	info, err := os.Stat(cfg.BinaryPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestInstallOverwritesExisting(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte("old"), 0755))

	srcPath := filepath.Join(t.TempDir(), "dockerops")
	require.NoError(t, os.WriteFile(srcPath, []byte("new"), 0644))

	require.NoError(t, Install(cfg, srcPath))

	data, err := os.ReadFile(cfg.BinaryPath)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestInstallMissingSourceLeavesNoTempFile(t *testing.T) {
	cfg := testConfig(t)

	err := Install(cfg, filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)

	entries, err := os.ReadDir(cfg.InstallDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRestoreAfterFailedInstall(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte("original"), 0755))

	taken, err := Backup(cfg)
	require.NoError(t, err)
	require.True(t, taken)

	// Simulate a clobbered install path
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte("garbage"), 0644))

	require.NoError(t, Restore(cfg))

	data, err := os.ReadFile(cfg.BinaryPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data), "restore must bring back the original byte-for-byte")
	assert.False(t, BackupExists(cfg), "backup is consumed by restore")
}

func TestRestoreWithoutBackup(t *testing.T) {
	cfg := testConfig(t)
	require.Error(t, Restore(cfg))
}

func TestRemoveBinary(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.BinaryPath, []byte("bin"), 0755))

	require.NoError(t, RemoveBinary(cfg))
	_, err := os.Stat(cfg.BinaryPath)
	assert.True(t, os.IsNotExist(err))

	// Removing again is still success
	require.NoError(t, RemoveBinary(cfg))
}

func TestRemoveBackup(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, RemoveBackup(cfg))

	require.NoError(t, os.WriteFile(cfg.BackupPath, []byte("bak"), 0755))
	require.NoError(t, RemoveBackup(cfg))
	assert.False(t, BackupExists(cfg))
}
