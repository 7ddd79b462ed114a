// Package install places the product binary into the system path and
// manages the backup taken across an update.
package install

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

// Backup copies the currently installed binary to the backup path,
// overwriting any prior backup. It reports whether a backup was taken;
// no binary at the install path is not an error.
func Backup(cfg *config.Config) (bool, error) {
	if _, err := os.Stat(cfg.BinaryPath); os.IsNotExist(err) {
		return false, nil
	}
	if err := copyFile(cfg.BinaryPath, cfg.BackupPath); err != nil {
		return false, errors.Wrap(err, "failed to back up existing binary")
	}
	return true, nil
}

// Install writes the binary at srcPath into the install directory. The
// content goes to a temporary file in the same directory, gets mode
// 0755, and is renamed over the final path, so the install path always
// holds either the old binary or the complete new one.
func Install(cfg *config.Config, srcPath string) error {
	if err := os.MkdirAll(cfg.InstallDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create install directory")
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return errors.Wrap(err, "failed to open new binary")
	}
	defer src.Close()

	tmpFile, err := os.CreateTemp(cfg.InstallDir, "."+cfg.BinaryName+"-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, src); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to copy binary")
	}
	if err := tmpFile.Chmod(0755); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to set permissions")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary file")
	}

	if err := os.Rename(tmpPath, cfg.BinaryPath); err != nil {
		return errors.Wrap(err, "failed to install binary")
	}

	success = true
	return nil
}

// Restore copies the backup over the install path and deletes the
// backup. Used when installing the new binary failed.
func Restore(cfg *config.Config) error {
	if _, err := os.Stat(cfg.BackupPath); os.IsNotExist(err) {
		return errors.New("no backup to restore")
	}
	if err := copyFile(cfg.BackupPath, cfg.BinaryPath); err != nil {
		return errors.Wrap(err, "failed to restore backup")
	}
	if err := os.Remove(cfg.BackupPath); err != nil {
		return errors.Wrap(err, "failed to remove backup after restore")
	}
	return nil
}

// RemoveBinary deletes the installed binary. A missing binary is success.
func RemoveBinary(cfg *config.Config) error {
	if err := os.Remove(cfg.BinaryPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove binary")
	}
	return nil
}

// RemoveBackup deletes any leftover backup file. A missing backup is success.
func RemoveBackup(cfg *config.Config) error {
	if err := os.Remove(cfg.BackupPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove backup")
	}
	return nil
}

// BackupExists reports whether a backup file is present.
func BackupExists(cfg *config.Config) bool {
	_, err := os.Stat(cfg.BackupPath)
	return err == nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
