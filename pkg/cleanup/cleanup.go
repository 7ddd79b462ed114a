// Package cleanup removes the product's associated state: the per-user
// data directory, installed systemd units, and the scratch directory.
// It also detects (but never edits) crontab entries for the product.
package cleanup

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

// DataDir removes the per-user data directory tree. It reports whether
// the directory existed; a missing directory is success.
func DataDir(cfg *config.Config) (bool, error) {
	dir := cfg.DataDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return true, errors.Wrapf(err, "failed to remove %s", dir)
	}
	return true, nil
}

// FindSystemdUnits scans the fixed unit directories for the product's
// unit files and returns the paths that exist.
func FindSystemdUnits(cfg *config.Config) []string {
	var found []string
	for _, dir := range cfg.SystemdUnitDirs {
		for _, name := range cfg.SystemdUnitNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				found = append(found, path)
			}
		}
	}
	return found
}

// SystemdUnits deletes every unit file FindSystemdUnits reports.
// Individual failures are advisory; the paths actually removed are
// returned so the caller knows whether a daemon reload is worthwhile.
func SystemdUnits(cfg *config.Config) []string {
	var removed []string
	for _, path := range FindSystemdUnits(cfg) {
		if err := os.Remove(path); err != nil {
			log.Warnf("failed to remove systemd unit %s: %v", path, err)
			continue
		}
		log.Infof("removed systemd unit %s", path)
		removed = append(removed, path)
	}
	return removed
}

// ReloadSystemd asks the service manager to pick up the removed units.
// Best-effort; a failure is reported to the caller as advisory.
func ReloadSystemd(ctx context.Context) error {
	if err := exec.CommandContext(ctx, "systemctl", "daemon-reload").Run(); err != nil {
		return errors.Wrap(err, "failed to reload systemd daemon")
	}
	return nil
}

// CronEntries reports whether the invoking user's crontab mentions the
// product, case-insensitively. The crontab is never modified; any
// failure to list it reads as "none found".
func CronEntries(ctx context.Context, cfg *config.Config) bool {
	out, err := exec.CommandContext(ctx, "crontab", "-l").Output()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(out)), strings.ToLower(cfg.BinaryName))
}

// ScratchDir removes the download/extraction working directory.
func ScratchDir(cfg *config.Config) error {
	if err := os.RemoveAll(cfg.ScratchDir); err != nil {
		return errors.Wrapf(err, "failed to clean scratch directory %s", cfg.ScratchDir)
	}
	return nil
}
