package cmd

import (
	"context"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/TomBedinoVT/dockerops-manager/pkg/cleanup"
	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
	"github.com/TomBedinoVT/dockerops-manager/pkg/install"
	"github.com/TomBedinoVT/dockerops-manager/pkg/version"
)

var uninstallCleanAll bool

// UninstallCommand represents the uninstall command
var UninstallCommand = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall DockerOps",
	Long: `Remove the DockerOps binary and any leftover update backup.

With --clean-all, the per-user data directory and any installed systemd units
are removed as well. Crontab entries mentioning dockerops are reported but
never modified.`,
	Example: `  # Remove the binary only
  sudo dockerops-manager uninstall

  # Remove the binary, data directory, and systemd units
  sudo dockerops-manager uninstall --clean-all`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	UninstallCommand.Flags().BoolVar(&uninstallCleanAll, "clean-all", false, "Remove binary, database, and all related files")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	return uninstallWorkflow(cmd.Context(), config.New(), uninstallCleanAll)
}

func uninstallWorkflow(ctx context.Context, cfg *config.Config, cleanAll bool) error {
	if current, ok := version.Current(ctx, cfg); ok {
		log.Infof("current version: %s", current)
	}

	if err := install.RemoveBinary(cfg); err != nil {
		return err
	}
	log.Infof("removed %s", cfg.BinaryPath)

	if err := install.RemoveBackup(cfg); err != nil {
		log.Warnf("%v", err)
	}

	if cleanAll {
		existed, err := cleanup.DataDir(cfg)
		if err != nil {
			return err
		}
		if existed {
			log.Infof("removed %s", cfg.DataDir())
		} else {
			log.Info("no DockerOps directory found to clean")
		}

		if removed := cleanup.SystemdUnits(cfg); len(removed) > 0 {
			log.Debugf("removed %d systemd units", len(removed))
		}
		if err := cleanup.ReloadSystemd(ctx); err != nil {
			log.Warnf("%v", err)
		}

		if cleanup.CronEntries(ctx, cfg) {
			log.Warn("found DockerOps entries in crontab; remove them manually with: crontab -e")
		}
	}

	log.Info("uninstallation complete")
	if cleanAll {
		log.Info("all DockerOps files and data have been removed")
	} else {
		log.Info("binary removed; use --clean-all to remove all data")
	}
	return nil
}
