package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/TomBedinoVT/dockerops-manager/pkg/archive"
	"github.com/TomBedinoVT/dockerops-manager/pkg/checksums"
	"github.com/TomBedinoVT/dockerops-manager/pkg/cleanup"
	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
	"github.com/TomBedinoVT/dockerops-manager/pkg/fetch"
	"github.com/TomBedinoVT/dockerops-manager/pkg/install"
	"github.com/TomBedinoVT/dockerops-manager/pkg/platform"
	"github.com/TomBedinoVT/dockerops-manager/pkg/release"
	"github.com/TomBedinoVT/dockerops-manager/pkg/version"
)

var (
	// Flags for install command
	installVersion   string
	installCleanDB   bool
	installCleanDirs bool
	installCleanAll  bool
)

// InstallCommand represents the install command
var InstallCommand = &cobra.Command{
	Use:   "install",
	Short: "Install or update DockerOps",
	Long: `Install or update the DockerOps binary from GitHub releases.

The release matching the host platform is downloaded, extracted, and copied into
/usr/local/bin. The previous binary is kept as a backup and restored if the
update fails.`,
	Example: `  # Install latest version
  sudo dockerops-manager install

  # Install specific version
  sudo dockerops-manager install -v v1.0.0

  # Install and wipe the data directory
  sudo dockerops-manager install --clean-all`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	InstallCommand.Flags().StringVarP(&installVersion, "version", "v", "", "Install specific version (e.g., v1.0.0)")
	InstallCommand.Flags().BoolVar(&installCleanDB, "clean-db", false, "Clean DockerOps database after installation")
	InstallCommand.Flags().BoolVar(&installCleanDirs, "clean-dirs", false, "Clean DockerOps directories after installation")
	InstallCommand.Flags().BoolVar(&installCleanAll, "clean-all", false, "Clean database and directories after installation")
}

// installOptions carries the install command's flag values so the
// workflow itself stays free of command state.
type installOptions struct {
	version   string
	cleanDB   bool
	cleanDirs bool
	cleanAll  bool
}

func runInstall(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	cfg := config.New()
	return installWorkflow(cmd.Context(), cfg, release.NewClient(cfg), installOptions{
		version:   installVersion,
		cleanDB:   installCleanDB,
		cleanDirs: installCleanDirs,
		cleanAll:  installCleanAll,
	})
}

func installWorkflow(ctx context.Context, cfg *config.Config, client *release.Client, opts installOptions) error {
	cleanRequested := opts.cleanDB || opts.cleanDirs || opts.cleanAll

	plat := platform.Resolve(ctx)
	log.Infof("system: %s", plat)

	current, haveCurrent := version.Current(ctx, cfg)
	if haveCurrent {
		log.Infof("current version: %s", current)
	}

	var rel *release.Release
	var err error
	if opts.version != "" {
		log.Infof("installing specific version: %s", opts.version)
		rel, err = client.ByTag(ctx, opts.version)
	} else {
		log.Info("installing latest version")
		rel, err = client.Latest(ctx)
	}
	if err != nil {
		return err
	}
	log.Infof("release version: %s", rel.Tag)

	// Tag strings are compared for plain equality; no semantic ordering.
	if haveCurrent && current == rel.Tag {
		log.Info("already running this version")
		if !cleanRequested {
			return nil
		}
	}

	asset, err := release.SelectAsset(rel, cfg.BinaryName, plat)
	if err != nil {
		return err
	}
	log.Infof("asset: %s", asset.Name)

	if err := os.MkdirAll(cfg.ScratchDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create scratch directory")
	}
	defer func() {
		if err := cleanup.ScratchDir(cfg); err != nil {
			log.Warnf("%v", err)
		}
	}()

	archivePath := filepath.Join(cfg.ScratchDir, asset.Name)
	log.Infof("downloading %s", asset.URL)
	if err := fetch.Download(ctx, asset.URL, archivePath); err != nil {
		return err
	}

	if err := verifyChecksum(ctx, rel, archivePath, asset.Name); err != nil {
		return err
	}

	log.Infof("extracting %s", asset.Name)
	if err := archive.Extract(archivePath, cfg.ScratchDir); err != nil {
		return err
	}

	binaryPath, err := archive.FindBinary(cfg.ScratchDir, cfg.BinaryName)
	if err != nil {
		return err
	}

	backupTaken, err := install.Backup(cfg)
	if err != nil {
		return err
	}
	if backupTaken {
		log.Infof("backed up existing %s", cfg.BinaryName)
	}

	log.Infof("installing %s to %s", cfg.BinaryName, cfg.InstallDir)
	if err := install.Install(cfg, binaryPath); err != nil {
		if backupTaken {
			log.Warn("installation failed, restoring backup")
			if rerr := install.Restore(cfg); rerr != nil {
				log.Warnf("%v", rerr)
			}
		}
		return fmt.Errorf("failed to install %s: %w", cfg.BinaryName, err)
	}

	if cleanRequested {
		log.Info("cleaning DockerOps database and directories")
		if existed, err := cleanup.DataDir(cfg); err != nil {
			log.Warnf("%v", err)
		} else if existed {
			log.Infof("removed %s", cfg.DataDir())
		} else {
			log.Info("no DockerOps directory found to clean")
		}
	}

	if newVersion, ok := version.Current(ctx, cfg); ok {
		log.Infof("installation complete, new version: %s", newVersion)
	} else {
		log.Info("installation complete")
	}
	log.Infof("%s is now available at %s", cfg.BinaryName, cfg.BinaryPath)
	return nil
}

// verifyChecksum checks the downloaded archive against the release's
// checksum manifest when one is published. A missing manifest or a
// manifest without an entry for the asset is advisory; a mismatch fails
// the install before anything touches the install path.
func verifyChecksum(ctx context.Context, rel *release.Release, archivePath, assetName string) error {
	manifestAsset := release.FindChecksumAsset(rel)
	if manifestAsset == nil {
		log.Debug("release ships no checksum manifest")
		return nil
	}

	manifest, err := checksums.Fetch(ctx, manifestAsset.URL)
	if err != nil {
		log.Warnf("could not fetch checksum manifest: %v", err)
		return nil
	}

	if err := checksums.VerifyFile(manifest, archivePath, assetName); err != nil {
		if errors.Is(err, checksums.ErrNoEntry) {
			log.Warnf("checksum manifest has no entry for %s", assetName)
			return nil
		}
		return err
	}

	log.Infof("checksum verified for %s", assetName)
	return nil
}
