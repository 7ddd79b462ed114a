// Package config holds the fixed paths and names the lifecycle manager
// operates on. A single Config is built at startup and passed into every
// operation; nothing in this module keeps package-level state.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// RepoOwner and RepoName identify the GitHub repository releases are
	// fetched from.
	RepoOwner = "TomBedinoVT"
	RepoName  = "DockerOps"

	// BinaryName is the product binary installed into the system path.
	BinaryName = "dockerops"

	// UserAgent identifies this tool on every outbound request.
	UserAgent = "DockerOps-Manager"
)

// Config describes every filesystem location and external name the
// install, uninstall, and status workflows touch.
type Config struct {
	RepoOwner string
	RepoName  string

	// BinaryName is the expected name of the binary inside release archives
	// and at the install path.
	BinaryName string

	// InstallDir is the system directory the binary is copied into.
	InstallDir string
	// BinaryPath is InstallDir/BinaryName.
	BinaryPath string
	// BackupPath holds the previous binary during an update.
	BackupPath string

	// ScratchDir is the working directory for download and extraction,
	// removed at the end of every install attempt.
	ScratchDir string

	// DataDirName is the dot-prefixed per-user directory holding the
	// product's runtime database.
	DataDirName string
	// DatabaseFile is the expected database file name inside the data dir.
	DatabaseFile string

	// SystemdUnitDirs are scanned for SystemdUnitNames on uninstall and status.
	SystemdUnitDirs  []string
	SystemdUnitNames []string

	// VersionMarker is the substring the installed binary's version output
	// is scanned for; the token after the first 'v' is the version.
	VersionMarker string
	// VersionTimeout bounds the wait on the version subprocess.
	VersionTimeout time.Duration
}

// New returns the fixed configuration for the dockerops product.
func New() *Config {
	installDir := "/usr/local/bin"
	binaryPath := filepath.Join(installDir, BinaryName)

	return &Config{
		RepoOwner:  RepoOwner,
		RepoName:   RepoName,
		BinaryName: BinaryName,

		InstallDir: installDir,
		BinaryPath: binaryPath,
		BackupPath: binaryPath + ".backup",

		ScratchDir: filepath.Join(os.TempDir(), "dockerops_install"),

		DataDirName:  ".dockerops",
		DatabaseFile: "dockerops.db",

		SystemdUnitDirs: []string{
			"/etc/systemd/system",
			"/usr/lib/systemd/system",
			"/lib/systemd/system",
		},
		SystemdUnitNames: []string{
			"dockerops.service",
			"dockerops.timer",
		},

		VersionMarker:  "DockerOps CLI v",
		VersionTimeout: 10 * time.Second,
	}
}

// Repo returns the owner/name form of the release repository.
func (c *Config) Repo() string {
	return c.RepoOwner + "/" + c.RepoName
}

// DataDir resolves the per-user data directory. When the tool runs under
// sudo the invoking user's home is used, not root's, so the directory the
// product actually wrote to is the one cleaned and reported.
func (c *Config) DataDir() string {
	return filepath.Join(userHome(), c.DataDirName)
}

// DatabasePath returns the expected database file inside the data dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir(), c.DatabaseFile)
}

func userHome() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		return filepath.Join("/home", sudoUser)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return os.Getenv("HOME")
}
