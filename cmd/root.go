package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dockerops-manager",
	Short: "Install, update, and uninstall the DockerOps CLI",
	Long: `dockerops-manager handles the lifecycle of the DockerOps binary on this host:
it fetches prebuilt release archives from GitHub, installs or updates the binary
under /usr/local/bin, and can remove the binary together with its data directory
and systemd units.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.Default)
		if verbose {
			log.SetLevel(log.DebugLevel)
			log.Debugf("Verbose logging enabled")
		} else if quiet {
			log.SetLevel(log.ErrorLevel)
		} else {
			log.SetLevel(log.InfoLevel)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand: print usage and fail
		if err := cmd.Help(); err != nil {
			return err
		}
		return fmt.Errorf("a subcommand is required")
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("command execution failed")
	}
}

// requireRoot gates the mutating workflows on elevated privileges.
func requireRoot() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("this command must be run as root (use sudo)")
	}
	return nil
}

func init() {
	cobra.EnableCommandSorting = false

	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Increase log verbosity")
	RootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress progress output")

	RootCmd.AddCommand(InstallCommand)
	RootCmd.AddCommand(UninstallCommand)
	RootCmd.AddCommand(StatusCommand)
}
