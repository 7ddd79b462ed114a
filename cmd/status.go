package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/apex/log"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/TomBedinoVT/dockerops-manager/pkg/cleanup"
	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
	"github.com/TomBedinoVT/dockerops-manager/pkg/version"
)

var statusOutput string

// StatusCommand represents the status command
var StatusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show current DockerOps status",
	Long: `Report whether the DockerOps binary is installed, its version, the state of
the per-user data directory and database, and any installed systemd units.

Status is read-only and always succeeds; each check is reported independently.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	StatusCommand.Flags().StringVarP(&statusOutput, "output", "o", "text", "Output format: text, json, or yaml")
}

// statusReport is the full read-only state snapshot.
type statusReport struct {
	BinaryPath      string   `json:"binary_path" yaml:"binary_path"`
	BinaryPresent   bool     `json:"binary_present" yaml:"binary_present"`
	Executable      bool     `json:"executable" yaml:"executable"`
	Version         string   `json:"version,omitempty" yaml:"version,omitempty"`
	DataDir         string   `json:"data_dir" yaml:"data_dir"`
	DataDirPresent  bool     `json:"data_dir_present" yaml:"data_dir_present"`
	DatabasePresent bool     `json:"database_present" yaml:"database_present"`
	DatabaseSize    int64    `json:"database_size" yaml:"database_size"`
	SystemdUnits    []string `json:"systemd_units,omitempty" yaml:"systemd_units,omitempty"`
}

// gatherStatus collects every check without ever failing; absent state
// simply reads as absent.
func gatherStatus(ctx context.Context, cfg *config.Config) *statusReport {
	report := &statusReport{
		BinaryPath: cfg.BinaryPath,
		DataDir:    cfg.DataDir(),
	}

	if info, err := os.Stat(cfg.BinaryPath); err == nil {
		report.BinaryPresent = true
		report.Executable = info.Mode()&0111 != 0
		if v, ok := version.Current(ctx, cfg); ok {
			report.Version = v
		}
	}

	if _, err := os.Stat(report.DataDir); err == nil {
		report.DataDirPresent = true
		if info, err := os.Stat(cfg.DatabasePath()); err == nil {
			report.DatabasePresent = true
			report.DatabaseSize = info.Size()
		}
	}

	report.SystemdUnits = cleanup.FindSystemdUnits(cfg)
	return report
}

func runStatus(cmd *cobra.Command, args []string) error {
	report := gatherStatus(cmd.Context(), config.New())
	out := cmd.OutOrStdout()

	switch statusOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Warnf("failed to render status: %v", err)
		}
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			log.Warnf("failed to render status: %v", err)
			break
		}
		fmt.Fprint(out, string(data))
	default:
		printTextReport(out, report)
	}
	return nil
}

func printTextReport(out io.Writer, report *statusReport) {
	fmt.Fprintln(out, "DockerOps Status")

	if report.BinaryPresent {
		fmt.Fprintf(out, "binary found: %s\n", report.BinaryPath)
		if report.Version != "" {
			fmt.Fprintf(out, "version: %s\n", report.Version)
		} else {
			fmt.Fprintln(out, "version: unknown")
		}
		if report.Executable {
			fmt.Fprintln(out, "binary is executable")
		} else {
			fmt.Fprintln(out, "binary is not executable")
		}
	} else {
		fmt.Fprintln(out, "binary not found")
	}

	if report.DataDirPresent {
		fmt.Fprintf(out, "data directory: %s\n", report.DataDir)
		if report.DatabasePresent {
			fmt.Fprintf(out, "database size: %d bytes\n", report.DatabaseSize)
		} else {
			fmt.Fprintln(out, "database file not found")
		}
	} else {
		fmt.Fprintln(out, "no data directory found")
	}

	if len(report.SystemdUnits) > 0 {
		fmt.Fprintln(out, "systemd units found:")
		for _, unit := range report.SystemdUnits {
			fmt.Fprintf(out, "  - %s\n", unit)
		}
	} else {
		fmt.Fprintln(out, "no systemd units found")
	}
}
