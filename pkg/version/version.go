// Package version reads back the installed binary's reported version.
// The value is advisory only: scraping subprocess output is fragile, so
// every failure mode degrades to "unknown" instead of an error, and
// nothing fatal is ever decided on it alone.
package version

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
)

// Current invokes the installed binary with its version subcommand under
// the configured timeout and extracts the reported version. The second
// return is false when the version could not be determined for any
// reason: missing binary, exec failure, timeout, or absent marker.
func Current(ctx context.Context, cfg *config.Config) (string, bool) {
	if _, err := os.Stat(cfg.BinaryPath); err != nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.VersionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, cfg.BinaryPath, "version").Output()
	if err != nil {
		return "", false
	}

	return Parse(string(out), cfg.VersionMarker)
}

// Parse scans output line-by-line for the marker and returns the token
// after the first 'v' separator, trimmed of surrounding whitespace.
func Parse(output, marker string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, marker) {
			continue
		}
		parts := strings.SplitN(line, "v", 2)
		if len(parts) < 2 {
			continue
		}
		v := strings.TrimSpace(parts[1])
		if v != "" {
			return v, true
		}
	}
	return "", false
}
