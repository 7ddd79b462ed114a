// Package fetch streams release assets to the scratch directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/TomBedinoVT/dockerops-manager/pkg/httpclient"
)

// Download streams url to destPath. The body is written to a temporary
// file next to the destination and renamed into place on success, so a
// failed transfer never leaves a partial file behind. Errors are not
// retried; the caller decides whether the attempt is fatal.
func Download(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create destination directory")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := httpclient.New().Do(req)
	if err != nil {
		return errors.Wrap(err, "download failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d for %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to write downloaded file")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary file")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return errors.Wrap(err, "failed to move downloaded file")
	}
	return nil
}
