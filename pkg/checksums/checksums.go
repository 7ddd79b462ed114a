// Package checksums verifies a downloaded archive against the checksum
// manifest a release may ship alongside its assets. Releases without a
// manifest install unverified; a manifest that disagrees with the
// download is fatal.
package checksums

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/TomBedinoVT/dockerops-manager/pkg/httpclient"
)

// ErrNoEntry is returned when the manifest has no line for the asset.
var ErrNoEntry = errors.New("no checksum entry for asset")

// Fetch downloads and parses a checksum manifest. Lines have the usual
// "<hash> [*]<filename>" layout; blanks and comments are skipped.
func Fetch(ctx context.Context, url string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := httpclient.New().Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download checksum manifest")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checksum manifest download returned status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read checksum manifest")
	}

	return Parse(string(content)), nil
}

// Parse converts manifest content into a filename-to-hash map.
func Parse(content string) map[string]string {
	checksums := make(map[string]string)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}

		filename := strings.TrimPrefix(parts[1], "*")
		checksums[filename] = parts[0]
	}

	return checksums
}

// VerifyFile compares the SHA-256 of the file at path with the
// manifest's entry for assetName. A missing entry returns ErrNoEntry so
// the caller can treat it as advisory; a mismatch is an ordinary error.
func VerifyFile(manifest map[string]string, path, assetName string) error {
	expected, ok := manifest[assetName]
	if !ok {
		return errors.Wrap(ErrNoEntry, assetName)
	}

	actual, err := hashFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to hash downloaded file")
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", assetName, expected, actual)
	}
	return nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
