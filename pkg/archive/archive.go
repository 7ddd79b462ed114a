// Package archive extracts downloaded release archives and locates the
// product binary inside the extracted tree.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Extract unpacks archivePath into destDir. The format is dispatched
// purely on the file-name suffix: .zip and .tar.gz are supported, any
// other suffix is an unsupported-format error.
func Extract(archivePath, destDir string) error {
	switch {
	case strings.HasSuffix(archivePath, ".zip"):
		return extractZip(archivePath, destDir)
	case strings.HasSuffix(archivePath, ".tar.gz"):
		return extractTarGz(archivePath, destDir)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}
}

// FindBinary walks root recursively and returns the first regular file
// whose name exactly equals name. Absence is an error.
func FindBinary(root, name string) (string, error) {
	var found string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to scan extracted files")
	}
	if found == "" {
		return "", fmt.Errorf("could not find %s in extracted files under %s", name, root)
	}
	return found, nil
}

func extractTarGz(archivePath, destDir string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open archive")
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return errors.Wrap(err, "failed to create gzip reader")
	}
	defer gzReader.Close()

	tarReader := tar.NewReader(gzReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "failed to read tar header")
		}

		target, err := securePath(destDir, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return errors.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := writeFile(target, tarReader, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
	return nil
}

func extractZip(archivePath, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return errors.Wrap(err, "failed to open zip archive")
	}
	defer reader.Close()

	for _, file := range reader.File {
		target, err := securePath(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, file.Mode()); err != nil {
				return errors.Wrap(err, "failed to create directory")
			}
			continue
		}

		src, err := file.Open()
		if err != nil {
			return errors.Wrap(err, "failed to open file in archive")
		}
		if err := writeFile(target, src, file.Mode()); err != nil {
			src.Close()
			return err
		}
		src.Close()
	}
	return nil
}

func writeFile(target string, src io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrap(err, "failed to create parent directory")
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return errors.Wrap(err, "failed to extract file")
	}
	return out.Close()
}

// securePath joins an archive entry name onto destDir, rejecting entries
// that would escape it.
func securePath(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if target != destDir && !strings.HasPrefix(target, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid path in archive: %s", name)
	}
	return target, nil
}
