// Package archive extracts release archives and locates the installed
// binary inside them.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ExtractTarGz streams a gzip-compressed tar archive from r into destDir.
// It is used directly on the HTTP response body so download and unpack run
// as one pipelined operation.
func ExtractTarGz(r io.Reader, destDir string) error {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "failed to read gzip stream")
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

		target := filepath.Join(destDir, header.Name)

		// Reject entries escaping destDir. "." entries resolve to
		// destDir itself and are harmless.
		clean := filepath.Clean(destDir)
		if target != clean && !strings.HasPrefix(target, clean+string(os.PathSeparator)) {
			return fmt.Errorf("invalid path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return errors.Wrap(err, "failed to create directory")
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrap(err, "failed to create parent directory")
			}

			file, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return errors.Wrap(err, "failed to create file")
			}

			if _, err := io.Copy(file, tarReader); err != nil {
				file.Close()
				return errors.Wrap(err, "failed to extract file")
			}

			file.Close()
		}
	}

	return nil
}

// FindBinary locates the named binary under destDir: first at the top
// level, then anywhere below it. An absent binary means the archive layout
// is not what the release promises, which is a terminal error.
func FindBinary(destDir, name string) (string, error) {
	direct := filepath.Join(destDir, name)
	if info, err := os.Stat(direct); err == nil && info.Mode().IsRegular() {
		return direct, nil
	}

	var found string
	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
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
		return "", errors.Wrap(err, "failed to search extracted archive")
	}
	if found == "" {
		return "", fmt.Errorf("binary %q not found in extracted archive", name)
	}
	return found, nil
}
