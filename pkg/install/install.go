// Package install downloads a release archive and places the extracted
// binary into the destination directory.
package install

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/pkg/errors"

	"github.com/trackio/trackio-tui-install/pkg/archive"
	"github.com/trackio/trackio-tui-install/pkg/checksums"
)

// SystemBinDir is the destination for --system installs.
const SystemBinDir = "/usr/local/bin"

// Runner executes external commands. It exists so elevated operations can
// be exercised in tests without invoking sudo.
type Runner interface {
	Run(name string, args ...string) error
}

// ExecRunner runs commands on the host.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "%s %s failed: %s", name, strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return nil
}

// Installer performs one install into DestDir. When Elevated is set, every
// write to DestDir goes through sudo; nothing else is elevated.
type Installer struct {
	DestDir  string
	Elevated bool
	Binary   string
	Client   *http.Client
	Runner   Runner
}

// New creates an installer for the given destination.
func New(destDir string, elevated bool, binary string, client *http.Client) *Installer {
	return &Installer{
		DestDir:  destDir,
		Elevated: elevated,
		Binary:   binary,
		Client:   client,
		Runner:   ExecRunner{},
	}
}

// ResolveDir resolves the destination directory. An explicit directory wins
// and is expanded; otherwise system installs target SystemBinDir and user
// installs target ~/.local/bin.
func ResolveDir(binDir string, system bool) (string, error) {
	if binDir == "" {
		if system {
			return SystemBinDir, nil
		}
		home := os.Getenv("HOME")
		if home == "" {
			return "", fmt.Errorf("could not determine install directory: no HOME environment variable")
		}
		binDir = filepath.Join(home, ".local", "bin")
	}

	binDir = expandPath(binDir)

	absPath, err := filepath.Abs(binDir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve install directory")
	}
	return absPath, nil
}

// Run performs the install: destination directory first, then the sidecar
// checksum, then the archive download pipelined into extraction, then the
// move and chmod. It returns the installed binary path.
func (i *Installer) Run(ctx context.Context, assetURL, checksumURL string) (string, error) {
	if err := i.EnsureDestDir(); err != nil {
		return "", err
	}

	expected, err := checksums.FetchExpected(ctx, i.Client, checksumURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create download request")
	}

	log.Infof("downloading %s", assetURL)
	resp, err := i.Client.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "failed to download %s", assetURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed with status %d: %s", resp.StatusCode, assetURL)
	}

	staging, err := os.MkdirTemp("", "trackio-tui-install-")
	if err != nil {
		return "", errors.Wrap(err, "failed to create staging directory")
	}
	defer os.RemoveAll(staging)

	var body io.Reader = resp.Body
	var hashing *checksums.Reader
	if expected != "" {
		hashing = checksums.NewReader(resp.Body)
		body = hashing
	}

	if err := archive.ExtractTarGz(body, staging); err != nil {
		return "", errors.Wrapf(err, "failed to unpack %s", assetURL)
	}

	if hashing != nil {
		// Drain any trailing bytes the gzip reader left unconsumed so
		// the digest covers the whole asset.
		if _, err := io.Copy(io.Discard, hashing); err != nil {
			return "", errors.Wrap(err, "failed to read archive trailer")
		}
		if err := checksums.Verify(hashing.Sum(), expected); err != nil {
			return "", errors.Wrapf(err, "failed to verify %s", assetURL)
		}
		log.Debug("checksum verified")
	}

	src, err := archive.FindBinary(staging, i.Binary)
	if err != nil {
		return "", err
	}

	target := filepath.Join(i.DestDir, i.Binary)
	if err := i.place(src, target); err != nil {
		return "", err
	}
	return target, nil
}

// EnsureDestDir creates the destination directory recursively, through
// sudo when the install is elevated. It runs before anything is
// downloaded.
func (i *Installer) EnsureDestDir() error {
	if i.Elevated {
		if err := i.Runner.Run("sudo", "mkdir", "-p", i.DestDir); err != nil {
			return errors.Wrapf(err, "failed to create install directory %s", i.DestDir)
		}
		return nil
	}
	if err := os.MkdirAll(i.DestDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create install directory %s", i.DestDir)
	}
	return nil
}

// ValidateURL checks that the asset URL exists without downloading it,
// for dry runs.
func (i *Installer) ValidateURL(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := i.Client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to validate %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("asset URL returned status %d: %s", resp.StatusCode, url)
	}
	return nil
}

// place moves the extracted binary into the destination and marks it
// executable, elevating both steps when required.
func (i *Installer) place(src, target string) error {
	if i.Elevated {
		if err := i.Runner.Run("sudo", "mv", src, target); err != nil {
			return errors.Wrapf(err, "failed to install %s", target)
		}
		if err := i.Runner.Run("sudo", "chmod", "0755", target); err != nil {
			return errors.Wrapf(err, "failed to set permissions on %s", target)
		}
		return nil
	}

	source, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "failed to open extracted binary")
	}
	defer source.Close()

	// Stage inside the destination directory so the final rename is
	// atomic and never crosses devices.
	tmpFile, err := os.CreateTemp(i.DestDir, "."+i.Binary+"-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, source); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to copy binary")
	}
	if err := tmpFile.Chmod(0755); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to set permissions")
	}
	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temporary file")
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return errors.Wrapf(err, "failed to install %s", target)
	}

	success = true
	return nil
}

// OnSearchPath reports whether dir appears in the given PATH value. The
// result only drives a post-install advisory, never the exit code.
func OnSearchPath(dir, pathEnv string) bool {
	clean := filepath.Clean(dir)
	for _, entry := range filepath.SplitList(pathEnv) {
		if entry == "" {
			continue
		}
		if filepath.Clean(entry) == clean {
			return true
		}
	}
	return false
}

// expandPath expands ~ and environment variables in a path.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home := os.Getenv("HOME"); home != "" {
			path = filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
