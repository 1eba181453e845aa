// Package asset builds release-asset download URLs.
package asset

import (
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// defaultHost is the base URL release assets are downloaded from.
const defaultHost = "https://github.com"

// Builder constructs validated download URLs for one repository's release
// assets, replacing ad hoc string interpolation at call sites.
type Builder struct {
	Host   string
	Repo   string
	Binary string
	Triple string
}

// NewBuilder creates a builder for the given repository, binary name and
// target triple, downloading from the default release host.
func NewBuilder(repo, binary, triple string) *Builder {
	return &Builder{
		Host:   defaultHost,
		Repo:   repo,
		Binary: binary,
		Triple: triple,
	}
}

// Filename returns the archive filename for this binary and target.
func (b *Builder) Filename() string {
	return fmt.Sprintf("%s-%s.tar.gz", b.Binary, b.Triple)
}

// DownloadURL returns the asset URL for the given release tag.
func (b *Builder) DownloadURL(tag string) (string, error) {
	if tag == "" {
		return "", errors.New("release tag must not be empty")
	}
	raw := fmt.Sprintf("%s/%s/releases/download/%s/%s", b.Host, b.Repo, tag, b.Filename())
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid download URL: %s", raw)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid download URL: %s", raw)
	}
	return u.String(), nil
}

// ChecksumURL returns the URL of the sha256 sidecar for the given tag.
func (b *Builder) ChecksumURL(tag string) (string, error) {
	u, err := b.DownloadURL(tag)
	if err != nil {
		return "", err
	}
	return u + ".sha256", nil
}
